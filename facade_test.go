package connector_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	connector "github.com/goliatone/go-connector"
	"github.com/goliatone/go-connector/core"
	"github.com/goliatone/go-connector/inbound"
	connectormigrations "github.com/goliatone/go-connector/migrations"
	sqlstore "github.com/goliatone/go-connector/store/sql"
	"github.com/goliatone/go-connector/transport"
	"github.com/google/uuid"
)

const (
	testConnectorID = "https://connector.example/connector"
	testBaseURI     = "https://connector.example/api/resources"
)

func testConfig() connector.Config {
	cfg := connector.DefaultConfig()
	cfg.Connector.ID = testConnectorID
	cfg.Connector.Title = "Example Connector"
	cfg.Connector.ResourceBaseURI = testBaseURI
	return cfg
}

func describe(t *testing.T, facade *connector.Facade, requested string, version string) core.Response {
	t.Helper()
	resp, err := facade.Describe(context.Background(), &core.IncomingRequest{
		ID:               "urn:uuid:" + uuid.NewString(),
		IssuerConnector:  "https://peer.example/connector",
		ModelVersion:     version,
		RequestedElement: requested,
	})
	if err != nil {
		t.Fatalf("describe %q: %v", requested, err)
	}
	return resp
}

func requireRejection(t *testing.T, resp core.Response, reason core.RejectionReason) *core.ErrorResponse {
	t.Helper()
	rejection, ok := resp.(*core.ErrorResponse)
	if !ok {
		t.Fatalf("expected %s rejection, got %T", reason, resp)
	}
	if rejection.Reason != reason {
		t.Fatalf("expected %s, got %s (%q)", reason, rejection.Reason, rejection.Message)
	}
	if rejection.Header.RejectionReason != reason {
		t.Fatalf("expected header to carry %s, got %q", reason, rejection.Header.RejectionReason)
	}
	return rejection
}

func offeredResourceIDs(t *testing.T, resp core.Response) []string {
	t.Helper()
	body, ok := resp.(*core.BodyResponse)
	if !ok {
		t.Fatalf("expected body response, got %T", resp)
	}
	var document struct {
		Type     string `json:"@type"`
		Catalogs []struct {
			Offered []struct {
				ID string `json:"@id"`
			} `json:"ids:offeredResource"`
		} `json:"ids:resourceCatalog"`
	}
	if err := json.Unmarshal(body.Payload.Body, &document); err != nil {
		t.Fatalf("decode self-description: %v", err)
	}
	if document.Type != "ids:BaseConnector" {
		t.Fatalf("expected connector self-description, got %q", document.Type)
	}
	if len(document.Catalogs) != 1 {
		t.Fatalf("expected one catalog, got %d", len(document.Catalogs))
	}
	ids := []string{}
	for _, offered := range document.Catalogs[0].Offered {
		ids = append(ids, offered.ID)
	}
	sort.Strings(ids)
	return ids
}

func assertDescriptionScenario(t *testing.T, facade *connector.Facade, a uuid.UUID, b uuid.UUID) {
	t.Helper()

	requireRejection(t, describe(t, facade, "", "3.0.0"), core.RejectionVersionNotSupported)

	malformed := requireRejection(t, describe(t, facade, "not-a-uuid", "4.0.0"), core.RejectionBadParameters)
	if malformed.Message != core.MessageNoValidResourceID {
		t.Fatalf("unexpected malformed message %q", malformed.Message)
	}

	unknown := uuid.New()
	missing := requireRejection(t, describe(t, facade, unknown.String(), "4.0.0"), core.RejectionNotFound)
	if want := fmt.Sprintf("The resource %s could not be found.", unknown.String()); missing.Message != want {
		t.Fatalf("expected %q, got %q", want, missing.Message)
	}

	found, ok := describe(t, facade, testBaseURI+"/"+a.String(), "4.0.0").(*core.BodyResponse)
	if !ok {
		t.Fatalf("expected body response for known resource")
	}
	if found.Header.Type != core.TypeDescriptionResponseMessage {
		t.Fatalf("unexpected response type %q", found.Header.Type)
	}
	var resource map[string]any
	if err := json.Unmarshal(found.Payload.Body, &resource); err != nil {
		t.Fatalf("decode resource: %v", err)
	}
	if resource["@id"] != testBaseURI+"/"+a.String() {
		t.Fatalf("unexpected resource @id %v", resource["@id"])
	}

	ids := offeredResourceIDs(t, describe(t, facade, "", "4.0.0"))
	want := []string{testBaseURI + "/" + a.String(), testBaseURI + "/" + b.String()}
	sort.Strings(want)
	if len(ids) != 2 || ids[0] != want[0] || ids[1] != want[1] {
		t.Fatalf("expected catalog %v, got %v", want, ids)
	}
}

func TestSetup_DescriptionScenarioInMemory(t *testing.T) {
	a := core.Resource{ID: uuid.New(), Title: "A", Language: "EN"}
	b := core.Resource{ID: uuid.New(), Title: "B", Language: "EN"}
	facade, err := connector.Setup(testConfig(),
		connector.WithResourceResolver(core.NewMemoryResourceResolver(a, b)),
	)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	assertDescriptionScenario(t, facade, a.ID, b.ID)

	tags := facade.Dispatcher().TypeTags()
	if len(tags) != 1 || tags[0] != core.TypeDescriptionRequestMessage {
		t.Fatalf("expected only the description handler, got %v", tags)
	}
	if !facade.Service().Registry().Sealed() {
		t.Fatalf("expected registry to be sealed after setup")
	}
}

func TestSetup_DescriptionScenarioSQLite(t *testing.T) {
	ctx := context.Background()
	client, err := sqlstore.OpenClient(sqlstore.ClientConfig{
		Driver:      sqlstore.DriverSQLite,
		DSN:         "file:connector-facade-" + uuid.NewString() + "?mode=memory&cache=shared",
		PingTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("open client: %v", err)
	}
	defer client.Close()
	if err := connectormigrations.Apply(ctx, client, connectormigrations.DialectSQLite); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	cfg := testConfig()
	cfg.Cache.Enabled = true
	factory, err := sqlstore.NewRepositoryFactoryFromConfig(client, cfg)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	a, err := factory.ResourceStore().Save(ctx, core.Resource{Title: "A", Language: "EN"})
	if err != nil {
		t.Fatalf("save A: %v", err)
	}
	b, err := factory.ResourceStore().Save(ctx, core.Resource{Title: "B", Language: "EN"})
	if err != nil {
		t.Fatalf("save B: %v", err)
	}
	withdrawn, err := factory.ResourceStore().Save(ctx, core.Resource{Title: "C"})
	if err != nil {
		t.Fatalf("save C: %v", err)
	}
	if err := factory.ResourceStore().SetOffered(ctx, withdrawn.ID, false); err != nil {
		t.Fatalf("withdraw C: %v", err)
	}

	facade, err := connector.Setup(cfg, connector.WithRepositoryFactory(factory))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	assertDescriptionScenario(t, facade, a.ID, b.ID)
	requireRejection(t, describe(t, facade, withdrawn.ID.String(), "4.0.0"), core.RejectionNotFound)
}

func TestSetup_ServesMultipartEndpoint(t *testing.T) {
	resource := core.Resource{ID: uuid.New(), Title: "Weather", Language: "EN"}
	cfg := testConfig()
	cfg.Serialization.MediaType = core.MediaTypeCBOR
	facade, err := connector.Setup(cfg,
		connector.WithResourceResolver(core.NewMemoryResourceResolver(resource)),
		connector.WithMaxRequestBytes(1<<16),
	)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if got := facade.Service().Serializer().MediaType(); got != core.MediaTypeCBOR {
		t.Fatalf("expected cbor serializer from config, got %q", got)
	}

	server := httptest.NewServer(facade.Handler())
	defer server.Close()

	header, reply, err := transport.NewClient(server.Client()).RequestDescription(context.Background(), server.URL, core.IncomingRequest{
		ID:               "urn:uuid:http-1",
		IssuerConnector:  "https://peer.example/connector",
		ModelVersion:     "4.0.0",
		RequestedElement: resource.ID.String(),
		Issued:           time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("request description: %v", err)
	}
	if header.RejectionReason != "" {
		t.Fatalf("expected success, got %s", header.RejectionReason)
	}
	if header.CorrelationMessage != "urn:uuid:http-1" {
		t.Fatalf("unexpected correlation %q", header.CorrelationMessage)
	}
	if reply.PayloadMediaType != core.MediaTypeCBOR {
		t.Fatalf("expected cbor payload, got %q", reply.PayloadMediaType)
	}
}

func TestSetup_VerifierRejectsUnauthenticated(t *testing.T) {
	facade, err := connector.Setup(testConfig(),
		connector.WithVerifier(inbound.VerifierFunc(func(_ context.Context, req *core.IncomingRequest) error {
			if req.SecurityToken == "" {
				return fmt.Errorf("missing token")
			}
			return nil
		})),
	)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	requireRejection(t, describe(t, facade, "", "4.0.0"), core.RejectionNotAuthenticated)
}

func TestSetup_ExtraHandlers(t *testing.T) {
	called := false
	facade, err := connector.Setup(testConfig(),
		connector.WithHandler("ids:QueryMessage", core.HandlerFunc(func(_ context.Context, req *core.IncomingRequest, _ []byte) (core.Response, error) {
			called = true
			return core.NewRejection(core.DefaultRejectionHeader(core.RejectionTooManyResults), core.RejectionTooManyResults, "too many"), nil
		})),
	)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	resp, err := facade.Dispatcher().DispatchRequest(context.Background(), &core.IncomingRequest{
		ID:           "urn:uuid:q",
		TypeTag:      "ids:QueryMessage",
		ModelVersion: "4.0.0",
	}, nil)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !called {
		t.Fatalf("expected extra handler to run")
	}
	requireRejection(t, resp, core.RejectionTooManyResults)

	if _, err := connector.Setup(testConfig(), connector.WithHandler(core.TypeDescriptionRequestMessage, core.HandlerFunc(
		func(context.Context, *core.IncomingRequest, []byte) (core.Response, error) { return nil, nil },
	))); err == nil {
		t.Fatalf("expected duplicate description handler to fail")
	}
}

func TestSetup_RequiresConnectorID(t *testing.T) {
	if _, err := connector.Setup(connector.DefaultConfig()); err == nil {
		t.Fatalf("expected missing connector id to fail")
	}
	var facade *connector.Facade
	if _, err := facade.Describe(context.Background(), &core.IncomingRequest{}); err == nil {
		t.Fatalf("expected nil facade to fail")
	}
}
