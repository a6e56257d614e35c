package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-connector/core"
	"github.com/google/uuid"
)

const (
	testConnectorID = "https://connector.example/connector"
	testPeerID      = "https://peer.example/connector"
	testBaseURI     = "https://connector.example/api/resources"
)

func testConnector() core.Connector {
	return core.Connector{
		ID:                   testConnectorID,
		Title:                "Test Connector",
		OutboundModelVersion: "4.0.0",
		InboundModelVersions: []string{"4.0.0"},
		ResourceBaseURI:      testBaseURI,
	}
}

func testResource(id uuid.UUID, title string) core.Resource {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return core.Resource{
		ID:         id,
		Title:      title,
		Keywords:   []string{"test"},
		Language:   "EN",
		Version:    1,
		CreatedAt:  at,
		ModifiedAt: at,
	}
}

func descriptionRequest(requested string) *core.IncomingRequest {
	return &core.IncomingRequest{
		ID:               "urn:uuid:request-1",
		TypeTag:          core.TypeDescriptionRequestMessage,
		IssuerConnector:  testPeerID,
		ModelVersion:     "4.0.0",
		RequestedElement: requested,
	}
}

// countingResolver wraps a memory resolver and counts calls.
type countingResolver struct {
	mu        sync.Mutex
	inner     *core.MemoryResourceResolver
	getCalls  int
	listCalls int
	getErr    error
	listErr   error
}

func newCountingResolver(resources ...core.Resource) *countingResolver {
	return &countingResolver{inner: core.NewMemoryResourceResolver(resources...)}
}

func (r *countingResolver) GetResource(ctx context.Context, id string) (core.Resource, bool, error) {
	r.mu.Lock()
	r.getCalls++
	err := r.getErr
	r.mu.Unlock()
	if err != nil {
		return core.Resource{}, false, err
	}
	return r.inner.GetResource(ctx, id)
}

func (r *countingResolver) GetAllOfferedResources(ctx context.Context) ([]core.Resource, error) {
	r.mu.Lock()
	r.listCalls++
	err := r.listErr
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.inner.GetAllOfferedResources(ctx)
}

func (r *countingResolver) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls + r.listCalls
}

type failingSerializer struct{}

func (failingSerializer) MediaType() string { return "text/plain" }

func (failingSerializer) SerializeResource(core.Connector, core.Resource) (core.Document, error) {
	return core.Document{}, errors.New("encoder exploded")
}

func (failingSerializer) SerializeSelfDescription(core.SelfDescription) (core.Document, error) {
	return core.Document{}, errors.New("encoder exploded")
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
}

func newHeaders(connector core.Connector) *core.HeaderService {
	return core.NewHeaderService(
		core.NewStaticConnectorConfiguration(connector),
		core.WithHeaderClock(fixedClock),
		core.WithHeaderIDGenerator(func() string { return "urn:uuid:response-1" }),
	)
}
