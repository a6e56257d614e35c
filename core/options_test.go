package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

type fixedConfigProvider struct {
	cfg Config
}

func (p *fixedConfigProvider) Load(context.Context, Config) (Config, error) {
	return p.cfg, nil
}

type fixedOptionsResolver struct {
	cfg Config
}

func (r *fixedOptionsResolver) Resolve(Config, Config, Config) (Config, error) {
	return r.cfg, nil
}

func TestNewService_DefaultDependencies(t *testing.T) {
	svc, err := NewService(testConfig(), WithDocumentSerializer(stubSerializer{}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	deps := svc.Dependencies()
	if deps.Logger == nil {
		t.Fatalf("expected default logger")
	}
	if deps.LoggerProvider == nil {
		t.Fatalf("expected default logger provider")
	}
	if deps.ErrorMapper == nil {
		t.Fatalf("expected default error mapper")
	}
	if deps.ConfigProvider == nil {
		t.Fatalf("expected default config provider")
	}
	if deps.OptionsResolver == nil {
		t.Fatalf("expected default options resolver")
	}
	if deps.Registry == nil || deps.Assembler == nil || deps.Headers == nil || deps.Observer == nil {
		t.Fatalf("expected default registry, assembler, headers and observer")
	}
	if _, ok := deps.Resolver.(*MemoryResourceResolver); !ok {
		t.Fatalf("expected memory resolver by default, got %T", deps.Resolver)
	}
	if got := svc.Config().ServiceName; got != "connector" {
		t.Fatalf("expected default service_name=connector, got %q", got)
	}
	if got := svc.Connector().ID; got != testConnectorID {
		t.Fatalf("expected connector id from config, got %q", got)
	}
}

func TestNewService_WithXOverrides(t *testing.T) {
	customLogger := stubLogger{}
	customProvider := stubLoggerProvider{logger: customLogger}
	sentinel := errors.New("sentinel")
	customMapper := func(error) *goerrors.Error {
		return goerrors.Wrap(sentinel, goerrors.CategoryOperation, "mapped")
	}
	resolved := testConfig()
	resolved.ServiceName = "resolved"
	configProvider := &fixedConfigProvider{cfg: Config{ServiceName: "from-provider"}}
	optionsResolver := &fixedOptionsResolver{cfg: resolved}
	resolver := NewMemoryResourceResolver()
	registry := NewHandlerRegistry()
	connectorConfig := NewStaticConnectorConfiguration(Connector{ID: "urn:connector:override", OutboundModelVersion: "4.1.0"})

	svc, err := NewService(Config{ServiceName: "runtime"},
		WithLogger(customLogger),
		WithLoggerProvider(customProvider),
		WithErrorMapper(customMapper),
		WithConfigProvider(configProvider),
		WithOptionsResolver(optionsResolver),
		WithResourceResolver(resolver),
		WithHandlerRegistry(registry),
		WithConnectorConfiguration(connectorConfig),
		WithDocumentSerializer(stubSerializer{}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	deps := svc.Dependencies()
	if deps.Logger != customLogger {
		t.Fatalf("expected custom logger override")
	}
	if resolvedLogger := deps.LoggerProvider.GetLogger("connector.override"); resolvedLogger != customLogger {
		t.Fatalf("expected logger provider to resolve custom logger")
	}
	if deps.ConfigProvider != configProvider {
		t.Fatalf("expected custom config provider override")
	}
	if deps.OptionsResolver != optionsResolver {
		t.Fatalf("expected custom options resolver override")
	}
	if deps.Resolver != resolver {
		t.Fatalf("expected custom resolver override")
	}
	if deps.Registry != registry {
		t.Fatalf("expected custom registry override")
	}
	if got := svc.Config().ServiceName; got != "resolved" {
		t.Fatalf("expected options resolver output config, got %q", got)
	}
	if got := svc.Connector().ID; got != "urn:connector:override" {
		t.Fatalf("expected connector configuration override, got %q", got)
	}
}

func TestNewService_ResolverFromRepositoryFactory(t *testing.T) {
	resolver := NewMemoryResourceResolver(testResource("from-factory"))
	svc, err := NewService(testConfig(),
		WithRepositoryFactory(staticResolverProvider{resolver: resolver}),
		WithDocumentSerializer(stubSerializer{}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if svc.Resolver() != resolver {
		t.Fatalf("expected resolver from repository factory")
	}
}

func TestNewService_RequiresSerializer(t *testing.T) {
	_, err := NewService(testConfig())
	if err == nil {
		t.Fatalf("expected missing serializer to fail")
	}
	if !hasTextCode(err, ConnectorErrorBadInput) {
		t.Fatalf("expected bad input text code, got %v", err)
	}
}

type mediaTypeResolver struct {
	requested []string
}

func (r *mediaTypeResolver) Resolve(mediaType string) (DocumentSerializer, error) {
	r.requested = append(r.requested, mediaType)
	if mediaType != MediaTypeCBOR {
		return nil, errors.New("unsupported media type")
	}
	return stubSerializer{}, nil
}

func TestNewService_SerializerFromResolvedMediaType(t *testing.T) {
	provider := NewCfgxConfigProvider(mapRawLoader{values: map[string]any{
		"serialization": map[string]any{"media_type": MediaTypeCBOR},
	}})
	runtime := testConfig()
	runtime.Serialization.MediaType = ""
	resolver := &mediaTypeResolver{}
	svc, err := NewService(runtime, WithConfigProvider(provider), WithSerializerResolver(resolver))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if len(resolver.requested) != 1 || resolver.requested[0] != MediaTypeCBOR {
		t.Fatalf("expected resolver to see the loaded media type, got %#v", resolver.requested)
	}
	if svc.Serializer() == nil {
		t.Fatalf("expected resolved serializer")
	}

	if _, err := NewService(testConfig(), WithSerializerResolver(&mediaTypeResolver{})); err == nil {
		t.Fatalf("expected resolver failure to fail the build")
	}
}

func TestNewService_RequiresConnectorID(t *testing.T) {
	_, err := NewService(Config{}, WithDocumentSerializer(stubSerializer{}))
	if err == nil {
		t.Fatalf("expected missing connector id to fail")
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		t.Fatalf("expected mapped go-errors value, got %T", err)
	}
}

func TestNewService_ConfigLayeringPrecedence(t *testing.T) {
	provider := NewCfgxConfigProvider(mapRawLoader{values: map[string]any{
		"service_name": "from-config",
		"connector": map[string]any{
			"id":                     "https://config.example/connector",
			"title":                  "Configured",
			"inbound_model_versions": []string{"4.0.0", "4.1.0"},
		},
	}})

	svc, err := NewService(Config{ServiceName: "from-runtime"},
		WithConfigProvider(provider),
		WithDocumentSerializer(stubSerializer{}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cfg := svc.Config()
	if cfg.ServiceName != "from-runtime" {
		t.Fatalf("expected runtime value to override config/default, got %q", cfg.ServiceName)
	}
	if cfg.Connector.ID != "https://config.example/connector" {
		t.Fatalf("expected config layer connector id, got %q", cfg.Connector.ID)
	}
	if len(cfg.Connector.InboundModelVersions) != 2 {
		t.Fatalf("expected config layer inbound versions, got %#v", cfg.Connector.InboundModelVersions)
	}
	if cfg.Connector.OutboundModelVersion != "4.0.0" {
		t.Fatalf("expected default outbound version, got %q", cfg.Connector.OutboundModelVersion)
	}
}

func TestYAMLFileLoader_FeedsConfigProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connector.yaml")
	body := []byte(`
connector_runtime:
  service_name: yaml-connector
  connector:
    id: https://yaml.example/connector
    outbound_model_version: 4.2.0
    inbound_model_versions:
      - 4.2.0
  cache:
    enabled: true
    ttl_seconds: 30
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loader := &YAMLFileLoader{Path: path, Section: "connector_runtime"}
	svc, err := NewService(Config{},
		WithConfigProvider(NewCfgxConfigProvider(loader)),
		WithDocumentSerializer(stubSerializer{}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	cfg := svc.Config()
	if cfg.ServiceName != "yaml-connector" {
		t.Fatalf("expected yaml service name, got %q", cfg.ServiceName)
	}
	if cfg.Connector.OutboundModelVersion != "4.2.0" {
		t.Fatalf("expected yaml outbound version, got %q", cfg.Connector.OutboundModelVersion)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTLSeconds != 30 {
		t.Fatalf("expected yaml cache settings, got %#v", cfg.Cache)
	}
}

func TestYAMLFileLoader_MissingFileYieldsDefaults(t *testing.T) {
	loader := NewYAMLFileLoader(filepath.Join(t.TempDir(), "absent.yaml"))
	values, err := loader.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no values, got %#v", values)
	}
}

func TestYAMLFileLoader_RejectsNonMappingSection(t *testing.T) {
	if _, err := decodeYAMLConfig([]byte("connector_runtime: [1, 2]\n"), "connector_runtime"); err == nil {
		t.Fatalf("expected non-mapping section to fail")
	}
}
