package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type ErrorMapper func(err error) *goerrors.Error

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

// ResolverProvider is implemented by store factories that can hand out a
// resource resolver.
type ResolverProvider interface {
	ResourceResolver() ResourceResolver
}

// SerializerResolver picks a document serializer for a media type.
type SerializerResolver interface {
	Resolve(mediaType string) (DocumentSerializer, error)
}

type serviceBuilder struct {
	runtimeConfig     Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorMapper       ErrorMapper
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	connectorConfig   ConnectorConfiguration
	resolver          ResourceResolver
	repositoryFactory any
	serializer        DocumentSerializer
	serializers       SerializerResolver
	registry          *HandlerRegistry
	assembler         *CatalogAssembler
	headerOptions     []HeaderOption
}

type Option func(*serviceBuilder)

func WithLogger(logger Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *serviceBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *serviceBuilder) {
		b.errorMapper = mapper
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *serviceBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *serviceBuilder) {
		b.optionsResolver = resolver
	}
}

// WithConnectorConfiguration replaces the static configuration derived from
// Config.Connector, for example with a source that reloads.
func WithConnectorConfiguration(config ConnectorConfiguration) Option {
	return func(b *serviceBuilder) {
		b.connectorConfig = config
	}
}

func WithResourceResolver(resolver ResourceResolver) Option {
	return func(b *serviceBuilder) {
		b.resolver = resolver
	}
}

func WithRepositoryFactory(factory any) Option {
	return func(b *serviceBuilder) {
		b.repositoryFactory = factory
	}
}

func WithDocumentSerializer(serializer DocumentSerializer) Option {
	return func(b *serviceBuilder) {
		b.serializer = serializer
	}
}

// WithSerializerResolver selects the serializer for the resolved
// serialization.media_type when no serializer is set directly.
func WithSerializerResolver(resolver SerializerResolver) Option {
	return func(b *serviceBuilder) {
		b.serializers = resolver
	}
}

func WithHandlerRegistry(registry *HandlerRegistry) Option {
	return func(b *serviceBuilder) {
		b.registry = registry
	}
}

func WithCatalogAssembler(assembler *CatalogAssembler) Option {
	return func(b *serviceBuilder) {
		b.assembler = assembler
	}
}

func WithHeaderOptions(options ...HeaderOption) Option {
	return func(b *serviceBuilder) {
		b.headerOptions = append(b.headerOptions, options...)
	}
}

func defaultServiceBuilder(runtime Config) serviceBuilder {
	loggerProvider, logger := glog.Resolve("connector", nil, nil)
	return serviceBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: NopMetricsRecorder{},
		errorMapper:     defaultErrorMapper,
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
		registry:        NewHandlerRegistry(),
		assembler:       NewCatalogAssembler(),
	}
}

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "core: invalid connector configuration").
		WithCode(connectorHTTPStatus(goerrors.CategoryBadInput)).
		WithTextCode(ConnectorErrorBadInput)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

// Load builds a typed Config from the loader's raw values on top of
// defaults. Validation is deferred to the options resolver, which sees the
// runtime layer as well.
func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw, cfgx.WithDefaults(defaults))
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.ServiceName) != "" {
		layer["service_name"] = cfg.ServiceName
	}

	connector := map[string]any{}
	setString := func(key string, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			connector[key] = value
		}
	}
	setString("id", cfg.Connector.ID)
	setString("title", cfg.Connector.Title)
	setString("description", cfg.Connector.Description)
	setString("curator", cfg.Connector.Curator)
	setString("maintainer", cfg.Connector.Maintainer)
	setString("outbound_model_version", cfg.Connector.OutboundModelVersion)
	setString("resource_base_uri", cfg.Connector.ResourceBaseURI)
	if includeZero || len(cfg.Connector.InboundModelVersions) > 0 {
		connector["inbound_model_versions"] = append([]string(nil), cfg.Connector.InboundModelVersions...)
	}
	if len(connector) > 0 {
		layer["connector"] = connector
	}

	if includeZero || strings.TrimSpace(cfg.Serialization.MediaType) != "" {
		layer["serialization"] = map[string]any{
			"media_type": cfg.Serialization.MediaType,
		}
	}

	cache := map[string]any{}
	if includeZero || cfg.Cache.Enabled {
		cache["enabled"] = cfg.Cache.Enabled
	}
	if includeZero || cfg.Cache.TTLSeconds > 0 {
		cache["ttl_seconds"] = cfg.Cache.TTLSeconds
	}
	if len(cache) > 0 {
		layer["cache"] = cache
	}
	return layer
}
