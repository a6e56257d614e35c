package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// Service bundles the collaborators every message handler needs: resolved
// configuration, header construction, catalog assembly, resource lookup,
// serialization and the handler registry.
type Service struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	observer        *Observer
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	connectorConfig ConnectorConfiguration
	headers         *HeaderService
	assembler       *CatalogAssembler
	resolver        ResourceResolver
	serializer      DocumentSerializer
	registry        *HandlerRegistry
}

type ServiceDependencies struct {
	Logger                 Logger
	LoggerProvider         LoggerProvider
	MetricsRecorder        MetricsRecorder
	Observer               *Observer
	ErrorMapper            ErrorMapper
	ConfigProvider         ConfigProvider
	OptionsResolver        OptionsResolver
	ConnectorConfiguration ConnectorConfiguration
	Headers                *HeaderService
	Assembler              *CatalogAssembler
	Resolver               ResourceResolver
	Serializer             DocumentSerializer
	Registry               *HandlerRegistry
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("connector", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("connector"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.registry == nil {
		builder.registry = NewHandlerRegistry()
	}
	if builder.assembler == nil {
		builder.assembler = NewCatalogAssembler()
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.resolver == nil && builder.repositoryFactory != nil {
		if resolverProvider, ok := builder.repositoryFactory.(ResolverProvider); ok {
			builder.resolver = resolverProvider.ResourceResolver()
		}
	}
	if builder.resolver == nil {
		builder.resolver = NewMemoryResourceResolver()
	}
	if builder.serializer == nil && builder.serializers != nil {
		serializer, err := builder.serializers.Resolve(finalConfig.Serialization.MediaType)
		if err != nil {
			return nil, mapBuildError(builder.errorMapper, err)
		}
		builder.serializer = serializer
	}
	if builder.serializer == nil {
		return nil, mapBuildError(builder.errorMapper, badInputError(
			"core: document serializer is required",
			map[string]any{"media_type": finalConfig.Serialization.MediaType},
		))
	}
	if builder.connectorConfig == nil {
		builder.connectorConfig = NewStaticConnectorConfiguration(finalConfig.Connector.ToConnector())
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		observer:        NewObserver(logger, builder.metricsRecorder),
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		connectorConfig: builder.connectorConfig,
		headers:         NewHeaderService(builder.connectorConfig, builder.headerOptions...),
		assembler:       builder.assembler,
		resolver:        builder.resolver,
		serializer:      builder.serializer,
		registry:        builder.registry,
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:                 s.logger,
		LoggerProvider:         s.loggerProvider,
		MetricsRecorder:        s.metricsRecorder,
		Observer:               s.observer,
		ErrorMapper:            s.errorMapper,
		ConfigProvider:         s.configProvider,
		OptionsResolver:        s.optionsResolver,
		ConnectorConfiguration: s.connectorConfig,
		Headers:                s.headers,
		Assembler:              s.assembler,
		Resolver:               s.resolver,
		Serializer:             s.serializer,
		Registry:               s.registry,
	}
}

func (s *Service) Logger() Logger {
	if s == nil {
		return glog.Nop()
	}
	return s.logger
}

func (s *Service) Observer() *Observer {
	if s == nil {
		return nil
	}
	return s.observer
}

func (s *Service) Headers() *HeaderService {
	if s == nil {
		return nil
	}
	return s.headers
}

func (s *Service) Assembler() *CatalogAssembler {
	if s == nil {
		return nil
	}
	return s.assembler
}

func (s *Service) Resolver() ResourceResolver {
	if s == nil {
		return nil
	}
	return s.resolver
}

func (s *Service) Serializer() DocumentSerializer {
	if s == nil {
		return nil
	}
	return s.serializer
}

func (s *Service) Registry() *HandlerRegistry {
	if s == nil {
		return nil
	}
	return s.registry
}

// Connector returns a snapshot of the local connector description.
func (s *Service) Connector() Connector {
	if s == nil || s.connectorConfig == nil {
		return Connector{}
	}
	return s.connectorConfig.Connector()
}
