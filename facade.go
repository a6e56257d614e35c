package connector

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-connector/core"
	"github.com/goliatone/go-connector/inbound"
	"github.com/goliatone/go-connector/query"
	"github.com/goliatone/go-connector/transport"
	"github.com/goliatone/go-connector/wire"
)

type Option func(*facadeOptions)

type handlerBinding struct {
	typeTag string
	handler core.Handler
}

type facadeOptions struct {
	service     []core.Option
	serializers *wire.Registry
	verifier    inbound.Verifier
	transport   []transport.MultipartOption
	handlers    []handlerBinding
}

// WithServiceOptions forwards options to core.NewService.
func WithServiceOptions(opts ...core.Option) Option {
	return func(o *facadeOptions) {
		o.service = append(o.service, opts...)
	}
}

func WithLogger(logger core.Logger) Option {
	return WithServiceOptions(core.WithLogger(logger))
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return WithServiceOptions(core.WithLoggerProvider(provider))
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return WithServiceOptions(core.WithMetricsRecorder(recorder))
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return WithServiceOptions(core.WithConfigProvider(provider))
}

func WithResourceResolver(resolver core.ResourceResolver) Option {
	return WithServiceOptions(core.WithResourceResolver(resolver))
}

// WithRepositoryFactory takes any factory exposing ResourceResolver(), such
// as the sqlstore repository factory.
func WithRepositoryFactory(factory any) Option {
	return WithServiceOptions(core.WithRepositoryFactory(factory))
}

// WithSerializerRegistry replaces the default JSON-LD/CBOR registry used to
// pick the serializer for serialization.media_type.
func WithSerializerRegistry(registry *wire.Registry) Option {
	return func(o *facadeOptions) {
		o.serializers = registry
	}
}

func WithVerifier(verifier inbound.Verifier) Option {
	return func(o *facadeOptions) {
		o.verifier = verifier
	}
}

func WithMaxRequestBytes(limit int64) Option {
	return func(o *facadeOptions) {
		o.transport = append(o.transport, transport.WithMaxRequestBytes(limit))
	}
}

// WithHandler registers an extra message handler next to the description
// handler.
func WithHandler(typeTag string, handler core.Handler) Option {
	return func(o *facadeOptions) {
		o.handlers = append(o.handlers, handlerBinding{typeTag: typeTag, handler: handler})
	}
}

type Facade struct {
	service     *core.Service
	description *query.DescriptionQuery
	dispatcher  *inbound.Dispatcher
	handler     *transport.MultipartHandler
}

func NewFacade(cfg Config, opts ...Option) (*Facade, error) {
	options := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&options)
	}

	serializers := options.serializers
	if serializers == nil {
		defaults, err := wire.NewDefaultRegistry()
		if err != nil {
			return nil, err
		}
		serializers = defaults
	}
	serviceOpts := append([]core.Option{core.WithSerializerResolver(serializers)}, options.service...)
	svc, err := core.NewService(cfg, serviceOpts...)
	if err != nil {
		return nil, err
	}

	description, err := query.NewDescriptionQueryFromService(svc)
	if err != nil {
		return nil, err
	}
	registry := svc.Registry()
	if err := registry.Register(core.TypeDescriptionRequestMessage, description); err != nil {
		return nil, err
	}
	for _, binding := range options.handlers {
		if strings.TrimSpace(binding.typeTag) == "" || binding.handler == nil {
			return nil, fmt.Errorf("connector: handler binding requires a type tag and a handler")
		}
		if err := registry.Register(binding.typeTag, binding.handler); err != nil {
			return nil, err
		}
	}

	dispatcherOpts := []inbound.Option{inbound.WithObserver(svc.Observer())}
	if options.verifier != nil {
		dispatcherOpts = append(dispatcherOpts, inbound.WithVerifier(options.verifier))
	}
	dispatcher, err := inbound.NewDispatcher(registry, svc.Headers(), dispatcherOpts...)
	if err != nil {
		return nil, err
	}

	transportOpts := append([]transport.MultipartOption{transport.WithObserver(svc.Observer())}, options.transport...)
	handler, err := transport.NewMultipartHandler(dispatcher, transportOpts...)
	if err != nil {
		return nil, err
	}

	return &Facade{
		service:     svc,
		description: description,
		dispatcher:  dispatcher,
		handler:     handler,
	}, nil
}

func (f *Facade) Service() *Service {
	if f == nil {
		return nil
	}
	return f.service
}

func (f *Facade) Description() *query.DescriptionQuery {
	if f == nil {
		return nil
	}
	return f.description
}

func (f *Facade) Dispatcher() *inbound.Dispatcher {
	if f == nil {
		return nil
	}
	return f.dispatcher
}

// Handler serves the multipart protocol endpoint.
func (f *Facade) Handler() http.Handler {
	if f == nil || f.handler == nil {
		return http.NotFoundHandler()
	}
	return f.handler
}

// Describe routes an already decoded request through the dispatcher.
func (f *Facade) Describe(ctx context.Context, req *IncomingRequest) (Response, error) {
	if f == nil || f.dispatcher == nil {
		return nil, core.ContractViolation("connector: facade is not configured")
	}
	if req != nil && strings.TrimSpace(req.TypeTag) == "" {
		cloned := *req
		cloned.TypeTag = core.TypeDescriptionRequestMessage
		req = &cloned
	}
	return f.dispatcher.DispatchRequest(ctx, req, nil)
}
