package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// Handler processes one decoded request. It returns a Response for every
// recoverable outcome; a non-nil error is either a construction failure
// (converted by the dispatcher) or a contract violation (propagated).
type Handler interface {
	Handle(ctx context.Context, req *IncomingRequest, payload []byte) (Response, error)
}

type HandlerFunc func(ctx context.Context, req *IncomingRequest, payload []byte) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, req *IncomingRequest, payload []byte) (Response, error) {
	return f(ctx, req, payload)
}

// ResourceResolver looks up locally offered resources. GetResource returns
// ok=false for an unknown resource and an error satisfying
// IsMalformedIdentifier when id cannot be parsed.
type ResourceResolver interface {
	GetResource(ctx context.Context, id string) (Resource, bool, error)
	GetAllOfferedResources(ctx context.Context) ([]Resource, error)
}

// ConnectorConfiguration hands out read-only connector snapshots.
type ConnectorConfiguration interface {
	Connector() Connector
}

// DocumentSerializer renders domain objects into wire documents.
type DocumentSerializer interface {
	MediaType() string
	SerializeResource(connector Connector, resource Resource) (Document, error)
	SerializeSelfDescription(description SelfDescription) (Document, error)
}

type Registry interface {
	Register(typeTag string, handler Handler) error
	Resolve(typeTag string) (Handler, bool)
	TypeTags() []string
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
