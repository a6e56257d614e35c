package connector

import (
	"github.com/goliatone/go-connector/core"
)

type Config = core.Config

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type Resource = core.Resource

type IncomingRequest = core.IncomingRequest

type Response = core.Response

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// Setup builds the connector service and wires the description handler,
// the inbound dispatcher and the multipart HTTP endpoint.
func Setup(cfg Config, opts ...Option) (*Facade, error) {
	return NewFacade(cfg, opts...)
}
