package query

import (
	"github.com/goliatone/go-connector/core"
)

const TypeDescriptionRequest = "connector.query.description"

// DescriptionRequestMessage carries a decoded description request through
// a go-command dispatcher.
type DescriptionRequestMessage struct {
	Request *core.IncomingRequest
	Payload []byte
}

func (DescriptionRequestMessage) Type() string { return TypeDescriptionRequest }

func (m DescriptionRequestMessage) Validate() error {
	if m.Request == nil {
		return queryValidationError("request", "description request is required")
	}
	return nil
}
