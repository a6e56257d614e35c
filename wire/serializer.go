package wire

import (
	"encoding/json"
	"net/http"

	"github.com/fxamacker/cbor/v2"
	"github.com/goliatone/go-connector/core"
	goerrors "github.com/goliatone/go-errors"
)

// JSONLDSerializer renders documents as compact JSON-LD.
type JSONLDSerializer struct {
	// Indent pretty-prints output when non-empty.
	Indent string
}

func NewJSONLDSerializer() *JSONLDSerializer {
	return &JSONLDSerializer{}
}

func (s *JSONLDSerializer) MediaType() string { return core.MediaTypeJSONLD }

func (s *JSONLDSerializer) SerializeResource(connector core.Connector, resource core.Resource) (core.Document, error) {
	document := buildResourceDocument(connector, resource)
	document.Context = defaultContext
	return s.marshal("resource", document)
}

func (s *JSONLDSerializer) SerializeSelfDescription(description core.SelfDescription) (core.Document, error) {
	return s.marshal("self-description", buildConnectorDocument(description))
}

func (s *JSONLDSerializer) marshal(kind string, value any) (core.Document, error) {
	var (
		body []byte
		err  error
	)
	if s != nil && s.Indent != "" {
		body, err = json.MarshalIndent(value, "", s.Indent)
	} else {
		body, err = json.Marshal(value)
	}
	if err != nil {
		return core.Document{}, encodeFailed(kind, err)
	}
	return core.Document{MediaType: core.MediaTypeJSONLD, Body: body}, nil
}

// CBORSerializer renders the same document model as deterministic CBOR
// (RFC 8949 core deterministic encoding): equal values always produce
// identical bytes. References are encoded as plain text strings.
type CBORSerializer struct {
	mode cbor.EncMode
}

func NewCBORSerializer() (*CBORSerializer, error) {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, wireWrapError(err, goerrors.CategoryInternal, "wire: cbor encoder initialization failed",
			http.StatusInternalServerError, WireErrorEncodeFailed, nil)
	}
	return &CBORSerializer{mode: mode}, nil
}

func (s *CBORSerializer) MediaType() string { return core.MediaTypeCBOR }

func (s *CBORSerializer) SerializeResource(connector core.Connector, resource core.Resource) (core.Document, error) {
	return s.marshal("resource", buildResourceDocument(connector, resource))
}

func (s *CBORSerializer) SerializeSelfDescription(description core.SelfDescription) (core.Document, error) {
	return s.marshal("self-description", buildConnectorDocument(description))
}

func (s *CBORSerializer) marshal(kind string, value any) (core.Document, error) {
	if s == nil || s.mode == nil {
		return core.Document{}, core.ContractViolation("wire: cbor serializer is not initialized")
	}
	body, err := s.mode.Marshal(value)
	if err != nil {
		return core.Document{}, encodeFailed(kind, err)
	}
	return core.Document{MediaType: core.MediaTypeCBOR, Body: body}, nil
}
