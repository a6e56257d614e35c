package wire

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/goliatone/go-connector/core"
)

var defaultContext = map[string]string{
	"ids":  "https://w3id.org/idsa/core/",
	"idsc": "https://w3id.org/idsa/code/",
	"xsd":  "http://www.w3.org/2001/XMLSchema#",
}

type securityTokenDocument struct {
	Type       string `json:"@type,omitempty"`
	TokenValue string `json:"ids:tokenValue,omitempty"`
}

type messageHeaderDocument struct {
	Context          any                    `json:"@context,omitempty"`
	Type             string                 `json:"@type"`
	ID               string                 `json:"@id"`
	IssuerConnector  Reference              `json:"ids:issuerConnector"`
	ModelVersion     string                 `json:"ids:modelVersion"`
	RequestedElement Reference              `json:"ids:requestedElement,omitempty"`
	SecurityToken    *securityTokenDocument `json:"ids:securityToken,omitempty"`
	Issued           json.RawMessage        `json:"ids:issued,omitempty"`
}

// DecodeHeader parses an inbound JSON-LD message header. A document that
// cannot be parsed fails with ErrMalformedHeader; one without "@type"
// fails with ErrMissingType. The issued date is read after the type, so a
// bad date fails with ErrInvalidIssued.
func DecodeHeader(data []byte) (*core.IncomingRequest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, malformedHeader(nil)
	}
	var document messageHeaderDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, malformedHeader(err)
	}
	typeTag := core.NormalizeTypeTag(document.Type)
	if typeTag == "" {
		return nil, missingType()
	}

	req := &core.IncomingRequest{
		ID:               strings.TrimSpace(document.ID),
		TypeTag:          typeTag,
		IssuerConnector:  string(document.IssuerConnector),
		ModelVersion:     strings.TrimSpace(document.ModelVersion),
		RequestedElement: string(document.RequestedElement),
	}
	if document.SecurityToken != nil {
		req.SecurityToken = strings.TrimSpace(document.SecurityToken.TokenValue)
	}
	issued, err := decodeIssued(document.Issued)
	if err != nil {
		return nil, err
	}
	req.Issued = issued
	return req, nil
}

func decodeIssued(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 {
		return time.Time{}, nil
	}
	var literal flexibleLiteral
	if err := literal.UnmarshalJSON(raw); err != nil {
		return time.Time{}, invalidIssued(err)
	}
	if literal == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, string(literal))
	if err != nil {
		return time.Time{}, invalidIssued(err)
	}
	return parsed.UTC(), nil
}

type responseHeaderDocument struct {
	Context             map[string]string `json:"@context"`
	Type                string            `json:"@type"`
	ID                  string            `json:"@id"`
	IssuerConnector     Reference         `json:"ids:issuerConnector,omitempty"`
	ModelVersion        string            `json:"ids:modelVersion,omitempty"`
	Issued              *TypedLiteral     `json:"ids:issued,omitempty"`
	CorrelationMessage  Reference         `json:"ids:correlationMessage,omitempty"`
	RecipientConnectors []Reference       `json:"ids:recipientConnector,omitempty"`
	RejectionReason     Reference         `json:"ids:rejectionReason,omitempty"`
}

// EncodeResponseHeader renders a response header as JSON-LD. Rejection
// reasons are written in their vocabulary URI form.
func EncodeResponseHeader(header core.ResponseHeader) ([]byte, error) {
	document := responseHeaderDocument{
		Context:            defaultContext,
		Type:               header.Type,
		ID:                 header.ID,
		IssuerConnector:    Reference(header.IssuerConnector),
		ModelVersion:       header.ModelVersion,
		Issued:             timestampLiteral(header.Issued),
		CorrelationMessage: Reference(header.CorrelationMessage),
	}
	for _, recipient := range header.RecipientConnectors {
		if strings.TrimSpace(recipient) != "" {
			document.RecipientConnectors = append(document.RecipientConnectors, Reference(recipient))
		}
	}
	if header.RejectionReason != "" {
		document.RejectionReason = Reference(header.RejectionReason.URI())
	}
	body, err := json.Marshal(document)
	if err != nil {
		return nil, encodeFailed("response header", err)
	}
	return body, nil
}

// EncodedResponse is a response split into its header part and payload
// part, ready for a transport.
type EncodedResponse struct {
	Header           []byte
	Payload          []byte
	PayloadMediaType string
}

// EncodeResponse renders resp for the wire. A rejection carries its
// explanation as a plain-text payload.
func EncodeResponse(resp core.Response) (EncodedResponse, error) {
	if resp == nil {
		return EncodedResponse{}, core.ContractViolation("wire: response is nil")
	}
	header, err := EncodeResponseHeader(resp.ResponseHeader())
	if err != nil {
		return EncodedResponse{}, err
	}
	switch typed := resp.(type) {
	case *core.BodyResponse:
		return EncodedResponse{
			Header:           header,
			Payload:          append([]byte(nil), typed.Payload.Body...),
			PayloadMediaType: typed.Payload.MediaType,
		}, nil
	case *core.ErrorResponse:
		return EncodedResponse{
			Header:           header,
			Payload:          []byte(typed.Message),
			PayloadMediaType: "text/plain; charset=utf-8",
		}, nil
	default:
		return EncodedResponse{}, core.ContractViolation("wire: unknown response variant")
	}
}

type requestHeaderDocument struct {
	Context          map[string]string      `json:"@context"`
	Type             string                 `json:"@type"`
	ID               string                 `json:"@id"`
	IssuerConnector  Reference              `json:"ids:issuerConnector"`
	ModelVersion     string                 `json:"ids:modelVersion"`
	Issued           *TypedLiteral          `json:"ids:issued,omitempty"`
	RequestedElement Reference              `json:"ids:requestedElement,omitempty"`
	SecurityToken    *securityTokenDocument `json:"ids:securityToken,omitempty"`
}

// EncodeRequestHeader renders an outbound request header in the form
// DecodeHeader reads.
func EncodeRequestHeader(req core.IncomingRequest) ([]byte, error) {
	typeTag := core.NormalizeTypeTag(req.TypeTag)
	if typeTag == "" {
		return nil, missingType()
	}
	document := requestHeaderDocument{
		Context:          defaultContext,
		Type:             typeTag,
		ID:               strings.TrimSpace(req.ID),
		IssuerConnector:  Reference(strings.TrimSpace(req.IssuerConnector)),
		ModelVersion:     strings.TrimSpace(req.ModelVersion),
		Issued:           timestampLiteral(req.Issued),
		RequestedElement: Reference(strings.TrimSpace(req.RequestedElement)),
	}
	if token := strings.TrimSpace(req.SecurityToken); token != "" {
		document.SecurityToken = &securityTokenDocument{Type: "ids:DynamicAttributeToken", TokenValue: token}
	}
	body, err := json.Marshal(document)
	if err != nil {
		return nil, encodeFailed("request header", err)
	}
	return body, nil
}

type inboundResponseHeaderDocument struct {
	Type                string          `json:"@type"`
	ID                  string          `json:"@id"`
	IssuerConnector     Reference       `json:"ids:issuerConnector"`
	ModelVersion        string          `json:"ids:modelVersion"`
	Issued              flexibleLiteral `json:"ids:issued"`
	CorrelationMessage  Reference       `json:"ids:correlationMessage"`
	RecipientConnectors []Reference     `json:"ids:recipientConnector"`
	RejectionReason     Reference       `json:"ids:rejectionReason"`
}

// DecodeResponseHeader parses a peer's response header. An unknown
// rejection reason is reported as a malformed header.
func DecodeResponseHeader(data []byte) (core.ResponseHeader, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return core.ResponseHeader{}, malformedHeader(nil)
	}
	var document inboundResponseHeaderDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return core.ResponseHeader{}, malformedHeader(err)
	}
	typeTag := core.NormalizeTypeTag(document.Type)
	if typeTag == "" {
		return core.ResponseHeader{}, missingType()
	}
	header := core.ResponseHeader{
		Type:               typeTag,
		ID:                 strings.TrimSpace(document.ID),
		IssuerConnector:    string(document.IssuerConnector),
		ModelVersion:       strings.TrimSpace(document.ModelVersion),
		CorrelationMessage: string(document.CorrelationMessage),
	}
	for _, recipient := range document.RecipientConnectors {
		if value := string(recipient); value != "" {
			header.RecipientConnectors = append(header.RecipientConnectors, value)
		}
	}
	if raw := string(document.RejectionReason); raw != "" {
		reason, ok := core.ParseRejectionReason(raw)
		if !ok {
			return core.ResponseHeader{}, malformedHeader(nil)
		}
		header.RejectionReason = reason
	}
	if issued := string(document.Issued); issued != "" {
		parsed, err := time.Parse(time.RFC3339Nano, issued)
		if err != nil {
			return core.ResponseHeader{}, malformedHeader(err)
		}
		header.Issued = parsed.UTC()
	}
	return header, nil
}
