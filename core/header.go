package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// HeaderService builds response headers from the current connector
// snapshot. It holds no mutable state of its own.
type HeaderService struct {
	config ConnectorConfiguration
	now    func() time.Time
	newID  func() string
}

type HeaderOption func(*HeaderService)

func WithHeaderClock(now func() time.Time) HeaderOption {
	return func(s *HeaderService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithHeaderIDGenerator(newID func() string) HeaderOption {
	return func(s *HeaderService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewHeaderService(config ConnectorConfiguration, opts ...HeaderOption) *HeaderService {
	service := &HeaderService{
		config: config,
		now: func() time.Time {
			return time.Now().UTC()
		},
		newID: newMessageID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}
	return service
}

func (s *HeaderService) Connector() Connector {
	if s == nil || s.config == nil {
		return Connector{}
	}
	return s.config.Connector()
}

// IsVersionSupported checks version against a fresh snapshot. Handlers that
// build a response should take one snapshot and use SupportsVersion.
func (s *HeaderService) IsVersionSupported(version string) bool {
	return SupportsVersion(s.Connector(), version)
}

// SupportsVersion reports whether version exactly matches one of the
// connector's inbound model versions, ignoring surrounding whitespace.
func SupportsVersion(connector Connector, version string) bool {
	version = strings.TrimSpace(version)
	if version == "" {
		return false
	}
	for _, supported := range connector.InboundModelVersions {
		if strings.TrimSpace(supported) == version {
			return true
		}
	}
	return false
}

// BuildSuccessHeader builds a success header from a fresh snapshot.
func (s *HeaderService) BuildSuccessHeader(issuerConnectorID string, correlationID string) (ResponseHeader, error) {
	return s.BuildSuccessHeaderFor(s.Connector(), issuerConnectorID, correlationID)
}

// BuildSuccessHeaderFor correlates a description response to the request
// that triggered it, stamped with the given connector snapshot. Missing
// required fields are reported as a construction failure.
func (s *HeaderService) BuildSuccessHeaderFor(connector Connector, issuerConnectorID string, correlationID string) (ResponseHeader, error) {
	if s == nil {
		return ResponseHeader{}, ContractViolation("core: header service is nil")
	}
	issuerConnectorID = strings.TrimSpace(issuerConnectorID)
	correlationID = strings.TrimSpace(correlationID)

	missing := make([]string, 0, 4)
	if strings.TrimSpace(connector.ID) == "" {
		missing = append(missing, "connector id")
	}
	if strings.TrimSpace(connector.OutboundModelVersion) == "" {
		missing = append(missing, "outbound model version")
	}
	if issuerConnectorID == "" {
		missing = append(missing, "recipient connector")
	}
	if correlationID == "" {
		missing = append(missing, "correlation message")
	}
	if len(missing) > 0 {
		return ResponseHeader{}, ConstructionFailure(
			"core: response header is missing "+strings.Join(missing, ", "),
			nil,
		).WithMetadata(map[string]any{"missing": missing})
	}

	return ResponseHeader{
		Type:                TypeDescriptionResponseMessage,
		ID:                  s.newID(),
		IssuerConnector:     connector.ID,
		ModelVersion:        connector.OutboundModelVersion,
		Issued:              s.now(),
		CorrelationMessage:  correlationID,
		RecipientConnectors: []string{issuerConnectorID},
	}, nil
}

// BuildRejectionHeader stamps a rejection with the local identity and the
// reason code.
func (s *HeaderService) BuildRejectionHeader(reason RejectionReason, connectorID string, outboundVersion string) ResponseHeader {
	header := DefaultRejectionHeader(reason)
	if s != nil {
		header.ID = s.newID()
		header.Issued = s.now()
	}
	header.IssuerConnector = strings.TrimSpace(connectorID)
	header.ModelVersion = strings.TrimSpace(outboundVersion)
	return header
}

// Reject builds a rejection for req using the current connector snapshot.
func (s *HeaderService) Reject(req *IncomingRequest, reason RejectionReason, message string) *ErrorResponse {
	return s.RejectFor(s.Connector(), req, reason, message)
}

// RejectFor builds a rejection for req stamped with connector.
func (s *HeaderService) RejectFor(connector Connector, req *IncomingRequest, reason RejectionReason, message string) *ErrorResponse {
	header := s.BuildRejectionHeader(reason, connector.ID, connector.OutboundModelVersion)
	return NewRejection(Correlate(header, req), reason, message)
}

// DefaultRejectionHeader is used when no connector context is available, for
// example when the request type cannot be determined at all.
func DefaultRejectionHeader(reason RejectionReason) ResponseHeader {
	return ResponseHeader{
		Type:            TypeRejectionMessage,
		ID:              newMessageID(),
		Issued:          time.Now().UTC(),
		RejectionReason: reason,
	}
}

// Correlate links header to the request it answers.
func Correlate(header ResponseHeader, req *IncomingRequest) ResponseHeader {
	if req == nil {
		return header
	}
	if id := strings.TrimSpace(req.ID); id != "" {
		header.CorrelationMessage = id
	}
	if issuer := strings.TrimSpace(req.IssuerConnector); issuer != "" {
		header.RecipientConnectors = []string{issuer}
	}
	return header
}

func newMessageID() string {
	return "urn:uuid:" + uuid.NewString()
}
