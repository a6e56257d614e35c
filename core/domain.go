package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TypeDescriptionRequestMessage  = "ids:DescriptionRequestMessage"
	TypeDescriptionResponseMessage = "ids:DescriptionResponseMessage"
	TypeRejectionMessage           = "ids:RejectionMessage"

	typeNamespaceURI = "https://w3id.org/idsa/core/"
	typeNamespaceTag = "ids:"
)

// IncomingRequest is the decoded header of one inbound protocol message.
// An empty RequestedElement targets the connector itself.
type IncomingRequest struct {
	ID               string
	TypeTag          string
	IssuerConnector  string
	ModelVersion     string
	RequestedElement string
	SecurityToken    string
	Issued           time.Time
}

func (r IncomingRequest) TargetsElement() bool {
	return strings.TrimSpace(r.RequestedElement) != ""
}

// Connector is the read-only identity of the local endpoint. Values handed
// to handlers are snapshots; see ConnectorConfiguration.
type Connector struct {
	ID                   string
	Title                string
	Description          string
	Curator              string
	Maintainer           string
	OutboundModelVersion string
	InboundModelVersions []string
	ResourceBaseURI      string
}

func (c Connector) Clone() Connector {
	cloned := c
	cloned.InboundModelVersions = append([]string(nil), c.InboundModelVersions...)
	return cloned
}

// ResourceURI returns the public identifier for a resource, falling back to
// a URN when no base URI is configured.
func (c Connector) ResourceURI(id uuid.UUID) string {
	base := strings.TrimRight(strings.TrimSpace(c.ResourceBaseURI), "/")
	if base == "" {
		return id.URN()
	}
	return base + "/" + id.String()
}

type Representation struct {
	ID        uuid.UUID
	MediaType string
	Language  string
	Standard  string
}

type Resource struct {
	ID              uuid.UUID
	Title           string
	Description     string
	Keywords        []string
	Publisher       string
	Language        string
	License         string
	Version         int
	Representations []Representation
	CreatedAt       time.Time
	ModifiedAt      time.Time
}

func (r Resource) Clone() Resource {
	cloned := r
	cloned.Keywords = append([]string(nil), r.Keywords...)
	cloned.Representations = append([]Representation(nil), r.Representations...)
	return cloned
}

// Catalog lists offered resources. Each resource appears exactly once.
type Catalog struct {
	ID               uuid.UUID
	OfferedResources []Resource
}

// SelfDescription is a request-scoped view of the connector and its catalogs.
// It never aliases the shared connector configuration.
type SelfDescription struct {
	Connector Connector
	Catalogs  []Catalog
}

// Document is a serialized wire payload.
type Document struct {
	MediaType string
	Body      []byte
}

type ResponseHeader struct {
	Type                string
	ID                  string
	IssuerConnector     string
	ModelVersion        string
	Issued              time.Time
	CorrelationMessage  string
	RecipientConnectors []string
	RejectionReason     RejectionReason
}

// Response is implemented by *BodyResponse and *ErrorResponse only.
type Response interface {
	ResponseHeader() ResponseHeader
	isResponse()
}

type BodyResponse struct {
	Header  ResponseHeader
	Payload Document
}

func (r *BodyResponse) ResponseHeader() ResponseHeader { return r.Header }

func (*BodyResponse) isResponse() {}

type ErrorResponse struct {
	Header  ResponseHeader
	Reason  RejectionReason
	Message string
}

func (r *ErrorResponse) ResponseHeader() ResponseHeader { return r.Header }

func (*ErrorResponse) isResponse() {}

// NormalizeTypeTag trims the tag and folds the full vocabulary URI into the
// compact "ids:" prefix form.
func NormalizeTypeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if rest, ok := strings.CutPrefix(tag, typeNamespaceURI); ok {
		return typeNamespaceTag + rest
	}
	return tag
}
