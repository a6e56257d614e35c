package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-connector/core"
)

// DescriptionQuery answers description requests: either one offered
// resource, when the request names an element, or the connector's
// self-description with its catalog.
type DescriptionQuery struct {
	headers    *core.HeaderService
	assembler  *core.CatalogAssembler
	resolver   core.ResourceResolver
	serializer core.DocumentSerializer
	observer   *core.Observer
}

type DescriptionDependencies struct {
	Headers    *core.HeaderService
	Assembler  *core.CatalogAssembler
	Resolver   core.ResourceResolver
	Serializer core.DocumentSerializer
	Observer   *core.Observer
}

func NewDescriptionQuery(deps DescriptionDependencies) (*DescriptionQuery, error) {
	if deps.Headers == nil {
		return nil, queryDependencyError("query: header service is required")
	}
	if deps.Resolver == nil {
		return nil, queryDependencyError("query: resource resolver is required")
	}
	if deps.Serializer == nil {
		return nil, queryDependencyError("query: document serializer is required")
	}
	if deps.Assembler == nil {
		deps.Assembler = core.NewCatalogAssembler()
	}
	return &DescriptionQuery{
		headers:    deps.Headers,
		assembler:  deps.Assembler,
		resolver:   deps.Resolver,
		serializer: deps.Serializer,
		observer:   deps.Observer,
	}, nil
}

// NewDescriptionQueryFromService wires the query from a core service bundle.
func NewDescriptionQueryFromService(svc *core.Service) (*DescriptionQuery, error) {
	if svc == nil {
		return nil, queryDependencyError("query: service is required")
	}
	return NewDescriptionQuery(DescriptionDependencies{
		Headers:    svc.Headers(),
		Assembler:  svc.Assembler(),
		Resolver:   svc.Resolver(),
		Serializer: svc.Serializer(),
		Observer:   svc.Observer(),
	})
}

// Query runs the description flow for a go-command dispatch.
func (q *DescriptionQuery) Query(ctx context.Context, msg DescriptionRequestMessage) (core.Response, error) {
	return q.Handle(ctx, msg.Request, msg.Payload)
}

// Handle produces exactly one response per request. The model version is
// checked before any resource work; the payload is not interpreted.
func (q *DescriptionQuery) Handle(ctx context.Context, req *core.IncomingRequest, _ []byte) (resp core.Response, err error) {
	if q == nil || q.headers == nil || q.resolver == nil || q.serializer == nil {
		return nil, core.ContractViolation("query: description query is not configured")
	}
	if req == nil {
		return nil, core.ContractViolation("query: description request is nil")
	}

	startedAt := time.Now().UTC()
	fields := map[string]any{
		"type_tag":      core.NormalizeTypeTag(req.TypeTag),
		"message_id":    req.ID,
		"model_version": req.ModelVersion,
	}
	if req.TargetsElement() {
		fields["requested_element"] = strings.TrimSpace(req.RequestedElement)
	}
	defer func() {
		q.observer.ObserveResponse(ctx, startedAt, "describe", resp, err, fields)
	}()

	// One snapshot per request: a reload mid-flight must not mix identities.
	connector := q.headers.Connector()
	if !core.SupportsVersion(connector, req.ModelVersion) {
		return q.headers.RejectFor(connector, req, core.RejectionVersionNotSupported, core.MessageVersionNotSupported), nil
	}
	if req.TargetsElement() {
		return q.describeResource(ctx, connector, req, fields)
	}
	return q.describeConnector(ctx, connector, req, fields)
}

func (q *DescriptionQuery) describeResource(ctx context.Context, connector core.Connector, req *core.IncomingRequest, fields map[string]any) (core.Response, error) {
	requested := strings.TrimSpace(req.RequestedElement)
	resource, found, err := q.resolver.GetResource(ctx, requested)
	if err != nil {
		switch {
		case core.IsMalformedIdentifier(err):
			return q.headers.RejectFor(connector, req, core.RejectionBadParameters, core.MessageNoValidResourceID), nil
		case core.IsContractViolation(err):
			return nil, err
		default:
			return q.constructionFailed(ctx, connector, req, fields, "query: resource lookup failed", err), nil
		}
	}
	if !found {
		return q.headers.RejectFor(connector, req, core.RejectionNotFound, fmt.Sprintf("The resource %s could not be found.", requested)), nil
	}

	document, err := q.serializer.SerializeResource(connector, resource)
	if err != nil {
		return q.constructionFailed(ctx, connector, req, fields, "query: resource serialization failed", err), nil
	}
	return q.respond(ctx, connector, req, fields, document)
}

func (q *DescriptionQuery) describeConnector(ctx context.Context, connector core.Connector, req *core.IncomingRequest, fields map[string]any) (core.Response, error) {
	resources, err := q.resolver.GetAllOfferedResources(ctx)
	if err != nil {
		if core.IsContractViolation(err) {
			return nil, err
		}
		return q.constructionFailed(ctx, connector, req, fields, "query: listing offered resources failed", err), nil
	}
	description := q.assembler.BuildSelfDescription(connector, resources)
	fields["offered_resources"] = len(description.Catalogs[0].OfferedResources)

	document, err := q.serializer.SerializeSelfDescription(description)
	if err != nil {
		return q.constructionFailed(ctx, connector, req, fields, "query: self-description serialization failed", err), nil
	}
	return q.respond(ctx, connector, req, fields, document)
}

func (q *DescriptionQuery) respond(ctx context.Context, connector core.Connector, req *core.IncomingRequest, fields map[string]any, document core.Document) (core.Response, error) {
	header, err := q.headers.BuildSuccessHeaderFor(connector, req.IssuerConnector, req.ID)
	if err != nil {
		return q.constructionFailed(ctx, connector, req, fields, "query: response header construction failed", err), nil
	}
	return &core.BodyResponse{Header: header, Payload: document}, nil
}

func (q *DescriptionQuery) constructionFailed(
	ctx context.Context,
	connector core.Connector,
	req *core.IncomingRequest,
	fields map[string]any,
	message string,
	cause error,
) core.Response {
	failure := core.ConstructionFailure(message, cause)
	logFields := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		logFields[key] = value
	}
	logFields["error"] = failure.Error()
	q.observer.Log(ctx, "error", message, logFields)
	return q.headers.RejectFor(connector, req, core.RejectionInternalRecipientError, core.MessageResponseNotConstructed)
}
