package inbound

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-connector/core"
	"github.com/goliatone/go-connector/wire"
	goerrors "github.com/goliatone/go-errors"
)

// RawMessage is one inbound protocol message as received by a transport:
// an encoded header and an uninterpreted payload.
type RawMessage struct {
	Header  []byte
	Payload []byte
}

// Verifier checks the credentials carried by a decoded request. A failure
// is answered with a NOT_AUTHENTICATED rejection.
type Verifier interface {
	Verify(ctx context.Context, req *core.IncomingRequest) error
}

type VerifierFunc func(ctx context.Context, req *core.IncomingRequest) error

func (f VerifierFunc) Verify(ctx context.Context, req *core.IncomingRequest) error {
	return f(ctx, req)
}

type HeaderDecoder func(header []byte) (*core.IncomingRequest, error)

type Dispatcher struct {
	Verifier Verifier

	registry *core.HandlerRegistry
	headers  *core.HeaderService
	observer *core.Observer
	decode   HeaderDecoder
}

type Option func(*Dispatcher)

func WithVerifier(verifier Verifier) Option {
	return func(d *Dispatcher) {
		d.Verifier = verifier
	}
}

func WithObserver(observer *core.Observer) Option {
	return func(d *Dispatcher) {
		d.observer = observer
	}
}

func WithHeaderDecoder(decode HeaderDecoder) Option {
	return func(d *Dispatcher) {
		if decode != nil {
			d.decode = decode
		}
	}
}

// NewDispatcher seals registry: every handler must be registered before
// the dispatcher is built.
func NewDispatcher(registry *core.HandlerRegistry, headers *core.HeaderService, opts ...Option) (*Dispatcher, error) {
	if registry == nil {
		return nil, inboundBadInput("inbound: handler registry is required", nil)
	}
	if headers == nil {
		return nil, inboundBadInput("inbound: header service is required", nil)
	}
	dispatcher := &Dispatcher{
		registry: registry,
		headers:  headers,
		decode:   wire.DecodeHeader,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(dispatcher)
		}
	}
	registry.Seal()
	return dispatcher, nil
}

// Dispatch decodes msg and routes it to the registered handler. Every
// handler failure other than a contract violation yields an
// INTERNAL_RECIPIENT_ERROR rejection; the error return is reserved for
// contract violations.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *RawMessage) (resp core.Response, err error) {
	if d == nil {
		return nil, core.ContractViolation("inbound: dispatcher is nil")
	}
	if msg == nil {
		return nil, core.ContractViolation("inbound: raw message is nil")
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		d.observer.ObserveResponse(ctx, startedAt, "dispatch", resp, err, fields)
	}()

	req, decodeErr := d.decode(msg.Header)
	if decodeErr != nil {
		if core.IsContractViolation(decodeErr) {
			return nil, decodeErr
		}
		fields["decode_error"] = decodeErr.Error()
		reason := core.RejectionBadParameters
		message := core.MessageMissingTypeTag
		if wire.IsInvalidIssued(decodeErr) {
			message = core.MessageInvalidIssued
		}
		return core.NewRejection(core.DefaultRejectionHeader(reason), reason, message), nil
	}
	if req == nil {
		return nil, core.ContractViolation("inbound: header decoder returned no request")
	}
	fields["type_tag"] = req.TypeTag
	fields["message_id"] = req.ID
	return d.route(ctx, req, msg.Payload)
}

// DispatchRequest routes an already decoded request.
func (d *Dispatcher) DispatchRequest(ctx context.Context, req *core.IncomingRequest, payload []byte) (resp core.Response, err error) {
	if d == nil {
		return nil, core.ContractViolation("inbound: dispatcher is nil")
	}
	if req == nil {
		return nil, core.ContractViolation("inbound: request is nil")
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{"type_tag": req.TypeTag, "message_id": req.ID}
	defer func() {
		d.observer.ObserveResponse(ctx, startedAt, "dispatch", resp, err, fields)
	}()
	return d.route(ctx, req, payload)
}

func (d *Dispatcher) route(ctx context.Context, req *core.IncomingRequest, payload []byte) (core.Response, error) {
	typeTag := core.NormalizeTypeTag(req.TypeTag)
	if typeTag == "" {
		reason := core.RejectionBadParameters
		return core.NewRejection(core.Correlate(core.DefaultRejectionHeader(reason), req), reason, core.MessageMissingTypeTag), nil
	}
	handler, ok := d.registry.Resolve(typeTag)
	if !ok {
		return d.headers.Reject(req, core.RejectionMessageTypeNotSupported, core.MessageMessageTypeNotSupported), nil
	}

	if d.Verifier != nil {
		if verifyErr := d.Verifier.Verify(ctx, req); verifyErr != nil {
			if core.IsContractViolation(verifyErr) {
				return nil, verifyErr
			}
			d.observer.Log(ctx, "warn", "inbound request verification failed", map[string]any{
				"type_tag":   typeTag,
				"message_id": req.ID,
				"error":      verifyErr.Error(),
			})
			return d.headers.Reject(req, core.RejectionNotAuthenticated, "Request could not be authenticated."), nil
		}
	}

	resp, err := handler.Handle(ctx, req, payload)
	if err != nil {
		if core.IsContractViolation(err) {
			return nil, err
		}
		message := "inbound response construction failed"
		if !core.IsConstructionFailure(err) {
			message = "inbound handler failed"
			err = inboundWrapError(
				err,
				goerrors.CategoryInternal,
				"inbound: handler execution failed",
				http.StatusInternalServerError,
				core.ConnectorErrorInternal,
				map[string]any{"type_tag": typeTag, "message_id": strings.TrimSpace(req.ID)},
			)
		}
		d.observer.Log(ctx, "error", message, map[string]any{
			"type_tag":   typeTag,
			"message_id": req.ID,
			"error":      err.Error(),
		})
		return d.headers.Reject(req, core.RejectionInternalRecipientError, core.MessageResponseNotConstructed), nil
	}
	if resp == nil {
		return nil, core.ContractViolation("inbound: handler for " + typeTag + " returned no response")
	}
	return resp, nil
}

// TypeTags lists the message types this dispatcher routes.
func (d *Dispatcher) TypeTags() []string {
	if d == nil {
		return []string{}
	}
	return d.registry.TypeTags()
}
