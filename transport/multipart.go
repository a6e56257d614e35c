package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/goliatone/go-connector/core"
	"github.com/goliatone/go-connector/inbound"
	"github.com/goliatone/go-connector/wire"
	goerrors "github.com/goliatone/go-errors"
)

const (
	PartHeader  = "header"
	PartPayload = "payload"

	MessageMalformed          = "Message could not be parsed."
	MessageMethodNotSupported = "Only POST is supported."

	defaultMaxRequestBytes int64 = 10 << 20
)

// MessageDispatcher is satisfied by *inbound.Dispatcher.
type MessageDispatcher interface {
	Dispatch(ctx context.Context, msg *inbound.RawMessage) (core.Response, error)
}

// MultipartHandler serves protocol messages sent as multipart/form-data
// with a "header" part and an optional "payload" part. Responses use the
// same layout. A fatal dispatch error is answered with a bare 500.
type MultipartHandler struct {
	dispatcher      MessageDispatcher
	observer        *core.Observer
	maxRequestBytes int64
}

type MultipartOption func(*MultipartHandler)

func WithObserver(observer *core.Observer) MultipartOption {
	return func(h *MultipartHandler) {
		h.observer = observer
	}
}

func WithMaxRequestBytes(limit int64) MultipartOption {
	return func(h *MultipartHandler) {
		if limit > 0 {
			h.maxRequestBytes = limit
		}
	}
}

func NewMultipartHandler(dispatcher MessageDispatcher, opts ...MultipartOption) (*MultipartHandler, error) {
	if dispatcher == nil {
		return nil, transportError("transport: dispatcher is required", goerrors.CategoryBadInput,
			http.StatusBadRequest, nil)
	}
	handler := &MultipartHandler{
		dispatcher:      dispatcher,
		maxRequestBytes: defaultMaxRequestBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}
	return handler, nil
}

func (h *MultipartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeResponse(ctx, w, core.NewRejection(
			core.DefaultRejectionHeader(core.RejectionMethodNotSupported),
			core.RejectionMethodNotSupported,
			MessageMethodNotSupported,
		))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBytes)
	msg, err := ReadMultipartMessage(r)
	if err != nil {
		h.observer.Log(ctx, "debug", "transport: multipart request rejected", map[string]any{
			"error": err.Error(),
		})
		h.writeResponse(ctx, w, core.NewRejection(
			core.DefaultRejectionHeader(core.RejectionMalformedMessage),
			core.RejectionMalformedMessage,
			MessageMalformed,
		))
		return
	}

	resp, err := h.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		h.observer.Log(ctx, "error", "transport: dispatch failed", map[string]any{
			"error": err.Error(),
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.writeResponse(ctx, w, resp)
}

func (h *MultipartHandler) writeResponse(ctx context.Context, w http.ResponseWriter, resp core.Response) {
	encoded, err := wire.EncodeResponse(resp)
	if err != nil {
		h.observer.Log(ctx, "error", "transport: response encoding failed", map[string]any{
			"error": err.Error(),
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	body, contentType, err := WriteMultipartMessage(encoded.Header, encoded.Payload, encoded.PayloadMediaType)
	if err != nil {
		h.observer.Log(ctx, "error", "transport: multipart encoding failed", map[string]any{
			"error": err.Error(),
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(StatusForResponse(resp))
	_, _ = w.Write(body)
}

// StatusForResponse maps a protocol response to an HTTP status. The
// protocol body is authoritative; the status helps plain HTTP clients.
func StatusForResponse(resp core.Response) int {
	rejection, ok := resp.(*core.ErrorResponse)
	if !ok {
		return http.StatusOK
	}
	switch rejection.Reason {
	case core.RejectionNotFound:
		return http.StatusNotFound
	case core.RejectionNotAuthenticated:
		return http.StatusUnauthorized
	case core.RejectionNotAuthorized:
		return http.StatusForbidden
	case core.RejectionMethodNotSupported:
		return http.StatusMethodNotAllowed
	case core.RejectionTemporarilyNotAvailable:
		return http.StatusServiceUnavailable
	case core.RejectionInternalRecipientError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// ReadMultipartMessage extracts the header and payload parts of r.
func ReadMultipartMessage(r *http.Request) (*inbound.RawMessage, error) {
	header, payload, _, err := readParts(r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		return nil, err
	}
	return &inbound.RawMessage{Header: header, Payload: payload}, nil
}

func readParts(contentType string, body io.Reader) ([]byte, []byte, string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, nil, "", transportWrapError(err, goerrors.CategoryBadInput,
			"transport: invalid content type", http.StatusBadRequest, nil)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, nil, "", transportError(
			fmt.Sprintf("transport: expected multipart content, got %q", mediaType),
			goerrors.CategoryBadInput, http.StatusBadRequest,
			map[string]any{"media_type": mediaType},
		)
	}

	var (
		header           []byte
		payload          []byte
		payloadMediaType string
		seenHeader       bool
	)
	reader := multipart.NewReader(body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, "", transportWrapError(err, goerrors.CategoryBadInput,
				"transport: read multipart body", http.StatusBadRequest, nil)
		}
		data, err := io.ReadAll(part)
		name := part.FormName()
		partType := part.Header.Get("Content-Type")
		_ = part.Close()
		if err != nil {
			return nil, nil, "", transportWrapError(err, goerrors.CategoryBadInput,
				"transport: read multipart part", http.StatusBadRequest, map[string]any{"part": name})
		}
		switch name {
		case PartHeader:
			header = data
			seenHeader = true
		case PartPayload:
			payload = data
			payloadMediaType = partType
		}
	}
	if !seenHeader {
		return nil, nil, "", transportError("transport: multipart message has no header part",
			goerrors.CategoryBadInput, http.StatusBadRequest, nil)
	}
	return header, payload, payloadMediaType, nil
}

// WriteMultipartMessage renders a header part and, when present, a payload
// part. It returns the body and its Content-Type.
func WriteMultipartMessage(header []byte, payload []byte, payloadMediaType string) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writePart(writer, PartHeader, core.MediaTypeJSONLD, header); err != nil {
		return nil, "", err
	}
	if len(payload) > 0 {
		if strings.TrimSpace(payloadMediaType) == "" {
			payloadMediaType = "application/octet-stream"
		}
		if err := writePart(writer, PartPayload, payloadMediaType, payload); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", transportWrapError(err, goerrors.CategoryInternal,
			"transport: close multipart writer", http.StatusInternalServerError, nil)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func writePart(writer *multipart.Writer, name string, mediaType string, data []byte) error {
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, name))
	partHeader.Set("Content-Type", mediaType)
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return transportWrapError(err, goerrors.CategoryInternal,
			"transport: create multipart part", http.StatusInternalServerError, map[string]any{"part": name})
	}
	if _, err := part.Write(data); err != nil {
		return transportWrapError(err, goerrors.CategoryInternal,
			"transport: write multipart part", http.StatusInternalServerError, map[string]any{"part": name})
	}
	return nil
}
