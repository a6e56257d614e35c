package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-connector/core"
	"github.com/goliatone/go-connector/wire"
	goerrors "github.com/goliatone/go-errors"
)

const defaultClientTimeout = 30 * time.Second
const defaultResponseBodyLimit int64 = 10 << 20 // 10 MiB

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends multipart protocol messages to peer connectors.
type Client struct {
	HTTP                 HTTPDoer
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
}

// Reply is a peer's multipart answer split into its parts.
type Reply struct {
	StatusCode       int
	Header           []byte
	Payload          []byte
	PayloadMediaType string
	Duration         time.Duration
}

func NewClient(doer HTTPDoer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: defaultClientTimeout}
	}
	return &Client{
		HTTP:                 doer,
		DefaultHeaders:       map[string]string{},
		MaxResponseBodyBytes: defaultResponseBodyLimit,
	}
}

// Send posts header and payload to endpoint and splits the multipart reply.
func (c *Client) Send(ctx context.Context, endpoint string, header []byte, payload []byte, payloadMediaType string) (Reply, error) {
	if c == nil || c.HTTP == nil {
		return Reply{}, transportError(
			"transport: client requires an http doer",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	parsedURL, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil || parsedURL.String() == "" {
		return Reply{}, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: invalid endpoint url",
			http.StatusBadRequest,
			map[string]any{"url": strings.TrimSpace(endpoint)},
		)
	}

	body, contentType, err := WriteMultipartMessage(header, payload, payloadMediaType)
	if err != nil {
		return Reply{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, parsedURL.String(), bytes.NewReader(body))
	if err != nil {
		return Reply{}, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: create http request",
			http.StatusBadRequest,
			map[string]any{"url": parsedURL.String()},
		)
	}
	for key, value := range c.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	httpReq.Header.Set("Content-Type", contentType)

	startedAt := time.Now().UTC()
	httpRes, err := c.HTTP.Do(httpReq)
	if err != nil {
		return Reply{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: execute http request",
			http.StatusBadGateway,
			map[string]any{"url": parsedURL.String()},
		)
	}
	defer httpRes.Body.Close()

	maxBodyBytes := c.MaxResponseBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultResponseBodyLimit
	}
	raw, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes+1))
	if err != nil {
		return Reply{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: read response body",
			http.StatusBadGateway,
			map[string]any{"status_code": httpRes.StatusCode},
		)
	}
	if int64(len(raw)) > maxBodyBytes {
		return Reply{}, transportError(
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", maxBodyBytes),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{
				"status_code":      httpRes.StatusCode,
				"response_limit_b": maxBodyBytes,
			},
		)
	}

	replyHeader, replyPayload, replyMediaType, err := readParts(httpRes.Header.Get("Content-Type"), bytes.NewReader(raw))
	if err != nil {
		return Reply{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: peer did not answer with a protocol message",
			http.StatusBadGateway,
			map[string]any{"status_code": httpRes.StatusCode},
		)
	}
	return Reply{
		StatusCode:       httpRes.StatusCode,
		Header:           replyHeader,
		Payload:          replyPayload,
		PayloadMediaType: replyMediaType,
		Duration:         time.Since(startedAt),
	}, nil
}

// RequestDescription sends a description request and decodes the reply
// header. A rejection is returned as a header with RejectionReason set,
// not as an error.
func (c *Client) RequestDescription(ctx context.Context, endpoint string, req core.IncomingRequest) (core.ResponseHeader, Reply, error) {
	if strings.TrimSpace(req.TypeTag) == "" {
		req.TypeTag = core.TypeDescriptionRequestMessage
	}
	header, err := wire.EncodeRequestHeader(req)
	if err != nil {
		return core.ResponseHeader{}, Reply{}, err
	}
	reply, err := c.Send(ctx, endpoint, header, nil, "")
	if err != nil {
		return core.ResponseHeader{}, Reply{}, err
	}
	decoded, err := wire.DecodeResponseHeader(reply.Header)
	if err != nil {
		return core.ResponseHeader{}, reply, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: peer response header is invalid",
			http.StatusBadGateway,
			map[string]any{"status_code": reply.StatusCode},
		)
	}
	return decoded, reply, nil
}
