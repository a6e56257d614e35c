package wire

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	WireErrorMalformedHeader      = "WIRE_MALFORMED_HEADER"
	WireErrorMissingType          = "WIRE_MISSING_TYPE"
	WireErrorInvalidIssued        = "WIRE_INVALID_ISSUED"
	WireErrorEncodeFailed         = "WIRE_ENCODE_FAILED"
	WireErrorUnsupportedMediaType = "WIRE_UNSUPPORTED_MEDIA_TYPE"
	WireErrorConflict             = "WIRE_CONFLICT"
)

var (
	ErrMalformedHeader = errors.New("wire: malformed message header")
	ErrMissingType     = errors.New("wire: message header has no type")
	ErrInvalidIssued   = errors.New("wire: message header has an invalid issued date")
)

func wireError(
	message string,
	category goerrors.Category,
	code int,
	textCode string,
	metadata map[string]any,
) *goerrors.Error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func wireWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) *goerrors.Error {
	if source == nil {
		return wireError(message, category, code, textCode, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func malformedHeader(cause error) *goerrors.Error {
	source := ErrMalformedHeader
	if cause != nil {
		source = errors.Join(ErrMalformedHeader, cause)
	}
	return wireWrapError(source, goerrors.CategoryBadInput, "wire: malformed message header",
		http.StatusBadRequest, WireErrorMalformedHeader, nil)
}

func missingType() *goerrors.Error {
	return wireWrapError(ErrMissingType, goerrors.CategoryBadInput, "wire: message header has no @type",
		http.StatusBadRequest, WireErrorMissingType, nil)
}

func invalidIssued(cause error) *goerrors.Error {
	source := ErrInvalidIssued
	if cause != nil {
		source = errors.Join(ErrInvalidIssued, cause)
	}
	return wireWrapError(source, goerrors.CategoryBadInput, "wire: ids:issued is not an xsd:dateTimeStamp",
		http.StatusBadRequest, WireErrorInvalidIssued, nil)
}

func encodeFailed(kind string, cause error) *goerrors.Error {
	return wireWrapError(cause, goerrors.CategoryOperation, "wire: encode "+kind+" failed",
		http.StatusInternalServerError, WireErrorEncodeFailed, map[string]any{"document": kind})
}

// IsHeaderError reports whether err came from header decoding.
func IsHeaderError(err error) bool {
	return errors.Is(err, ErrMalformedHeader) || errors.Is(err, ErrMissingType) || errors.Is(err, ErrInvalidIssued)
}

// IsInvalidIssued reports a header whose type was read but whose issued
// date could not be parsed.
func IsInvalidIssued(err error) bool {
	return errors.Is(err, ErrInvalidIssued)
}
