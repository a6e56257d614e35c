package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ConnectorErrorBadInput               = "CONNECTOR_BAD_INPUT"
	ConnectorErrorNotFound               = "CONNECTOR_NOT_FOUND"
	ConnectorErrorConflict               = "CONNECTOR_CONFLICT"
	ConnectorErrorMalformedIdentifier    = "CONNECTOR_MALFORMED_IDENTIFIER"
	ConnectorErrorResponseConstruction   = "CONNECTOR_RESPONSE_CONSTRUCTION"
	ConnectorErrorContractViolation      = "CONNECTOR_CONTRACT_VIOLATION"
	ConnectorErrorVersionNotSupported    = "CONNECTOR_VERSION_NOT_SUPPORTED"
	ConnectorErrorMessageTypeUnsupported = "CONNECTOR_MESSAGE_TYPE_UNSUPPORTED"
	ConnectorErrorInternal               = "CONNECTOR_INTERNAL_ERROR"
)

var (
	ErrMalformedIdentifier  = errors.New("malformed identifier")
	ErrResponseConstruction = errors.New("response could not be constructed")
	ErrContractViolation    = errors.New("contract violation")
)

// MalformedIdentifierError reports an identifier the resolver cannot turn
// into its native key type.
func MalformedIdentifierError(raw string, cause error) *goerrors.Error {
	source := ErrMalformedIdentifier
	if cause != nil {
		source = errors.Join(ErrMalformedIdentifier, cause)
	}
	return goerrors.Wrap(source, goerrors.CategoryBadInput, "core: malformed identifier").
		WithCode(http.StatusBadRequest).
		WithTextCode(ConnectorErrorMalformedIdentifier).
		WithMetadata(map[string]any{"identifier": strings.TrimSpace(raw)})
}

// ConstructionFailure marks a response that could not be assembled. The
// dispatcher converts these into INTERNAL_RECIPIENT_ERROR rejections.
func ConstructionFailure(message string, cause error) *goerrors.Error {
	source := ErrResponseConstruction
	if cause != nil {
		source = errors.Join(ErrResponseConstruction, cause)
	}
	return goerrors.Wrap(source, goerrors.CategoryOperation, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ConnectorErrorResponseConstruction)
}

// ContractViolation marks a programming or wiring defect. It is never turned
// into a protocol rejection.
func ContractViolation(message string) *goerrors.Error {
	return goerrors.Wrap(ErrContractViolation, goerrors.CategoryInternal, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ConnectorErrorContractViolation).
		WithSeverity(goerrors.SeverityCritical)
}

func IsMalformedIdentifier(err error) bool {
	return hasTextCode(err, ConnectorErrorMalformedIdentifier) || errors.Is(err, ErrMalformedIdentifier)
}

func IsConstructionFailure(err error) bool {
	return hasTextCode(err, ConnectorErrorResponseConstruction) || errors.Is(err, ErrResponseConstruction)
}

func IsContractViolation(err error) bool {
	return hasTextCode(err, ConnectorErrorContractViolation) || errors.Is(err, ErrContractViolation)
}

func hasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr != nil {
		return richErr.TextCode == textCode
	}
	return false
}

func connectorError(message string, category goerrors.Category, textCode string, metadata map[string]any) *goerrors.Error {
	err := goerrors.New(message, category).
		WithCode(connectorHTTPStatus(category)).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func badInputError(message string, metadata map[string]any) *goerrors.Error {
	return connectorError(message, goerrors.CategoryBadInput, ConnectorErrorBadInput, metadata)
}

func conflictError(message string, metadata map[string]any) *goerrors.Error {
	return connectorError(message, goerrors.CategoryConflict, ConnectorErrorConflict, metadata)
}

func connectorHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
