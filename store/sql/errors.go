package sqlstore

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-connector/core"
	goerrors "github.com/goliatone/go-errors"
)

var ErrResourceNotFound = errors.New("resource not found")

func storeError(message string, category goerrors.Category, code int, textCode string) *goerrors.Error {
	return goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
}

func storeNotConfigured(name string) error {
	return storeError("sqlstore: "+name+" is not configured", goerrors.CategoryInternal,
		http.StatusInternalServerError, core.ConnectorErrorInternal)
}

func storeBadInput(message string) error {
	return storeError(message, goerrors.CategoryBadInput, http.StatusBadRequest, core.ConnectorErrorBadInput)
}

func resourceNotFound(id string) error {
	return goerrors.Wrap(ErrResourceNotFound, goerrors.CategoryNotFound, "sqlstore: resource "+id+" not found").
		WithCode(http.StatusNotFound).
		WithTextCode(core.ConnectorErrorNotFound).
		WithMetadata(map[string]any{"resource_id": id})
}

// IsResourceNotFound reports whether err marks a missing or deleted resource.
func IsResourceNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrResourceNotFound) {
		return true
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == core.ConnectorErrorNotFound
	}
	return false
}

func isUniqueViolation(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}
