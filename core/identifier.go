package core

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ParseResourceID extracts a resource key from either a bare UUID or a URI
// whose last path segment is a UUID (for example
// https://connector.example/api/resources/<uuid>).
func ParseResourceID(raw string) (uuid.UUID, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return uuid.Nil, MalformedIdentifierError(raw, nil)
	}
	if id, err := uuid.Parse(candidate); err == nil {
		if id == uuid.Nil {
			return uuid.Nil, MalformedIdentifierError(raw, nil)
		}
		return id, nil
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return uuid.Nil, MalformedIdentifierError(raw, err)
	}
	path := strings.TrimRight(parsed.Path, "/")
	if path == "" {
		path = strings.TrimRight(parsed.Opaque, "/")
	}
	segment := path
	if index := strings.LastIndexAny(path, "/:"); index >= 0 {
		segment = path[index+1:]
	}
	id, err := uuid.Parse(segment)
	if err != nil {
		return uuid.Nil, MalformedIdentifierError(raw, err)
	}
	if id == uuid.Nil {
		return uuid.Nil, MalformedIdentifierError(raw, nil)
	}
	return id, nil
}
