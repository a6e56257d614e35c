package wire

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-connector/core"
	goerrors "github.com/goliatone/go-errors"
)

// Registry maps media types to document serializers.
type Registry struct {
	mu          sync.RWMutex
	serializers map[string]core.DocumentSerializer
}

func NewRegistry() *Registry {
	return &Registry{serializers: map[string]core.DocumentSerializer{}}
}

// NewDefaultRegistry registers the JSON-LD and CBOR serializers.
func NewDefaultRegistry() (*Registry, error) {
	registry := NewRegistry()
	if err := registry.Register(NewJSONLDSerializer()); err != nil {
		return nil, err
	}
	cborSerializer, err := NewCBORSerializer()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(cborSerializer); err != nil {
		return nil, err
	}
	return registry, nil
}

func (r *Registry) Register(serializer core.DocumentSerializer) error {
	if r == nil {
		return core.ContractViolation("wire: serializer registry is nil")
	}
	if serializer == nil {
		return wireError("wire: serializer is nil", goerrors.CategoryBadInput,
			http.StatusBadRequest, core.ConnectorErrorBadInput, nil)
	}
	mediaType := normalizeMediaType(serializer.MediaType())
	if mediaType == "" {
		return wireError("wire: serializer media type is required", goerrors.CategoryBadInput,
			http.StatusBadRequest, core.ConnectorErrorBadInput, nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.serializers[mediaType]; exists {
		return wireError(fmt.Sprintf("wire: serializer for %q already registered", mediaType),
			goerrors.CategoryConflict, http.StatusConflict, WireErrorConflict,
			map[string]any{"media_type": mediaType})
	}
	r.serializers[mediaType] = serializer
	return nil
}

// Resolve finds the serializer for mediaType. Parameters such as charset
// are ignored; an empty media type selects JSON-LD.
func (r *Registry) Resolve(mediaType string) (core.DocumentSerializer, error) {
	if r == nil {
		return nil, core.ContractViolation("wire: serializer registry is nil")
	}
	key := normalizeMediaType(mediaType)
	if key == "" {
		key = core.MediaTypeJSONLD
	}
	r.mu.RLock()
	serializer, ok := r.serializers[key]
	r.mu.RUnlock()
	if !ok {
		return nil, wireError(fmt.Sprintf("wire: no serializer for media type %q", key),
			goerrors.CategoryBadInput, http.StatusUnsupportedMediaType, WireErrorUnsupportedMediaType,
			map[string]any{"media_type": key})
	}
	return serializer, nil
}

func (r *Registry) MediaTypes() []string {
	if r == nil {
		return []string{}
	}
	r.mu.RLock()
	out := make([]string, 0, len(r.serializers))
	for mediaType := range r.serializers {
		out = append(out, mediaType)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

func normalizeMediaType(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if index := strings.Index(mediaType, ";"); index >= 0 {
		mediaType = mediaType[:index]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
