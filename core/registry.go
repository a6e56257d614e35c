package core

import (
	"fmt"
	"sort"
	"sync"
)

// HandlerRegistry maps a message type tag to exactly one handler. The table
// is filled at startup and sealed before the first dispatch.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	sealed   bool
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]Handler)}
}

func (r *HandlerRegistry) Register(typeTag string, handler Handler) error {
	if r == nil {
		return ContractViolation("core: handler registry is nil")
	}
	if handler == nil {
		return badInputError("core: handler is nil", map[string]any{"type_tag": typeTag})
	}
	tag := NormalizeTypeTag(typeTag)
	if tag == "" {
		return badInputError("core: handler type tag is required", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return conflictError(
			fmt.Sprintf("core: handler registry is sealed, cannot register %q", tag),
			map[string]any{"type_tag": tag},
		)
	}
	if _, exists := r.handlers[tag]; exists {
		return conflictError(
			fmt.Sprintf("core: handler already registered for type %q", tag),
			map[string]any{"type_tag": tag},
		)
	}
	r.handlers[tag] = handler
	return nil
}

// MustRegister panics when registration fails. Use it from startup code
// where a duplicate tag must stop the process.
func (r *HandlerRegistry) MustRegister(typeTag string, handler Handler) {
	if err := r.Register(typeTag, handler); err != nil {
		panic(err)
	}
}

func (r *HandlerRegistry) Resolve(typeTag string) (Handler, bool) {
	if r == nil {
		return nil, false
	}
	tag := NormalizeTypeTag(typeTag)
	if tag == "" {
		return nil, false
	}
	r.mu.RLock()
	handler, ok := r.handlers[tag]
	r.mu.RUnlock()
	return handler, ok
}

// Seal closes the table. Later registrations fail.
func (r *HandlerRegistry) Seal() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

func (r *HandlerRegistry) Sealed() bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

func (r *HandlerRegistry) TypeTags() []string {
	if r == nil {
		return []string{}
	}
	r.mu.RLock()
	tags := make([]string, 0, len(r.handlers))
	for tag := range r.handlers {
		tags = append(tags, tag)
	}
	r.mu.RUnlock()
	sort.Strings(tags)
	return tags
}
