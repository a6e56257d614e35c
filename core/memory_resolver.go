package core

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryResourceResolver keeps offered resources in process. It is the
// default resolver when no store is configured and the fixture used by
// handler tests.
type MemoryResourceResolver struct {
	mu        sync.RWMutex
	resources map[uuid.UUID]Resource
	order     []uuid.UUID
}

func NewMemoryResourceResolver(resources ...Resource) *MemoryResourceResolver {
	resolver := &MemoryResourceResolver{resources: make(map[uuid.UUID]Resource)}
	for _, resource := range resources {
		resolver.Put(resource)
	}
	return resolver
}

// Put adds or replaces a resource. Insertion order is kept for listing.
func (r *MemoryResourceResolver) Put(resource Resource) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resources[resource.ID]; !exists {
		r.order = append(r.order, resource.ID)
	}
	r.resources[resource.ID] = resource.Clone()
}

func (r *MemoryResourceResolver) Remove(id uuid.UUID) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resources[id]; !exists {
		return false
	}
	delete(r.resources, id)
	for idx, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return true
}

func (r *MemoryResourceResolver) GetResource(_ context.Context, id string) (Resource, bool, error) {
	if r == nil {
		return Resource{}, false, ContractViolation("core: memory resource resolver is nil")
	}
	key, err := ParseResourceID(id)
	if err != nil {
		return Resource{}, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resource, ok := r.resources[key]
	if !ok {
		return Resource{}, false, nil
	}
	return resource.Clone(), true, nil
}

func (r *MemoryResourceResolver) GetAllOfferedResources(context.Context) ([]Resource, error) {
	if r == nil {
		return nil, ContractViolation("core: memory resource resolver is nil")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Resource, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.resources[id].Clone())
	}
	return out, nil
}

// IDs returns the stored resource ids in sorted order.
func (r *MemoryResourceResolver) IDs() []string {
	if r == nil {
		return []string{}
	}
	r.mu.RLock()
	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		ids = append(ids, id.String())
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
