package sqlstore

import (
	"context"
	"time"

	"github.com/goliatone/go-connector/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
)

const (
	resourceCacheKeyPrefix = "go-connector::resource::v1"
	offeredCacheKey        = resourceCacheKeyPrefix + "::offered"
)

type cachedLookup struct {
	Resource core.Resource
	Found    bool
}

// CachedResourceResolver fronts a resource repository with a read-through
// cache. Writes go to the base repository first and then drop the affected
// keys.
type CachedResourceResolver struct {
	base  ResourceRepository
	cache repositorycache.CacheService
}

func NewCachedResourceResolver(
	base ResourceRepository,
	cacheService repositorycache.CacheService,
) (*CachedResourceResolver, error) {
	if base == nil {
		return nil, storeBadInput("sqlstore: base resource repository is required")
	}
	if cacheService == nil {
		return nil, storeBadInput("sqlstore: resource cache service is required")
	}
	return &CachedResourceResolver{base: base, cache: cacheService}, nil
}

// NewCacheService builds the in-process cache used by the resolver.
func NewCacheService(cfg core.CacheConfig) (repositorycache.CacheService, error) {
	config := repositorycache.DefaultConfig()
	if cfg.TTLSeconds > 0 {
		config.TTL = time.Duration(cfg.TTLSeconds) * time.Second
	}
	return repositorycache.NewCacheService(config)
}

// ResourceCacheKey returns go-connector::resource::v1::<uuid>.
func ResourceCacheKey(id uuid.UUID) string {
	return resourceCacheKeyPrefix + "::" + id.String()
}

func (c *CachedResourceResolver) GetResource(ctx context.Context, id string) (core.Resource, bool, error) {
	if c == nil || c.base == nil || c.cache == nil {
		return core.Resource{}, false, storeNotConfigured("cached resource resolver")
	}
	key, err := core.ParseResourceID(id)
	if err != nil {
		return core.Resource{}, false, err
	}
	lookup, err := repositorycache.GetOrFetch(ctx, c.cache, ResourceCacheKey(key), func(ctx context.Context) (cachedLookup, error) {
		resource, found, fetchErr := c.base.GetResource(ctx, key.String())
		if fetchErr != nil {
			return cachedLookup{}, fetchErr
		}
		return cachedLookup{Resource: resource.Clone(), Found: found}, nil
	})
	if err != nil {
		return core.Resource{}, false, err
	}
	if !lookup.Found {
		return core.Resource{}, false, nil
	}
	return lookup.Resource.Clone(), true, nil
}

func (c *CachedResourceResolver) GetAllOfferedResources(ctx context.Context) ([]core.Resource, error) {
	if c == nil || c.base == nil || c.cache == nil {
		return nil, storeNotConfigured("cached resource resolver")
	}
	resources, err := repositorycache.GetOrFetch(ctx, c.cache, offeredCacheKey, func(ctx context.Context) ([]core.Resource, error) {
		return c.base.GetAllOfferedResources(ctx)
	})
	if err != nil {
		return nil, err
	}
	out := make([]core.Resource, 0, len(resources))
	for _, resource := range resources {
		out = append(out, resource.Clone())
	}
	return out, nil
}

func (c *CachedResourceResolver) Save(ctx context.Context, resource core.Resource) (core.Resource, error) {
	if c == nil || c.base == nil || c.cache == nil {
		return core.Resource{}, storeNotConfigured("cached resource resolver")
	}
	saved, err := c.base.Save(ctx, resource)
	if err != nil {
		return core.Resource{}, err
	}
	if err := c.Invalidate(ctx, saved.ID); err != nil {
		return core.Resource{}, err
	}
	return saved, nil
}

func (c *CachedResourceResolver) SetOffered(ctx context.Context, id uuid.UUID, offered bool) error {
	if c == nil || c.base == nil || c.cache == nil {
		return storeNotConfigured("cached resource resolver")
	}
	if err := c.base.SetOffered(ctx, id, offered); err != nil {
		return err
	}
	return c.Invalidate(ctx, id)
}

func (c *CachedResourceResolver) Delete(ctx context.Context, id uuid.UUID) error {
	if c == nil || c.base == nil || c.cache == nil {
		return storeNotConfigured("cached resource resolver")
	}
	if err := c.base.Delete(ctx, id); err != nil {
		return err
	}
	return c.Invalidate(ctx, id)
}

// Invalidate drops the per-resource entries for ids and the offered listing.
func (c *CachedResourceResolver) Invalidate(ctx context.Context, ids ...uuid.UUID) error {
	if c == nil || c.cache == nil {
		return nil
	}
	for _, id := range ids {
		if err := c.cache.Delete(ctx, ResourceCacheKey(id)); err != nil {
			return err
		}
	}
	return c.cache.Delete(ctx, offeredCacheKey)
}
