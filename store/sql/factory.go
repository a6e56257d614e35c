package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-connector/core"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

type RepositoryFactory struct {
	db          *bun.DB
	cache       repositorycache.CacheService
	cacheConfig core.CacheConfig

	resourceStore  *ResourceStore
	cachedResolver *CachedResourceResolver
}

type FactoryOption func(*RepositoryFactory)

// WithCacheService puts a CachedResourceResolver in front of the store.
func WithCacheService(cacheService repositorycache.CacheService) FactoryOption {
	return func(f *RepositoryFactory) {
		f.cache = cacheService
	}
}

// WithCacheConfig builds the cache service from cfg when cfg.Enabled is set.
// An explicit WithCacheService takes precedence.
func WithCacheConfig(cfg core.CacheConfig) FactoryOption {
	return func(f *RepositoryFactory) {
		f.cacheConfig = cfg
	}
}

func NewRepositoryFactory(opts ...FactoryOption) *RepositoryFactory {
	factory := &RepositoryFactory{}
	for _, opt := range opts {
		if opt != nil {
			opt(factory)
		}
	}
	return factory
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client, opts ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB, opts ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

// NewRepositoryFactoryFromConfig builds the stores on persistenceClient and
// fronts them with a cache when cfg.Cache.Enabled is set.
func NewRepositoryFactoryFromConfig(persistenceClient any, cfg core.Config, opts ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(append([]FactoryOption{WithCacheConfig(cfg.Cache)}, opts...)...)
	if _, err := factory.BuildStores(persistenceClient); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (*RepositoryFactory, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.resourceStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) ResourceStore() *ResourceStore {
	if f == nil {
		return nil
	}
	return f.resourceStore
}

// Resources returns the write side, cached when a cache service is set.
func (f *RepositoryFactory) Resources() ResourceRepository {
	if f == nil {
		return nil
	}
	if f.cachedResolver != nil {
		return f.cachedResolver
	}
	if f.resourceStore == nil {
		return nil
	}
	return f.resourceStore
}

// ResourceResolver hands the store to core.NewService through
// core.WithRepositoryFactory.
func (f *RepositoryFactory) ResourceResolver() core.ResourceResolver {
	repo := f.Resources()
	if repo == nil {
		return nil
	}
	return repo
}

func (f *RepositoryFactory) initStores() error {
	resourceStore, err := NewResourceStore(f.db)
	if err != nil {
		return err
	}
	f.resourceStore = resourceStore
	if f.cache == nil && f.cacheConfig.Enabled {
		cacheService, err := NewCacheService(f.cacheConfig)
		if err != nil {
			return err
		}
		f.cache = cacheService
	}
	if f.cache != nil {
		cached, err := NewCachedResourceResolver(resourceStore, f.cache)
		if err != nil {
			return err
		}
		f.cachedResolver = cached
	}
	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
