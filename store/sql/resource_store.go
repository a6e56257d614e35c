package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goliatone/go-connector/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ResourceRepository is the write side of a resource store on top of the
// resolver contract.
type ResourceRepository interface {
	core.ResourceResolver
	Save(ctx context.Context, resource core.Resource) (core.Resource, error)
	SetOffered(ctx context.Context, id uuid.UUID, offered bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ResourceStore keeps offered resources in SQL. Deleted rows are soft
// deleted and withdrawn rows stay stored but are never resolved.
type ResourceStore struct {
	db   *bun.DB
	repo repository.Repository[*resourceRecord]
	now  func() time.Time
}

type ResourceListFilter struct {
	Page             int
	PerPage          int
	IncludeWithdrawn bool
}

type ResourcePage struct {
	Items []core.Resource
	Total int
}

func NewResourceStore(db *bun.DB) (*ResourceStore, error) {
	if db == nil {
		return nil, storeBadInput("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*resourceRecord](db, resourceHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid resource repository wiring: %w", err)
		}
	}
	return &ResourceStore{
		db:   db,
		repo: repo,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}, nil
}

// Save inserts or replaces a resource and offers it. A zero id is assigned
// a new one; saving a soft deleted id restores the row. A zero Version
// becomes 1 on insert and the stored version plus one on update.
func (s *ResourceStore) Save(ctx context.Context, resource core.Resource) (core.Resource, error) {
	if s == nil || s.db == nil || s.repo == nil {
		return core.Resource{}, storeNotConfigured("resource store")
	}
	if resource.ID == uuid.Nil {
		resource.ID = uuid.New()
	}
	now := s.now()

	existing, err := s.findAny(ctx, resource.ID)
	if err != nil {
		return core.Resource{}, err
	}
	if existing == nil {
		if resource.Version <= 0 {
			resource.Version = 1
		}
		record := newResourceRecord(resource, true, now)
		created, createErr := s.repo.Create(ctx, record)
		if createErr == nil {
			return created.toDomain(), nil
		}
		if !isUniqueViolation(createErr) {
			return core.Resource{}, createErr
		}
		existing, err = s.findAny(ctx, resource.ID)
		if err != nil {
			return core.Resource{}, err
		}
		if existing == nil {
			return core.Resource{}, createErr
		}
	}

	if resource.Version <= 0 {
		resource.Version = existing.Version + 1
	}
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = existing.CreatedAt
	}
	if resource.ModifiedAt.IsZero() {
		resource.ModifiedAt = now
	}
	record := newResourceRecord(resource, true, now)
	if _, err := s.db.NewUpdate().
		Model(record).
		Column("title", "description", "keywords", "publisher", "language", "license",
			"version", "offered", "representations", "created_at", "updated_at", "deleted_at").
		Where("id = ?", record.ID).
		WhereAllWithDeleted().
		Exec(ctx); err != nil {
		return core.Resource{}, err
	}
	return record.toDomain(), nil
}

// GetResource resolves an offered resource. Withdrawn and deleted rows are
// reported as absent.
func (s *ResourceStore) GetResource(ctx context.Context, id string) (core.Resource, bool, error) {
	if s == nil || s.db == nil {
		return core.Resource{}, false, storeNotConfigured("resource store")
	}
	key, err := core.ParseResourceID(id)
	if err != nil {
		return core.Resource{}, false, err
	}
	record := &resourceRecord{}
	err = s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", key.String()).
		Where("?TableAlias.offered = ?", true).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Resource{}, false, nil
		}
		return core.Resource{}, false, err
	}
	return record.toDomain(), true, nil
}

// GetAllOfferedResources lists offered resources oldest first, ties broken
// by id.
func (s *ResourceStore) GetAllOfferedResources(ctx context.Context) ([]core.Resource, error) {
	if s == nil || s.db == nil {
		return nil, storeNotConfigured("resource store")
	}
	records := make([]*resourceRecord, 0)
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.offered = ?", true).
		OrderExpr("?TableAlias.created_at ASC").
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Resource, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

// List pages through stored resources for administration.
func (s *ResourceStore) List(ctx context.Context, filter ResourceListFilter) (ResourcePage, error) {
	if s == nil || s.repo == nil {
		return ResourcePage{}, storeNotConfigured("resource store")
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 25
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	selectors := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.deleted_at IS NULL")
		}),
		repository.OrderBy("created_at ASC"),
		repository.OrderBy("id ASC"),
		repository.SelectPaginate(perPage, (page-1)*perPage),
	}
	if !filter.IncludeWithdrawn {
		selectors = append(selectors, repository.SelectBy("offered", "=", true))
	}
	records, total, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return ResourcePage{}, err
	}
	out := ResourcePage{Items: make([]core.Resource, 0, len(records)), Total: total}
	for _, record := range records {
		out.Items = append(out.Items, record.toDomain())
	}
	return out, nil
}

// SetOffered withdraws or re-offers a stored resource.
func (s *ResourceStore) SetOffered(ctx context.Context, id uuid.UUID, offered bool) error {
	if s == nil || s.db == nil {
		return storeNotConfigured("resource store")
	}
	if id == uuid.Nil {
		return storeBadInput("sqlstore: resource id is required")
	}
	result, err := s.db.NewUpdate().
		Model((*resourceRecord)(nil)).
		Set("offered = ?", offered).
		Set("updated_at = ?", s.now()).
		Where("id = ?", id.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(result, id)
}

// Delete soft deletes a resource.
func (s *ResourceStore) Delete(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.db == nil {
		return storeNotConfigured("resource store")
	}
	if id == uuid.Nil {
		return storeBadInput("sqlstore: resource id is required")
	}
	result, err := s.db.NewDelete().
		Model(&resourceRecord{ID: id.String()}).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(result, id)
}

func (s *ResourceStore) findAny(ctx context.Context, id uuid.UUID) (*resourceRecord, error) {
	record := &resourceRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id.String()).
		WhereAllWithDeleted().
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func requireAffected(result sql.Result, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return resourceNotFound(id.String())
	}
	return nil
}
