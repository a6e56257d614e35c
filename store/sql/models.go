package sqlstore

import (
	"strings"
	"time"

	"github.com/goliatone/go-connector/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type resourceRecord struct {
	bun.BaseModel `bun:"table:connector_resources,alias:cr"`

	ID              string                 `bun:"id,pk"`
	Title           string                 `bun:"title,notnull"`
	Description     string                 `bun:"description,notnull"`
	Keywords        []string               `bun:"keywords,type:jsonb,notnull"`
	Publisher       string                 `bun:"publisher,notnull"`
	Language        string                 `bun:"language,notnull"`
	License         string                 `bun:"license,notnull"`
	Version         int                    `bun:"version,notnull"`
	Offered         bool                   `bun:"offered,notnull"`
	Representations []representationRecord `bun:"representations,type:jsonb,notnull"`
	CreatedAt       time.Time              `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time              `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	DeletedAt       *time.Time             `bun:"deleted_at,soft_delete"`
}

type representationRecord struct {
	ID        string `json:"id"`
	MediaType string `json:"media_type,omitempty"`
	Language  string `json:"language,omitempty"`
	Standard  string `json:"standard,omitempty"`
}

func newResourceRecord(resource core.Resource, offered bool, now time.Time) *resourceRecord {
	createdAt := resource.CreatedAt.UTC()
	if resource.CreatedAt.IsZero() {
		createdAt = now
	}
	modifiedAt := resource.ModifiedAt.UTC()
	if resource.ModifiedAt.IsZero() {
		modifiedAt = now
	}
	record := &resourceRecord{
		ID:              resource.ID.String(),
		Title:           strings.TrimSpace(resource.Title),
		Description:     strings.TrimSpace(resource.Description),
		Keywords:        normalizeKeywords(resource.Keywords),
		Publisher:       strings.TrimSpace(resource.Publisher),
		Language:        strings.TrimSpace(resource.Language),
		License:         strings.TrimSpace(resource.License),
		Version:         resource.Version,
		Offered:         offered,
		Representations: make([]representationRecord, 0, len(resource.Representations)),
		CreatedAt:       createdAt,
		UpdatedAt:       modifiedAt,
	}
	for _, representation := range resource.Representations {
		id := representation.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		record.Representations = append(record.Representations, representationRecord{
			ID:        id.String(),
			MediaType: strings.TrimSpace(representation.MediaType),
			Language:  strings.TrimSpace(representation.Language),
			Standard:  strings.TrimSpace(representation.Standard),
		})
	}
	return record
}

func (r *resourceRecord) toDomain() core.Resource {
	if r == nil {
		return core.Resource{}
	}
	resource := core.Resource{
		ID:          parseUUID(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Keywords:    append([]string(nil), r.Keywords...),
		Publisher:   r.Publisher,
		Language:    r.Language,
		License:     r.License,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt.UTC(),
		ModifiedAt:  r.UpdatedAt.UTC(),
	}
	for _, representation := range r.Representations {
		resource.Representations = append(resource.Representations, core.Representation{
			ID:        parseUUID(representation.ID),
			MediaType: representation.MediaType,
			Language:  representation.Language,
			Standard:  representation.Standard,
		})
	}
	return resource
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
