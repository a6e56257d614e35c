package core

import (
	"github.com/google/uuid"
)

// CatalogAssembler turns the resolver's offered resources into a
// self-description. Every call returns a fresh value; nothing is written
// back to the shared connector configuration.
type CatalogAssembler struct {
	newID func() uuid.UUID
}

func NewCatalogAssembler() *CatalogAssembler {
	return &CatalogAssembler{newID: uuid.New}
}

// BuildCatalog lists every resource exactly once, keeping the first
// occurrence of a duplicated id.
func (a *CatalogAssembler) BuildCatalog(resources []Resource) Catalog {
	seen := make(map[uuid.UUID]struct{}, len(resources))
	offered := make([]Resource, 0, len(resources))
	for _, resource := range resources {
		if _, exists := seen[resource.ID]; exists {
			continue
		}
		seen[resource.ID] = struct{}{}
		offered = append(offered, resource.Clone())
	}
	return Catalog{
		ID:               a.catalogID(),
		OfferedResources: offered,
	}
}

func (a *CatalogAssembler) BuildSelfDescription(connector Connector, resources []Resource) SelfDescription {
	return SelfDescription{
		Connector: connector.Clone(),
		Catalogs:  []Catalog{a.BuildCatalog(resources)},
	}
}

func (a *CatalogAssembler) catalogID() uuid.UUID {
	if a == nil || a.newID == nil {
		return uuid.New()
	}
	return a.newID()
}
