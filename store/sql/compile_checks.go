package sqlstore

import (
	"github.com/goliatone/go-connector/core"
)

var (
	_ core.ResourceResolver = (*ResourceStore)(nil)
	_ core.ResourceResolver = (*CachedResourceResolver)(nil)
	_ ResourceRepository    = (*ResourceStore)(nil)
	_ ResourceRepository    = (*CachedResourceResolver)(nil)
	_ core.ResolverProvider = (*RepositoryFactory)(nil)
)
