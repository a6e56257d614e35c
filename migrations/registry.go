package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	connector "github.com/goliatone/go-connector"
	persistence "github.com/goliatone/go-persistence-bun"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	rootPath = "data/sql/migrations"

	// ResourcesMigration is the schema the resource store depends on.
	ResourcesMigration = "00001_connector_resources"
)

// Source is the migration directory for one dialect.
type Source struct {
	Dialect string
	Path    string
	FS      fs.FS
}

// Sources resolves the postgres and sqlite migration directories from root,
// or from the embedded connector migrations when root is nil. Each directory
// must carry the connector_resources up and down pair.
func Sources(root fs.FS) ([]Source, error) {
	if root == nil {
		root = connector.GetMigrationsFS()
	}
	base, err := fs.Sub(root, rootPath)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve %s: %w", rootPath, err)
	}
	sqliteFS, err := fs.Sub(base, DialectSQLite)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite filesystem: %w", err)
	}

	sources := []Source{
		{Dialect: DialectPostgres, Path: rootPath, FS: base},
		{Dialect: DialectSQLite, Path: rootPath + "/" + DialectSQLite, FS: sqliteFS},
	}
	for _, source := range sources {
		for _, suffix := range []string{".up.sql", ".down.sql"} {
			name := ResourcesMigration + suffix
			if _, err := fs.Stat(source.FS, name); err != nil {
				return nil, fmt.Errorf("migrations: %s source %q is missing %s: %w", source.Dialect, source.Path, name, err)
			}
		}
	}
	return sources, nil
}

// SourceFor returns the embedded migration source for dialect.
func SourceFor(dialect string) (Source, error) {
	dialect = strings.TrimSpace(strings.ToLower(dialect))
	sources, err := Sources(nil)
	if err != nil {
		return Source{}, err
	}
	for _, source := range sources {
		if source.Dialect == dialect {
			return source, nil
		}
	}
	return Source{}, fmt.Errorf("migrations: unsupported dialect %q", dialect)
}

// Apply registers the connector migrations for dialect on client and runs
// them.
func Apply(ctx context.Context, client *persistence.Client, dialect string) error {
	if client == nil {
		return fmt.Errorf("migrations: persistence client is required")
	}
	source, err := SourceFor(dialect)
	if err != nil {
		return err
	}
	client.RegisterSQLMigrations(source.FS)
	if err := client.Migrate(ctx); err != nil {
		return fmt.Errorf("migrations: apply %s (%s): %w", source.Dialect, source.Path, err)
	}
	return nil
}
