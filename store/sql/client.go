package sqlstore

import (
	"database/sql"
	"strings"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ClientConfig describes the database behind the resource store.
type ClientConfig struct {
	Driver      string        `koanf:"driver" mapstructure:"driver"`
	DSN         string        `koanf:"dsn" mapstructure:"dsn"`
	Debug       bool          `koanf:"debug" mapstructure:"debug"`
	PingTimeout time.Duration `koanf:"ping_timeout" mapstructure:"ping_timeout"`
	// MaxOpenConns is forced to 1 for in-memory sqlite.
	MaxOpenConns int `koanf:"max_open_conns" mapstructure:"max_open_conns"`
}

func (c ClientConfig) GetDebug() bool { return c.Debug }

func (c ClientConfig) GetDriver() string { return normalizeDriver(c.Driver) }

func (c ClientConfig) GetServer() string { return strings.TrimSpace(c.DSN) }

func (c ClientConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c ClientConfig) GetOtelIdentifier() string { return "go-connector" }

// OpenClient opens a persistence client for sqlite3 or postgres.
func OpenClient(cfg ClientConfig) (*persistence.Client, error) {
	driver := normalizeDriver(cfg.Driver)
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, storeBadInput("sqlstore: dsn is required")
	}

	var dialect schema.Dialect
	switch driver {
	case DriverSQLite:
		dialect = sqlitedialect.New()
	case DriverPostgres:
		dialect = pgdialect.New()
	default:
		return nil, storeBadInput("sqlstore: unsupported driver " + cfg.Driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	switch {
	case driver == DriverSQLite && strings.Contains(dsn, "mode=memory"):
		sqlDB.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	client, err := persistence.New(cfg, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return client, nil
}

// MigrationDialect maps a driver name to the migration dialect label.
func MigrationDialect(driver string) string {
	if normalizeDriver(driver) == DriverSQLite {
		return "sqlite"
	}
	return "postgres"
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite
	case "postgres", "postgresql", "pg":
		return DriverPostgres
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}
