package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"

	"github.com/MrJamesThe3rd/procurement/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies all pending migrations. The SQL is written to run unchanged
// on both Postgres and SQLite.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	dialect := goosedb.DialectPostgres
	if driver == config.DriverSQLite {
		dialect = goosedb.DialectSQLite3
	}

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}
