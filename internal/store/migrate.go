package store

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
	"github.com/samber/oops"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending schema migration.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return oops.Code("MIGRATE_DIALECT_FAILED").Wrap(err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return oops.Code("MIGRATE_FAILED").Wrap(err)
	}
	return nil
}

// MigrationStatus returns the current schema version.
func MigrationStatus(ctx context.Context, db *sql.DB) (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return 0, oops.Code("MIGRATE_DIALECT_FAILED").Wrap(err)
	}
	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, oops.Code("MIGRATE_VERSION_FAILED").Wrap(err)
	}
	return v, nil
}
