package postgres

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// runMigrations applies the embedded schema migrations on startup. goose
// tracks applied versions in its own table, so repeated startups are no-ops.
func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose.SetDialect")
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Wrap(err, "goose.UpContext")
	}

	return nil
}
