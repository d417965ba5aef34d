package postgres

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded schema migrations.
func Migrations() migrate.MigrationSource {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return &migrate.HttpFileSystemMigrationSource{FileSystem: http.FS(sub)}
}

// Migrate applies all pending migrations and returns how many ran.
func Migrate(db *sqlx.DB) (int, error) {
	n, err := migrate.Exec(db.DB, "postgres", Migrations(), migrate.Up)
	if err != nil {
		return n, errors.Wrap(err, "failed to apply migrations")
	}
	return n, nil
}
