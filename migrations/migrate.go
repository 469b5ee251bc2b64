// Package migrations holds the embedded goose migrations for both storage
// backends: the client's SQLite cache/queue and the server's Postgres
// record store.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql server/*.sql
var embedMigrations embed.FS

// MigrateClient applies the SQLite schema for the local cache, pending
// operation queue, metadata and day finalization stores.
func MigrateClient(db *sql.DB) error {
	return migrate(db, "sqlite3", "client")
}

// MigrateServer applies the Postgres schema for the remote keyed record
// store and the user accounts table.
func MigrateServer(db *sql.DB) error {
	return migrate(db, "postgres", "server")
}

func migrate(db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
