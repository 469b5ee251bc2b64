package store

import (
	"database/sql"

	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/migrations"
)

// DB wraps a *sql.DB together with the structured logger and, for Postgres,
// an error classificator used to distinguish retryable driver failures.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying. The SQLite-backed client store has no classifier (every failure
// is surfaced as [ErrStorage] and the caller degrades); the Postgres server
// store uses [PostgresErrorClassifier].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// MigrateClient applies the embedded SQLite schema.
func (db *DB) MigrateClient() error {
	return migrations.MigrateClient(db.DB)
}

// MigrateServer applies the embedded Postgres schema.
func (db *DB) MigrateServer() error {
	return migrations.MigrateServer(db.DB)
}
