package store

import (
	"context"
	"fmt"

	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
)

// ClientStorages bundles the local persistence layer of the client engine.
type ClientStorages struct {
	DB    *DB
	Local LocalStore
}

// NewClientStorages opens the SQLite file from the client configuration,
// applies pending migrations and returns the assembled storage layer.
func NewClientStorages(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*ClientStorages, error) {
	db, err := NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connect local database: %w", err)
	}

	if err = db.MigrateClient(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate local database: %w", err)
	}

	return &ClientStorages{
		DB:    db,
		Local: NewLocalStore(db, cfg.Sync.MaxRetries, log),
	}, nil
}

// Close releases the underlying database connection.
func (s *ClientStorages) Close() error {
	return s.DB.Close()
}
