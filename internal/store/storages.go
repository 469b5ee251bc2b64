package store

import (
	"context"
	"fmt"

	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
)

// Storages bundles the server-side repositories over one shared connection.
type Storages struct {
	DB            *DB
	Users         UserRepository
	RemoteRecords RemoteRecordRepository
}

// NewStorages connects to Postgres using the server configuration, applies
// pending migrations and returns the assembled repository layer.
func NewStorages(ctx context.Context, cfg *config.ServerConfig, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connect server database: %w", err)
	}

	if err = db.MigrateServer(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate server database: %w", err)
	}

	return &Storages{
		DB:            db,
		Users:         NewUserRepository(db, log),
		RemoteRecords: NewRemoteRecordRepository(db, log),
	}, nil
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	return s.DB.Close()
}
