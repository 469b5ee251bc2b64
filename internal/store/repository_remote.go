package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/models"
)

// remoteRecordRepository is the PostgreSQL-backed implementation of
// [RemoteRecordRepository]. Payloads are stored as JSONB and treated as
// opaque by the server; the engine on the client side owns their shape.
type remoteRecordRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewRemoteRecordRepository constructs a [RemoteRecordRepository] backed by
// the provided database connection and logger.
func NewRemoteRecordRepository(db *DB, logger *logger.Logger) RemoteRecordRepository {
	logger.Debug().Msg("creating remote record repository")
	return &remoteRecordRepository{
		db:     db,
		logger: logger,
	}
}

func (r *remoteRecordRepository) Upsert(ctx context.Context, collection, id string, payload models.Payload) error {
	log := logger.FromContext(ctx)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %w", ErrStorage, err)
	}

	query, args, err := buildUpsertRemoteRecordQuery(collection, id, encoded)
	if err != nil {
		return fmt.Errorf("%w: build query: %w", ErrStorage, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "*remoteRecordRepository.Upsert").
			Str("collection", collection).
			Str("record_id", id).
			Msg("error upserting remote record")
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return nil
}

func (r *remoteRecordRepository) Get(ctx context.Context, collection, id string) (models.Payload, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetRemoteRecordQuery(collection, id)
	if err != nil {
		return nil, fmt.Errorf("%w: build query: %w", ErrStorage, err)
	}

	var encoded []byte
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&encoded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}

		log.Err(err).
			Str("func", "*remoteRecordRepository.Get").
			Str("collection", collection).
			Str("record_id", id).
			Msg("error querying remote record")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	var payload models.Payload
	if err = json.Unmarshal(encoded, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %w", ErrStorage, err)
	}

	return payload, nil
}

func (r *remoteRecordRepository) List(ctx context.Context, collection string, ids []string) (map[string]models.Payload, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListRemoteRecordsQuery(collection, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: build query: %w", ErrStorage, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*remoteRecordRepository.List").
			Str("collection", collection).
			Msg("error querying remote records")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer rows.Close()

	records := make(map[string]models.Payload)

	for rows.Next() {
		var id string
		var encoded []byte

		if scanErr := rows.Scan(&id, &encoded); scanErr != nil {
			log.Err(scanErr).
				Str("func", "*remoteRecordRepository.List").
				Str("collection", collection).
				Msg("error scanning remote record row")
			return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrScanningRow, scanErr)
		}

		var payload models.Payload
		if decodeErr := json.Unmarshal(encoded, &payload); decodeErr != nil {
			return nil, fmt.Errorf("%w: decode payload: %w", ErrStorage, decodeErr)
		}

		records[id] = payload
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (r *remoteRecordRepository) Delete(ctx context.Context, collection, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteRemoteRecordQuery(collection, id)
	if err != nil {
		return fmt.Errorf("%w: build query: %w", ErrStorage, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*remoteRecordRepository.Delete").
			Str("collection", collection).
			Str("record_id", id).
			Msg("error deleting remote record")
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
