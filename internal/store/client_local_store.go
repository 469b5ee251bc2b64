package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/models"
)

// localStore is the SQLite-backed implementation of [LocalStore]. A single
// *sql.DB serializes concurrent access from the drain loop and the
// day-transition tick, which may fire in overlapping windows.
type localStore struct {
	*DB
	maxRetries int
	logger     *logger.Logger
}

// NewLocalStore constructs a [LocalStore] backed by the provided database
// connection. maxRetries is the default retry budget stamped onto enqueued
// operations that do not carry their own.
func NewLocalStore(db *DB, maxRetries int, logger *logger.Logger) LocalStore {
	if maxRetries <= 0 {
		maxRetries = models.DefaultMaxRetries
	}
	return &localStore{
		DB:         db,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (s *localStore) PutRecord(ctx context.Context, rec models.CachedRecord) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.PutRecord").
			Str("collection", rec.CollectionKey).
			Str("record_id", rec.RecordID).
			Msg("failed to encode record payload")
		return fmt.Errorf("%w: encode payload: %w", ErrStorage, err)
	}

	var lastSynced sql.NullTime
	if !rec.LastSyncedAt.IsZero() {
		lastSynced = sql.NullTime{Time: rec.LastSyncedAt, Valid: true}
	}

	_, err = s.DB.ExecContext(ctx, putRecord,
		rec.CollectionKey,
		rec.RecordID,
		string(payload),
		rec.CachedAt,
		lastSynced,
		rec.Dirty,
	)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.PutRecord").
			Str("collection", rec.CollectionKey).
			Str("record_id", rec.RecordID).
			Msg("failed to execute upsert for cached record")
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return nil
}

func (s *localStore) GetRecord(ctx context.Context, collection, id string) (models.CachedRecord, error) {
	log := logger.FromContext(ctx)

	row := s.DB.QueryRowContext(ctx, getRecord, collection, id)

	rec, err := scanCachedRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CachedRecord{}, ErrRecordNotFound
		}
		log.Err(err).
			Str("func", "localStore.GetRecord").
			Str("collection", collection).
			Str("record_id", id).
			Msg("failed to scan cached record row")
		return models.CachedRecord{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return rec, nil
}

func (s *localStore) GetRecords(ctx context.Context, collection string) ([]models.CachedRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := s.DB.QueryContext(ctx, getRecords, collection)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.GetRecords").
			Str("collection", collection).
			Msg("failed to execute query for cached records")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer rows.Close()

	records := make([]models.CachedRecord, 0, 16)

	for rows.Next() {
		rec, scanErr := scanCachedRecord(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "localStore.GetRecords").
				Str("collection", collection).
				Msg("failed to scan cached record row")
			return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrScanningRow, scanErr)
		}
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "localStore.GetRecords").
			Str("collection", collection).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (s *localStore) DeleteRecord(ctx context.Context, collection, id string) error {
	log := logger.FromContext(ctx)

	_, err := s.DB.ExecContext(ctx, deleteRecord, collection, id)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.DeleteRecord").
			Str("collection", collection).
			Str("record_id", id).
			Msg("failed to execute delete for cached record")
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return nil
}

func (s *localStore) Enqueue(ctx context.Context, op models.PendingOperation) (string, error) {
	log := logger.FromContext(ctx)

	if op.OperationID == "" {
		op.OperationID = uuid.NewString()
	}
	if op.MaxRetries <= 0 {
		op.MaxRetries = s.maxRetries
	}
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = time.Now()
	}

	payload, err := json.Marshal(op.Payload)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.Enqueue").
			Str("operation_id", op.OperationID).
			Msg("failed to encode operation payload")
		return "", fmt.Errorf("%w: encode payload: %w", ErrStorage, err)
	}

	_, err = s.DB.ExecContext(ctx, enqueueOperation,
		op.OperationID,
		string(op.Kind),
		op.CollectionKey,
		string(payload),
		op.EnqueuedAt,
		op.RetryCount,
		op.MaxRetries,
	)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.Enqueue").
			Str("operation_id", op.OperationID).
			Str("kind", string(op.Kind)).
			Str("collection", op.CollectionKey).
			Msg("failed to enqueue pending operation")
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}

	log.Debug().
		Str("func", "localStore.Enqueue").
		Str("operation_id", op.OperationID).
		Str("kind", string(op.Kind)).
		Str("collection", op.CollectionKey).
		Msg("pending operation enqueued")

	return op.OperationID, nil
}

func (s *localStore) ListPending(ctx context.Context) ([]models.PendingOperation, error) {
	log := logger.FromContext(ctx)

	rows, err := s.DB.QueryContext(ctx, listPendingOperations)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.ListPending").
			Msg("failed to execute query for pending operations")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer rows.Close()

	ops := make([]models.PendingOperation, 0, 16)

	for rows.Next() {
		var op models.PendingOperation
		var kind string
		var payload sql.NullString

		scanErr := rows.Scan(
			&op.OperationID,
			&kind,
			&op.CollectionKey,
			&payload,
			&op.EnqueuedAt,
			&op.RetryCount,
			&op.MaxRetries,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "localStore.ListPending").
				Msg("failed to scan pending operation row")
			return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrScanningRow, scanErr)
		}

		op.Kind = models.OperationKind(kind)
		if payload.Valid && payload.String != "" {
			if decodeErr := json.Unmarshal([]byte(payload.String), &op.Payload); decodeErr != nil {
				log.Err(decodeErr).
					Str("func", "localStore.ListPending").
					Str("operation_id", op.OperationID).
					Msg("failed to decode operation payload")
				return nil, fmt.Errorf("%w: decode payload: %w", ErrStorage, decodeErr)
			}
		}

		ops = append(ops, op)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "localStore.ListPending").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrScanningRows, rowsErr)
	}

	return ops, nil
}

func (s *localStore) PendingCount(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRowContext(ctx, countPendingOperations).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return count, nil
}

func (s *localStore) RemovePending(ctx context.Context, operationID string) error {
	log := logger.FromContext(ctx)

	result, err := s.DB.ExecContext(ctx, removePendingOperation, operationID)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.RemovePending").
			Str("operation_id", operationID).
			Msg("failed to execute delete for pending operation")
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if affected == 0 {
		return ErrOperationNotFound
	}

	return nil
}

func (s *localStore) BumpRetry(ctx context.Context, operationID string) error {
	log := logger.FromContext(ctx)

	result, err := s.DB.ExecContext(ctx, bumpRetryCount, operationID)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.BumpRetry").
			Str("operation_id", operationID).
			Msg("failed to execute retry bump for pending operation")
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if affected == 0 {
		log.Warn().
			Str("func", "localStore.BumpRetry").
			Str("operation_id", operationID).
			Msg("no rows affected during retry bump: operation not found")
		return ErrOperationNotFound
	}

	return nil
}

func (s *localStore) SetMeta(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	_, err := s.DB.ExecContext(ctx, setMetaValue, key, value)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.SetMeta").
			Str("key", key).
			Msg("failed to execute upsert for metadata")
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return nil
}

func (s *localStore) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, getMetaValue, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMetaNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return value, nil
}

func (s *localStore) SaveFinalization(ctx context.Context, rec models.DayFinalizationRecord) error {
	log := logger.FromContext(ctx)

	participants, err := json.Marshal(rec.ParticipantIDs)
	if err != nil {
		return fmt.Errorf("%w: encode participants: %w", ErrStorage, err)
	}

	_, err = s.DB.ExecContext(ctx, saveFinalization,
		rec.Date.String(),
		rec.FinalizedAt,
		rec.RecordCount,
		string(participants),
		rec.TimeZone,
		rec.Sealed,
	)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.SaveFinalization").
			Str("date", rec.Date.String()).
			Msg("failed to execute upsert for day finalization")
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return nil
}

func (s *localStore) GetFinalization(ctx context.Context, date models.Date) (models.DayFinalizationRecord, error) {
	log := logger.FromContext(ctx)

	row := s.DB.QueryRowContext(ctx, getFinalization, date.String())

	rec, err := scanFinalization(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DayFinalizationRecord{}, ErrFinalizationNotFound
		}
		log.Err(err).
			Str("func", "localStore.GetFinalization").
			Str("date", date.String()).
			Msg("failed to scan day finalization row")
		return models.DayFinalizationRecord{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return rec, nil
}

func (s *localStore) ListFinalizations(ctx context.Context) ([]models.DayFinalizationRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := s.DB.QueryContext(ctx, listFinalizations)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.ListFinalizations").
			Msg("failed to execute query for day finalizations")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer rows.Close()

	records := make([]models.DayFinalizationRecord, 0, 8)

	for rows.Next() {
		rec, scanErr := scanFinalization(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "localStore.ListFinalizations").
				Msg("failed to scan day finalization row")
			return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrScanningRow, scanErr)
		}
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (s *localStore) ClearAll(ctx context.Context) error {
	log := logger.FromContext(ctx)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.ClearAll").
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w: %w", ErrStorage, ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, stmt := range clearAllStatements {
		if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
			log.Err(execErr).
				Str("func", "localStore.ClearAll").
				Str("statement", strings.TrimSpace(stmt)).
				Msg("failed to execute clear statement")
			return fmt.Errorf("%w: %w: %w", ErrStorage, ErrExecutingQuery, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "localStore.ClearAll").
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w: %w", ErrStorage, ErrCommitingTransaction, commitErr)
	}

	return nil
}

// scanCachedRecord decodes one row of the records table through the given
// scan function, shared between the single-row and multi-row paths.
func scanCachedRecord(scan func(dest ...any) error) (models.CachedRecord, error) {
	var rec models.CachedRecord
	var payload string
	var lastSynced sql.NullTime

	if err := scan(
		&rec.CollectionKey,
		&rec.RecordID,
		&payload,
		&rec.CachedAt,
		&lastSynced,
		&rec.Dirty,
	); err != nil {
		return models.CachedRecord{}, err
	}

	if err := json.Unmarshal([]byte(payload), &rec.Payload); err != nil {
		return models.CachedRecord{}, fmt.Errorf("decode payload: %w", err)
	}
	if lastSynced.Valid {
		rec.LastSyncedAt = lastSynced.Time
	}

	return rec, nil
}

func scanFinalization(scan func(dest ...any) error) (models.DayFinalizationRecord, error) {
	var rec models.DayFinalizationRecord
	var date string
	var participants string

	if err := scan(
		&date,
		&rec.FinalizedAt,
		&rec.RecordCount,
		&participants,
		&rec.TimeZone,
		&rec.Sealed,
	); err != nil {
		return models.DayFinalizationRecord{}, err
	}

	parsed, err := models.ParseDate(date)
	if err != nil {
		return models.DayFinalizationRecord{}, fmt.Errorf("decode date: %w", err)
	}
	rec.Date = parsed

	if err := json.Unmarshal([]byte(participants), &rec.ParticipantIDs); err != nil {
		return models.DayFinalizationRecord{}, fmt.Errorf("decode participants: %w", err)
	}

	return rec, nil
}
