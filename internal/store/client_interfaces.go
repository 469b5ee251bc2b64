package store

import (
	"context"

	"github.com/abira1/nijhum-deep/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/local_store_mock.go -package=mock

// Well-known metadata keys owned by the local store. "lastKnownDate" is the
// only place the engine remembers which date it last saw; it is never read
// or written except through SetMeta/GetMeta.
const (
	MetaLastSyncTime  = "lastSyncTime"
	MetaSyncErrors    = "syncErrors"
	MetaLastKnownDate = "lastKnownDate"
)

// LocalStore is the durable on-device store for cached records, the
// pending-operation queue, engine metadata and day finalization records.
//
// All failures are wrapped in [ErrStorage]; absence is signalled through the
// per-entity not-found sentinels. A successful PutRecord is immediately
// visible to GetRecord (read-your-writes).
type LocalStore interface {
	// PutRecord inserts or replaces the cached record identified by
	// (rec.CollectionKey, rec.RecordID).
	PutRecord(ctx context.Context, rec models.CachedRecord) error

	// GetRecord returns the cached record for (collection, id), or
	// [ErrRecordNotFound].
	GetRecord(ctx context.Context, collection, id string) (models.CachedRecord, error)

	// GetRecords returns every cached record of a collection, in record-id
	// order. An unknown collection yields an empty slice, not an error.
	GetRecords(ctx context.Context, collection string) ([]models.CachedRecord, error)

	// DeleteRecord removes the cached record for (collection, id). Deleting
	// an absent record is a no-op.
	DeleteRecord(ctx context.Context, collection, id string) error

	// Enqueue appends op to the pending-operation queue and returns the
	// operation ID (generated when op.OperationID is empty). A zero
	// MaxRetries is replaced with the configured default.
	Enqueue(ctx context.Context, op models.PendingOperation) (string, error)

	// ListPending returns the queue in enqueue (FIFO) order.
	ListPending(ctx context.Context) ([]models.PendingOperation, error)

	// PendingCount returns the number of queued operations.
	PendingCount(ctx context.Context) (int, error)

	// RemovePending deletes the operation with the given ID, or returns
	// [ErrOperationNotFound].
	RemovePending(ctx context.Context, operationID string) error

	// BumpRetry increments the retry counter of the operation with the
	// given ID, or returns [ErrOperationNotFound].
	BumpRetry(ctx context.Context, operationID string) error

	// SetMeta stores value under key, replacing any previous value.
	SetMeta(ctx context.Context, key, value string) error

	// GetMeta returns the value stored under key, or [ErrMetaNotFound].
	GetMeta(ctx context.Context, key string) (string, error)

	// SaveFinalization inserts or replaces the finalization record for its
	// date.
	SaveFinalization(ctx context.Context, rec models.DayFinalizationRecord) error

	// GetFinalization returns the finalization record for date, or
	// [ErrFinalizationNotFound].
	GetFinalization(ctx context.Context, date models.Date) (models.DayFinalizationRecord, error)

	// ListFinalizations returns all finalization records ordered by date.
	ListFinalizations(ctx context.Context) ([]models.DayFinalizationRecord, error)

	// ClearAll wipes every local table. Used on logout / device reset.
	ClearAll(ctx context.Context) error
}
