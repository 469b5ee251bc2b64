package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrStorage wraps every local-store I/O failure (file corruption,
	// quota, SQL errors). Callers are expected to degrade gracefully:
	// fall back to remote-only reads or empty results, never crash.
	ErrStorage = errors.New("local storage failure")

	// ErrRecordNotFound is returned when a cached record identified by
	// (collection_key, record_id) does not exist.
	ErrRecordNotFound = errors.New("cached record not found")

	// ErrOperationNotFound is returned when a pending operation targeted by
	// RemovePending or BumpRetry does not exist in the queue.
	ErrOperationNotFound = errors.New("pending operation not found")

	// ErrMetaNotFound is returned when a metadata key has no stored value.
	ErrMetaNotFound = errors.New("metadata key not found")

	// ErrFinalizationNotFound is returned when no day finalization record
	// exists for the requested date.
	ErrFinalizationNotFound = errors.New("day finalization record not found")

	// ErrLoginAlreadyExists is returned when an attempt to register a new
	// user fails because a user with the same login already exists.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least
	// one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back at this
	// point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
