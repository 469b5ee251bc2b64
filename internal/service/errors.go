package service

import "errors"

var (
	// ErrOffline is returned by operations that require connectivity when
	// the coordinator currently believes the remote store is unreachable.
	ErrOffline = errors.New("remote store is offline")

	// ErrPermissionDenied is returned synchronously by record mutations the
	// permission provider rejects; nothing reaches the cache or the queue.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrSyncExhausted marks a queued operation dropped after exhausting
	// its retry budget. It appears in [models.SyncStatus].Errors.
	ErrSyncExhausted = errors.New("operation exhausted retries")

	// ErrFutureDate is returned when finalization is requested for a date
	// that has not finished yet.
	ErrFutureDate = errors.New("cannot finalize a future date")

	// ErrInvalidDataProvided is returned by the auth service when a request
	// is missing required fields.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrWrongPassword is returned on a login attempt with a password that
	// does not match the stored hash.
	ErrWrongPassword = errors.New("wrong password")

	// ErrTokenCreationFailed is returned when signing a new token fails.
	ErrTokenCreationFailed = errors.New("token creation failed")

	// ErrTokenIsExpired is returned by ParseToken for a well-formed token
	// whose expiry has passed.
	ErrTokenIsExpired = errors.New("token is expired")
)
