package service

import (
	"context"

	"github.com/abira1/nijhum-deep/models"
)

// SyncCoordinator owns connectivity state and the pending-operation drain
// loop. Exactly one coordinator exists per running app.
type SyncCoordinator interface {
	// Start launches the connectivity probe and the periodic drain loop.
	Start(ctx context.Context)
	// Stop cancels both loops and waits for them to exit. An in-flight
	// drain pass is allowed to finish.
	Stop()

	// SetOnline flips the connectivity flag. A transition to online
	// triggers an immediate drain; a transition to offline only records
	// the state. Either transition emits a connection_change event.
	SetOnline(online bool)
	// Online reports the current connectivity belief.
	Online() bool

	// Drain performs one drain pass over the pending-operation queue.
	// A second call while a pass is running is a no-op; an offline call
	// returns [ErrOffline].
	Drain(ctx context.Context) error
	// ForceSync is the user-facing "sync now": it fails fast with
	// [ErrOffline] instead of silently queueing.
	ForceSync(ctx context.Context) error

	// Status returns a live snapshot of the engine's sync state. Recorded
	// errors accumulate across drain passes.
	Status(ctx context.Context) models.SyncStatus
	// ClearSyncErrors empties the recorded error list, in memory and in
	// the persisted metadata. Callers invoke it once the user has seen
	// (or dismissed) the errors.
	ClearSyncErrors(ctx context.Context) error

	// OnSyncEvent registers cb on the sync event bus and returns an
	// unsubscribe function.
	OnSyncEvent(cb func(models.SyncEvent)) func()
	// Publish emits an event on the sync event bus. The edge monitor uses
	// it for timezone change notifications.
	Publish(event models.SyncEvent)
}

// Finalizer seals calendar days into immutable summary records.
type Finalizer interface {
	// Finalize seals date. Sealing an already sealed date is a silent
	// no-op; sealing a future date returns [ErrFutureDate].
	Finalize(ctx context.Context, date models.Date) error
	// CatchUp walks backwards from yesterday over the catch-up window and
	// finalizes every date that is not yet sealed.
	CatchUp(ctx context.Context) error
	// HandleDayTransition is the clock-bus subscriber: it seals the day
	// that just ended and advances the last-known-date marker.
	HandleDayTransition(transition models.DayTransition)
	// OnFinalization registers cb for finalization events and returns an
	// unsubscribe function.
	OnFinalization(cb func(models.FinalizationEvent)) func()
}

// EdgeMonitor watches for conditions the day-transition ticker alone cannot
// handle: timezone changes, clock jumps, suspend/resume gaps and reconnects.
// Everything it detects is self-healed; nothing is surfaced as an error.
type EdgeMonitor interface {
	Start(ctx context.Context)
	Stop()
	// NotifyActive tells the monitor the host UI became visible or focused
	// again, forcing an immediate check.
	NotifyActive()
}

// PermissionProvider decides whether a mutation may proceed. The engine
// consults it before writing anything; rule content stays caller-supplied.
type PermissionProvider interface {
	CanMutate(actorToken string, kind models.OperationKind, date models.Date) bool
}

// PermissionFunc adapts a plain function to [PermissionProvider].
type PermissionFunc func(actorToken string, kind models.OperationKind, date models.Date) bool

// CanMutate implements [PermissionProvider].
func (f PermissionFunc) CanMutate(actorToken string, kind models.OperationKind, date models.Date) bool {
	return f(actorToken, kind, date)
}

// AuthService is the server-side account and token service behind the auth
// endpoints.
type AuthService interface {
	// RegisterUser creates an account; the plaintext password is hashed
	// before it reaches storage.
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	// Login verifies credentials and returns the stored account, or
	// [ErrWrongPassword].
	Login(ctx context.Context, user models.User) (models.User, error)
	// CreateToken issues a signed bearer token for user.
	CreateToken(ctx context.Context, user models.User) (string, error)
	// ParseToken verifies tokenString and returns its claims.
	ParseToken(ctx context.Context, tokenString string) (*AccessClaims, error)
}

// RecordService is the dual-path CRUD surface shared by the expense, meal
// and member façades.
type RecordService interface {
	Create(ctx context.Context, payload models.Payload) (string, error)
	Update(ctx context.Context, id string, payload models.Payload) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.CachedRecord, error)
	List(ctx context.Context) ([]models.CachedRecord, error)
	// Refresh mirrors the remote collection into the local cache. Offline
	// it returns [ErrOffline] and the cache stays as it was.
	Refresh(ctx context.Context) error
}
