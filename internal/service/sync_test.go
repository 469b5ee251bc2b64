package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/abira1/nijhum-deep/internal/adapter"
	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/mock"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/models"
)

func newTestCoordinator(t *testing.T) (*syncCoordinator, *mock.MockLocalStore, *mock.MockRemoteGateway) {
	t.Helper()

	ctrl := gomock.NewController(t)
	local := mock.NewMockLocalStore(ctrl)
	gateway := mock.NewMockRemoteGateway(ctrl)

	cfg := config.ClientSync{
		DrainInterval:     time.Hour,
		ProbeInterval:     time.Hour,
		MaxRetries:        3,
		ReconnectDebounce: time.Millisecond,
	}

	c := NewSyncCoordinator(local, gateway, cfg, logger.NewLogger("test")).(*syncCoordinator)
	return c, local, gateway
}

// expectFinishPass covers the metadata writes every drain pass ends with.
func expectFinishPass(local *mock.MockLocalStore) {
	local.EXPECT().SetMeta(gomock.Any(), store.MetaLastSyncTime, gomock.Any()).Return(nil)
	local.EXPECT().SetMeta(gomock.Any(), store.MetaSyncErrors, gomock.Any()).Return(nil)
}

func TestDrain_AppliesQueueInOrder(t *testing.T) {
	c, local, gateway := newTestCoordinator(t)
	c.online.Store(true)
	ctx := context.Background()

	ops := []models.PendingOperation{
		{OperationID: "op-1", Kind: models.OperationCreate, CollectionKey: "expenses/a", Payload: models.Payload{"n": 1.0}, MaxRetries: 3},
		{OperationID: "op-2", Kind: models.OperationUpdate, CollectionKey: "expenses/a", Payload: models.Payload{"n": 2.0}, MaxRetries: 3},
		{OperationID: "op-3", Kind: models.OperationDelete, CollectionKey: "meals/b", MaxRetries: 3},
	}

	local.EXPECT().ListPending(ctx).Return(ops, nil)

	gomock.InOrder(
		gateway.EXPECT().PushNew(ctx, "expenses/a", ops[0].Payload).Return("a", nil),
		gateway.EXPECT().SetAt(ctx, "expenses/a", ops[1].Payload).Return(nil),
		gateway.EXPECT().RemoveAt(ctx, "meals/b").Return(nil),
	)

	local.EXPECT().PutRecord(ctx, gomock.Any()).Return(nil).Times(2)
	local.EXPECT().DeleteRecord(ctx, "meals", "b").Return(nil)
	local.EXPECT().RemovePending(ctx, "op-1").Return(nil)
	local.EXPECT().RemovePending(ctx, "op-2").Return(nil)
	local.EXPECT().RemovePending(ctx, "op-3").Return(nil)
	expectFinishPass(local)

	require.NoError(t, c.Drain(ctx))
}

func TestDrain_FailedOperationDoesNotBlockQueue(t *testing.T) {
	c, local, gateway := newTestCoordinator(t)
	c.online.Store(true)
	ctx := context.Background()

	ops := []models.PendingOperation{
		{OperationID: "op-bad", Kind: models.OperationUpdate, CollectionKey: "expenses/a", Payload: models.Payload{}, RetryCount: 0, MaxRetries: 3},
		{OperationID: "op-good", Kind: models.OperationUpdate, CollectionKey: "expenses/b", Payload: models.Payload{}, RetryCount: 0, MaxRetries: 3},
	}

	local.EXPECT().ListPending(ctx).Return(ops, nil)

	// first op rejected by the server, second still applied
	gateway.EXPECT().SetAt(ctx, "expenses/a", gomock.Any()).Return(fmt.Errorf("%w: payload rejected", adapter.ErrBadRequest))
	local.EXPECT().BumpRetry(ctx, "op-bad").Return(nil)

	gateway.EXPECT().SetAt(ctx, "expenses/b", gomock.Any()).Return(nil)
	local.EXPECT().PutRecord(ctx, gomock.Any()).Return(nil)
	local.EXPECT().RemovePending(ctx, "op-good").Return(nil)
	expectFinishPass(local)

	require.NoError(t, c.Drain(ctx))

	// not exhausted yet: no sync error recorded
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	assert.Empty(t, c.lastErrors)
}

func TestDrain_ExhaustedOperationIsDroppedWithOneError(t *testing.T) {
	c, local, gateway := newTestCoordinator(t)
	c.online.Store(true)
	ctx := context.Background()

	// third and final attempt
	ops := []models.PendingOperation{
		{OperationID: "op-bad", Kind: models.OperationCreate, CollectionKey: "expenses/a", Payload: models.Payload{}, RetryCount: 2, MaxRetries: 3},
	}

	local.EXPECT().ListPending(ctx).Return(ops, nil)
	gateway.EXPECT().PushNew(ctx, "expenses/a", gomock.Any()).Return("", fmt.Errorf("%w: payload rejected", adapter.ErrBadRequest))
	local.EXPECT().BumpRetry(ctx, "op-bad").Return(nil)
	local.EXPECT().RemovePending(ctx, "op-bad").Return(nil)
	expectFinishPass(local)

	var errorEvents []models.SyncEvent
	c.OnSyncEvent(func(e models.SyncEvent) {
		if e.Type == models.SyncError {
			errorEvents = append(errorEvents, e)
		}
	})

	require.NoError(t, c.Drain(ctx))

	require.Len(t, errorEvents, 1)
	assert.Contains(t, errorEvents[0].Message, "expenses/a")

	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	require.Len(t, c.lastErrors, 1)
	assert.Contains(t, c.lastErrors[0], ErrSyncExhausted.Error())
}

func TestDrain_NetworkFailureGoesOfflineAndKeepsQueue(t *testing.T) {
	c, local, gateway := newTestCoordinator(t)
	c.online.Store(true)
	ctx := context.Background()

	ops := []models.PendingOperation{
		{OperationID: "op-1", Kind: models.OperationUpdate, CollectionKey: "expenses/a", Payload: models.Payload{}, MaxRetries: 3},
		{OperationID: "op-2", Kind: models.OperationUpdate, CollectionKey: "expenses/b", Payload: models.Payload{}, MaxRetries: 3},
	}

	local.EXPECT().ListPending(ctx).Return(ops, nil)
	gateway.EXPECT().SetAt(ctx, "expenses/a", gomock.Any()).Return(fmt.Errorf("%w: connection refused", adapter.ErrNetwork))
	// no BumpRetry, no RemovePending: both ops stay queued for reconnect
	expectFinishPass(local)

	require.NoError(t, c.Drain(ctx))
	assert.False(t, c.Online())
}

func TestDrain_SingleFlight(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	c.online.Store(true)

	// a pass is already running; this request must be a silent no-op
	c.syncing.Store(true)
	require.NoError(t, c.Drain(context.Background()))
}

func TestDrain_OfflineReturnsErrOffline(t *testing.T) {
	c, _, _ := newTestCoordinator(t)

	err := c.Drain(context.Background())
	require.ErrorIs(t, err, ErrOffline)
}

func TestForceSync_OfflineFailsFast(t *testing.T) {
	c, _, _ := newTestCoordinator(t)

	err := c.ForceSync(context.Background())
	require.ErrorIs(t, err, ErrOffline)
}

func TestSetOnline_EmitsConnectionChangeOnce(t *testing.T) {
	c, _, _ := newTestCoordinator(t)

	var events []models.SyncEvent
	unsubscribe := c.OnSyncEvent(func(e models.SyncEvent) {
		if e.Type == models.ConnectionChange {
			events = append(events, e)
		}
	})
	defer unsubscribe()

	c.SetOnline(false) // already offline: no event
	require.Empty(t, events)

	c.SetOnline(true)
	require.Len(t, events, 1)
	assert.True(t, events[0].Online)

	c.SetOnline(true) // no flip, no event
	require.Len(t, events, 1)

	c.SetOnline(false)
	require.Len(t, events, 2)
	assert.False(t, events[1].Online)
}

func TestStatus_ReflectsQueueAndMeta(t *testing.T) {
	c, local, _ := newTestCoordinator(t)
	c.online.Store(true)
	ctx := context.Background()

	local.EXPECT().PendingCount(ctx).Return(4, nil)

	at := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	c.statusMu.Lock()
	c.lastSyncTime = at
	c.lastErrors = []string{"operation exhausted retries: CREATE expenses/a: boom"}
	c.statusMu.Unlock()

	status := c.Status(ctx)
	assert.True(t, status.Online)
	assert.False(t, status.Syncing)
	assert.Equal(t, 4, status.PendingCount)
	assert.Equal(t, at, status.LastSyncTime)
	assert.Len(t, status.Errors, 1)
}

func TestRestoreMeta_LoadsPersistedState(t *testing.T) {
	c, local, _ := newTestCoordinator(t)
	ctx := context.Background()

	at := time.Date(2026, 2, 13, 23, 59, 0, 0, time.UTC)
	local.EXPECT().GetMeta(ctx, store.MetaLastSyncTime).Return(at.Format(time.RFC3339Nano), nil)
	local.EXPECT().GetMeta(ctx, store.MetaSyncErrors).Return(`["stale error"]`, nil)

	c.restoreMeta(ctx)

	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	assert.True(t, c.lastSyncTime.Equal(at))
	assert.Equal(t, []string{"stale error"}, c.lastErrors)
}

func TestRestoreMeta_MissingMetaIsFine(t *testing.T) {
	c, local, _ := newTestCoordinator(t)
	ctx := context.Background()

	local.EXPECT().GetMeta(ctx, store.MetaLastSyncTime).Return("", store.ErrMetaNotFound)
	local.EXPECT().GetMeta(ctx, store.MetaSyncErrors).Return("", store.ErrMetaNotFound)

	c.restoreMeta(ctx)

	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	assert.True(t, c.lastSyncTime.IsZero())
	assert.Empty(t, c.lastErrors)
}

func TestDrain_UnknownKindExhaustsEventually(t *testing.T) {
	c, local, _ := newTestCoordinator(t)
	c.online.Store(true)
	ctx := context.Background()

	ops := []models.PendingOperation{
		{OperationID: "op-odd", Kind: "MERGE", CollectionKey: "expenses/a", RetryCount: 2, MaxRetries: 3},
	}

	local.EXPECT().ListPending(ctx).Return(ops, nil)
	local.EXPECT().BumpRetry(ctx, "op-odd").Return(nil)
	local.EXPECT().RemovePending(ctx, "op-odd").Return(nil)
	expectFinishPass(local)

	require.NoError(t, c.Drain(ctx))
}

func TestDrain_QueuedSealConflictConverges(t *testing.T) {
	c, local, gateway := newTestCoordinator(t)
	c.online.Store(true)
	ctx := context.Background()

	// another device sealed the date while this seal sat in the queue
	ops := []models.PendingOperation{
		{OperationID: "op-seal", Kind: models.OperationCreate, CollectionKey: "finalizations/2026-02-13", Payload: models.Payload{"sealed": true}, MaxRetries: 3},
	}

	local.EXPECT().ListPending(ctx).Return(ops, nil)
	gateway.EXPECT().PushNew(ctx, "finalizations/2026-02-13", gomock.Any()).
		Return("", fmt.Errorf("%w: day already sealed", adapter.ErrConflict))
	local.EXPECT().RemovePending(ctx, "op-seal").Return(nil)
	expectFinishPass(local)

	require.NoError(t, c.Drain(ctx))

	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	assert.Empty(t, c.lastErrors)
}

func TestDrain_ListPendingFailureSurfaces(t *testing.T) {
	c, local, _ := newTestCoordinator(t)
	c.online.Store(true)
	ctx := context.Background()

	local.EXPECT().ListPending(ctx).Return(nil, errors.New("database is locked"))

	err := c.Drain(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list pending operations")
}

func TestDrain_RecordedErrorsSurviveLaterPasses(t *testing.T) {
	c, local, gateway := newTestCoordinator(t)
	c.online.Store(true)
	ctx := context.Background()

	ops := []models.PendingOperation{
		{OperationID: "op-bad", Kind: models.OperationCreate, CollectionKey: "expenses/a", Payload: models.Payload{}, RetryCount: 2, MaxRetries: 3},
	}

	local.EXPECT().ListPending(ctx).Return(ops, nil)
	gateway.EXPECT().PushNew(ctx, "expenses/a", gomock.Any()).Return("", fmt.Errorf("%w: payload rejected", adapter.ErrBadRequest))
	local.EXPECT().BumpRetry(ctx, "op-bad").Return(nil)
	local.EXPECT().RemovePending(ctx, "op-bad").Return(nil)
	expectFinishPass(local)

	require.NoError(t, c.Drain(ctx))

	// the next tick drains an empty queue; the recorded error must survive
	// it, both in memory and in the persisted metadata
	var persisted string
	local.EXPECT().ListPending(ctx).Return(nil, nil)
	local.EXPECT().SetMeta(gomock.Any(), store.MetaLastSyncTime, gomock.Any()).Return(nil)
	local.EXPECT().SetMeta(gomock.Any(), store.MetaSyncErrors, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, value string) error {
			persisted = value
			return nil
		})

	require.NoError(t, c.Drain(ctx))

	c.statusMu.Lock()
	recorded := append([]string{}, c.lastErrors...)
	c.statusMu.Unlock()

	require.Len(t, recorded, 1)
	assert.Contains(t, recorded[0], ErrSyncExhausted.Error())
	assert.Contains(t, persisted, ErrSyncExhausted.Error())
}

func TestClearSyncErrors(t *testing.T) {
	c, local, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.lastErrors = []string{"operation exhausted retries: CREATE expenses/a: boom"}

	local.EXPECT().SetMeta(ctx, store.MetaSyncErrors, "[]").Return(nil)
	require.NoError(t, c.ClearSyncErrors(ctx))

	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	assert.Empty(t, c.lastErrors)
}

func TestFinishPass_RecordedErrorsAreBounded(t *testing.T) {
	c, local, _ := newTestCoordinator(t)
	ctx := context.Background()

	for i := 0; i < maxSyncErrors; i++ {
		c.lastErrors = append(c.lastErrors, fmt.Sprintf("old entry %d", i))
	}

	expectFinishPass(local)
	c.finishPass(ctx, []string{"newest entry"})

	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	require.Len(t, c.lastErrors, maxSyncErrors)
	assert.Equal(t, "newest entry", c.lastErrors[maxSyncErrors-1])
	assert.Equal(t, "old entry 1", c.lastErrors[0])
}
