package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/abira1/nijhum-deep/internal/adapter"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/mock"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/models"
)

func newTestRecordService(t *testing.T, online bool, perms PermissionProvider) (RecordService, *mock.MockLocalStore, *mock.MockRemoteGateway, *stubCoordinator) {
	t.Helper()

	ctrl := gomock.NewController(t)
	local := mock.NewMockLocalStore(ctrl)
	gateway := mock.NewMockRemoteGateway(ctrl)
	coordinator := &stubCoordinator{online: online}

	if perms == nil {
		perms = AllowAll
	}

	clockSvc, _ := newFixedClock(time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC))

	svc := NewExpenseService(RecordServiceDeps{
		Local:       local,
		Gateway:     gateway,
		Coordinator: coordinator,
		Permissions: perms,
		Clock:       clockSvc,
		Logger:      logger.NewLogger("test"),
	})
	return svc, local, gateway, coordinator
}

func TestCreate_OnlineMirrorsCleanCopy(t *testing.T) {
	svc, local, gateway, _ := newTestRecordService(t, true, nil)
	ctx := context.Background()
	payload := models.Payload{"date": "2026-02-14", "memberId": "m-1", "amount": 120.0}

	gateway.EXPECT().PushNew(ctx, models.CollectionExpenses, payload).Return("srv-1", nil)
	local.EXPECT().PutRecord(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.CachedRecord) error {
			assert.Equal(t, "srv-1", rec.RecordID)
			assert.Equal(t, models.CollectionExpenses, rec.CollectionKey)
			assert.False(t, rec.Dirty)
			assert.False(t, rec.LastSyncedAt.IsZero())
			return nil
		})

	id, err := svc.Create(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "srv-1", id)
}

func TestCreate_OfflineWritesDirtyAndQueues(t *testing.T) {
	svc, local, _, _ := newTestRecordService(t, false, nil)
	ctx := context.Background()
	payload := models.Payload{"date": "2026-02-14", "memberId": "m-1"}

	var mintedID string
	local.EXPECT().PutRecord(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.CachedRecord) error {
			mintedID = rec.RecordID
			assert.True(t, rec.Dirty)
			assert.True(t, rec.LastSyncedAt.IsZero())
			return nil
		})
	local.EXPECT().Enqueue(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, op models.PendingOperation) (string, error) {
			assert.Equal(t, models.OperationCreate, op.Kind)
			// the queued create targets the same key as the cache entry,
			// so the drained replay lands on the minted id
			assert.Equal(t, models.CollectionExpenses+"/"+mintedID, op.CollectionKey)
			return "op-1", nil
		})

	id, err := svc.Create(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, mintedID, id)

	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)
}

func TestCreate_NetworkFailureDegradesToOfflinePath(t *testing.T) {
	svc, local, gateway, coordinator := newTestRecordService(t, true, nil)
	ctx := context.Background()
	payload := models.Payload{"date": "2026-02-14"}

	gateway.EXPECT().PushNew(ctx, models.CollectionExpenses, payload).
		Return("", fmt.Errorf("%w: connection refused", adapter.ErrNetwork))
	local.EXPECT().PutRecord(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.CachedRecord) error {
			assert.True(t, rec.Dirty)
			return nil
		})
	local.EXPECT().Enqueue(ctx, gomock.Any()).Return("op-1", nil)

	id, err := svc.Create(ctx, payload)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.False(t, coordinator.Online())
}

func TestCreate_RemoteRejectionSurfaces(t *testing.T) {
	svc, _, gateway, _ := newTestRecordService(t, true, nil)
	ctx := context.Background()
	payload := models.Payload{"date": "2026-02-14"}

	// nothing cached, nothing queued
	gateway.EXPECT().PushNew(ctx, models.CollectionExpenses, payload).
		Return("", fmt.Errorf("%w: invalid payload", adapter.ErrBadRequest))

	_, err := svc.Create(ctx, payload)
	require.ErrorIs(t, err, adapter.ErrBadRequest)
}

func TestCreate_PermissionDeniedTouchesNothing(t *testing.T) {
	denyPast := PermissionFunc(func(_ string, _ models.OperationKind, date models.Date) bool {
		return !date.Before(models.MustParseDate("2026-02-14"))
	})
	svc, _, _, _ := newTestRecordService(t, true, denyPast)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Payload{"date": "2026-02-10"})
	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.True(t, strings.Contains(err.Error(), "2026-02-10"))
}

func TestUpdate_OnlineWritesThrough(t *testing.T) {
	svc, local, gateway, _ := newTestRecordService(t, true, nil)
	ctx := context.Background()
	payload := models.Payload{"date": "2026-02-14", "amount": 200.0}

	gateway.EXPECT().SetAt(ctx, "expenses/a", payload).Return(nil)
	local.EXPECT().PutRecord(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.CachedRecord) error {
			assert.Equal(t, "a", rec.RecordID)
			assert.False(t, rec.Dirty)
			return nil
		})

	require.NoError(t, svc.Update(ctx, "a", payload))
}

func TestUpdate_OfflineQueuesAtRecordKey(t *testing.T) {
	svc, local, _, _ := newTestRecordService(t, false, nil)
	ctx := context.Background()
	payload := models.Payload{"date": "2026-02-14", "amount": 200.0}

	local.EXPECT().PutRecord(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.CachedRecord) error {
			assert.True(t, rec.Dirty)
			return nil
		})
	local.EXPECT().Enqueue(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, op models.PendingOperation) (string, error) {
			assert.Equal(t, models.OperationUpdate, op.Kind)
			assert.Equal(t, "expenses/a", op.CollectionKey)
			return "op-1", nil
		})

	require.NoError(t, svc.Update(ctx, "a", payload))
}

func TestUpdate_DateFallsBackToCachedRecord(t *testing.T) {
	denyPast := PermissionFunc(func(_ string, _ models.OperationKind, date models.Date) bool {
		return !date.Before(models.MustParseDate("2026-02-14"))
	})
	svc, local, _, _ := newTestRecordService(t, false, denyPast)
	ctx := context.Background()

	// payload carries no date; the cached record pins the mutation to a
	// sealed day
	local.EXPECT().GetRecord(ctx, models.CollectionExpenses, "a").
		Return(models.CachedRecord{
			CollectionKey: models.CollectionExpenses,
			RecordID:      "a",
			Payload:       models.Payload{"date": "2026-02-10"},
		}, nil)

	err := svc.Update(ctx, "a", models.Payload{"amount": 99.0})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDelete_OnlineRemovesBothCopies(t *testing.T) {
	svc, local, gateway, _ := newTestRecordService(t, true, nil)
	ctx := context.Background()

	local.EXPECT().GetRecord(ctx, models.CollectionExpenses, "a").
		Return(models.CachedRecord{}, store.ErrRecordNotFound)
	gateway.EXPECT().RemoveAt(ctx, "expenses/a").Return(nil)
	local.EXPECT().DeleteRecord(ctx, models.CollectionExpenses, "a").Return(nil)

	require.NoError(t, svc.Delete(ctx, "a"))
}

func TestDelete_OfflineDropsCacheAndQueues(t *testing.T) {
	svc, local, _, _ := newTestRecordService(t, false, nil)
	ctx := context.Background()

	local.EXPECT().GetRecord(ctx, models.CollectionExpenses, "a").
		Return(models.CachedRecord{}, store.ErrRecordNotFound)
	local.EXPECT().DeleteRecord(ctx, models.CollectionExpenses, "a").
		Return(store.ErrRecordNotFound) // never cached locally, still fine
	local.EXPECT().Enqueue(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, op models.PendingOperation) (string, error) {
			assert.Equal(t, models.OperationDelete, op.Kind)
			assert.Equal(t, "expenses/a", op.CollectionKey)
			assert.Nil(t, op.Payload)
			return "op-1", nil
		})

	require.NoError(t, svc.Delete(ctx, "a"))
}

func TestGetAndList_ServeFromCache(t *testing.T) {
	svc, local, _, _ := newTestRecordService(t, false, nil)
	ctx := context.Background()

	cached := models.CachedRecord{CollectionKey: models.CollectionExpenses, RecordID: "a"}
	local.EXPECT().GetRecord(ctx, models.CollectionExpenses, "a").Return(cached, nil)
	local.EXPECT().GetRecords(ctx, models.CollectionExpenses).Return([]models.CachedRecord{cached}, nil)

	got, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.RecordID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRefresh_OfflineFailsFast(t *testing.T) {
	svc, _, _, _ := newTestRecordService(t, false, nil)

	err := svc.Refresh(context.Background())
	require.ErrorIs(t, err, ErrOffline)
}

func TestRefresh_SkipsDirtyRecords(t *testing.T) {
	svc, local, gateway, _ := newTestRecordService(t, true, nil)
	ctx := context.Background()

	gateway.EXPECT().ReadAll(ctx, models.CollectionExpenses).
		Return(map[string]models.Payload{
			"clean": {"date": "2026-02-14", "amount": 10.0},
			"dirty": {"date": "2026-02-14", "amount": 20.0},
		}, nil)

	local.EXPECT().GetRecord(ctx, models.CollectionExpenses, "clean").
		Return(models.CachedRecord{}, store.ErrRecordNotFound)
	local.EXPECT().GetRecord(ctx, models.CollectionExpenses, "dirty").
		Return(models.CachedRecord{RecordID: "dirty", Dirty: true}, nil)

	local.EXPECT().PutRecord(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.CachedRecord) error {
			assert.Equal(t, "clean", rec.RecordID)
			assert.False(t, rec.Dirty)
			return nil
		})

	require.NoError(t, svc.Refresh(ctx))
}

func TestRefresh_NetworkFailureFlipsOffline(t *testing.T) {
	svc, _, gateway, coordinator := newTestRecordService(t, true, nil)
	ctx := context.Background()

	gateway.EXPECT().ReadAll(ctx, models.CollectionExpenses).
		Return(nil, fmt.Errorf("%w: connection reset", adapter.ErrNetwork))

	err := svc.Refresh(ctx)
	require.ErrorIs(t, err, ErrOffline)
	assert.False(t, coordinator.Online())
}
