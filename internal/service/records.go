package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abira1/nijhum-deep/internal/adapter"
	"github.com/abira1/nijhum-deep/internal/clock"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/internal/utils"
	"github.com/abira1/nijhum-deep/models"
)

// recordService is the shared dual-path implementation behind the expense,
// meal and member façades. Every mutation takes the same route: permission
// check first, then either a remote write mirrored into a clean cache entry
// (online) or a dirty cache entry plus a queued operation (offline). A
// transport failure mid-write degrades to the offline path instead of
// surfacing an error, so callers observe identical behavior either way.
type recordService struct {
	collection  string
	local       store.LocalStore
	gateway     adapter.RemoteGateway
	coordinator SyncCoordinator
	perms       PermissionProvider
	actor       func() string
	clock       *clock.Service
	ids         *utils.UUIDGenerator
	logger      *logger.Logger
}

// NewExpenseService constructs the [RecordService] for the expenses
// collection.
func NewExpenseService(deps RecordServiceDeps) RecordService {
	return newRecordService(models.CollectionExpenses, deps)
}

// NewMealService constructs the [RecordService] for the meals collection.
func NewMealService(deps RecordServiceDeps) RecordService {
	return newRecordService(models.CollectionMeals, deps)
}

// NewMemberService constructs the [RecordService] for the members
// collection. Members carry no date, so their mutations are always judged
// against today.
func NewMemberService(deps RecordServiceDeps) RecordService {
	return newRecordService(models.CollectionMembers, deps)
}

// RecordServiceDeps bundles the shared dependencies of the record façades.
// Actor supplies the caller's bearer token for permission checks; a nil
// Actor means anonymous.
type RecordServiceDeps struct {
	Local       store.LocalStore
	Gateway     adapter.RemoteGateway
	Coordinator SyncCoordinator
	Permissions PermissionProvider
	Actor       func() string
	Clock       *clock.Service
	Logger      *logger.Logger
}

func newRecordService(collection string, deps RecordServiceDeps) *recordService {
	actor := deps.Actor
	if actor == nil {
		actor = func() string { return "" }
	}
	return &recordService{
		collection:  collection,
		local:       deps.Local,
		gateway:     deps.Gateway,
		coordinator: deps.Coordinator,
		perms:       deps.Permissions,
		actor:       actor,
		clock:       deps.Clock,
		ids:         utils.NewUUIDGenerator(),
		logger:      deps.Logger,
	}
}

// Create implements [RecordService]. The record id is minted locally so the
// offline queue replays the create at the same key the cache already uses.
func (s *recordService) Create(ctx context.Context, payload models.Payload) (string, error) {
	date := s.mutationDate(payload)
	if !s.perms.CanMutate(s.actor(), models.OperationCreate, date) {
		return "", fmt.Errorf("%w: create in %s at %s", ErrPermissionDenied, s.collection, date)
	}

	if s.coordinator.Online() {
		id, err := s.gateway.PushNew(ctx, s.collection, payload)
		if err == nil {
			return id, s.mirrorClean(ctx, id, payload)
		}
		if !errors.Is(err, adapter.ErrNetwork) {
			return "", fmt.Errorf("create in %s: %w", s.collection, err)
		}
		s.coordinator.SetOnline(false)
	}

	id := s.ids.Generate()
	if err := s.writeDirty(ctx, id, payload); err != nil {
		return "", err
	}
	if err := s.enqueue(ctx, models.OperationCreate, s.collection+"/"+id, payload); err != nil {
		return "", err
	}

	return id, nil
}

// Update implements [RecordService].
func (s *recordService) Update(ctx context.Context, id string, payload models.Payload) error {
	date := s.mutationDateFor(ctx, id, payload)
	if !s.perms.CanMutate(s.actor(), models.OperationUpdate, date) {
		return fmt.Errorf("%w: update %s/%s at %s", ErrPermissionDenied, s.collection, id, date)
	}

	path := s.collection + "/" + id

	if s.coordinator.Online() {
		err := s.gateway.SetAt(ctx, path, payload)
		if err == nil {
			return s.mirrorClean(ctx, id, payload)
		}
		if !errors.Is(err, adapter.ErrNetwork) {
			return fmt.Errorf("update %s: %w", path, err)
		}
		s.coordinator.SetOnline(false)
	}

	if err := s.writeDirty(ctx, id, payload); err != nil {
		return err
	}
	return s.enqueue(ctx, models.OperationUpdate, path, payload)
}

// Delete implements [RecordService].
func (s *recordService) Delete(ctx context.Context, id string) error {
	date := s.mutationDateFor(ctx, id, nil)
	if !s.perms.CanMutate(s.actor(), models.OperationDelete, date) {
		return fmt.Errorf("%w: delete %s/%s at %s", ErrPermissionDenied, s.collection, id, date)
	}

	path := s.collection + "/" + id

	if s.coordinator.Online() {
		err := s.gateway.RemoveAt(ctx, path)
		if err == nil {
			return s.dropLocal(ctx, id)
		}
		if !errors.Is(err, adapter.ErrNetwork) {
			return fmt.Errorf("delete %s: %w", path, err)
		}
		s.coordinator.SetOnline(false)
	}

	if err := s.dropLocal(ctx, id); err != nil {
		return err
	}
	return s.enqueue(ctx, models.OperationDelete, path, nil)
}

// Get implements [RecordService]. Reads are served from the cache; the
// cache is refreshed by successful remote reads and writes.
func (s *recordService) Get(ctx context.Context, id string) (models.CachedRecord, error) {
	return s.local.GetRecord(ctx, s.collection, id)
}

// List implements [RecordService].
func (s *recordService) List(ctx context.Context) ([]models.CachedRecord, error) {
	return s.local.GetRecords(ctx, s.collection)
}

// Refresh implements [RecordService]. Records with unsynced local changes
// are kept as they are; their queued operations will reconcile them.
func (s *recordService) Refresh(ctx context.Context) error {
	if !s.coordinator.Online() {
		return ErrOffline
	}

	remote, err := s.gateway.ReadAll(ctx, s.collection)
	if err != nil {
		if errors.Is(err, adapter.ErrNetwork) {
			s.coordinator.SetOnline(false)
			return fmt.Errorf("refresh %s: %w", s.collection, ErrOffline)
		}
		return fmt.Errorf("refresh %s: %w", s.collection, err)
	}

	now := time.Now()
	for id, payload := range remote {
		if existing, getErr := s.local.GetRecord(ctx, s.collection, id); getErr == nil && existing.Dirty {
			continue
		}
		rec := models.CachedRecord{
			CollectionKey: s.collection,
			RecordID:      id,
			Payload:       payload,
			CachedAt:      now,
			LastSyncedAt:  now,
			Dirty:         false,
		}
		if putErr := s.local.PutRecord(ctx, rec); putErr != nil {
			return fmt.Errorf("refresh %s/%s: %w", s.collection, id, putErr)
		}
	}

	return nil
}

// mutationDate resolves the calendar date a create is addressed at.
func (s *recordService) mutationDate(payload models.Payload) models.Date {
	if date, ok := payload.Date(); ok {
		return date
	}
	return s.clock.Today()
}

// mutationDateFor resolves the date of a mutation on an existing record,
// preferring the new payload, then the cached payload, then today.
func (s *recordService) mutationDateFor(ctx context.Context, id string, payload models.Payload) models.Date {
	if payload != nil {
		if date, ok := payload.Date(); ok {
			return date
		}
	}
	if cached, err := s.local.GetRecord(ctx, s.collection, id); err == nil {
		if date, ok := cached.Payload.Date(); ok {
			return date
		}
	}
	return s.clock.Today()
}

func (s *recordService) mirrorClean(ctx context.Context, id string, payload models.Payload) error {
	now := time.Now()
	return s.local.PutRecord(ctx, models.CachedRecord{
		CollectionKey: s.collection,
		RecordID:      id,
		Payload:       payload,
		CachedAt:      now,
		LastSyncedAt:  now,
		Dirty:         false,
	})
}

func (s *recordService) writeDirty(ctx context.Context, id string, payload models.Payload) error {
	return s.local.PutRecord(ctx, models.CachedRecord{
		CollectionKey: s.collection,
		RecordID:      id,
		Payload:       payload,
		CachedAt:      time.Now(),
		Dirty:         true,
	})
}

func (s *recordService) dropLocal(ctx context.Context, id string) error {
	if err := s.local.DeleteRecord(ctx, s.collection, id); err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *recordService) enqueue(ctx context.Context, kind models.OperationKind, path string, payload models.Payload) error {
	opID, err := s.local.Enqueue(ctx, models.PendingOperation{
		Kind:          kind,
		CollectionKey: path,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("enqueue %s %s: %w", kind, path, err)
	}

	s.logger.Debug().
		Str("func", "recordService.enqueue").
		Str("operation_id", opID).
		Str("kind", string(kind)).
		Str("path", path).
		Msg("offline mutation queued")

	return nil
}
