package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abira1/nijhum-deep/internal/adapter"
	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/models"
)

// syncCoordinator implements [SyncCoordinator]. Connectivity is inferred
// from a periodic gateway Ping; the drain loop pushes the pending queue in
// FIFO order while online. A single atomic guard keeps concurrent drain
// triggers (ticker, reconnect, ForceSync, background wake) from overlapping.
type syncCoordinator struct {
	local   store.LocalStore
	gateway adapter.RemoteGateway
	cfg     config.ClientSync
	logger  *logger.Logger

	online  atomic.Bool
	syncing atomic.Bool

	bus *eventBus[models.SyncEvent]

	mu     sync.Mutex
	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	statusMu     sync.Mutex
	lastSyncTime time.Time
	lastErrors   []string
}

// NewSyncCoordinator constructs a [SyncCoordinator]. The coordinator starts
// offline until the first successful probe; previously persisted sync
// metadata is restored when Start runs.
func NewSyncCoordinator(local store.LocalStore, gateway adapter.RemoteGateway, cfg config.ClientSync, logger *logger.Logger) SyncCoordinator {
	return &syncCoordinator{
		local:   local,
		gateway: gateway,
		cfg:     cfg,
		logger:  logger,
		bus:     newEventBus[models.SyncEvent](logger),
	}
}

// Start implements [SyncCoordinator]. It restores persisted sync metadata,
// probes connectivity once right away and then launches the probe and drain
// loops.
func (c *syncCoordinator) Start(ctx context.Context) {
	c.Stop()

	c.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	c.runCtx = runCtx
	c.cancel = cancel
	c.wg.Add(2)
	c.mu.Unlock()

	c.restoreMeta(runCtx)
	c.probe(runCtx)

	go func() {
		defer c.wg.Done()
		t := time.NewTicker(c.cfg.ProbeInterval)
		defer t.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-t.C:
				c.probe(runCtx)
			}
		}
	}()

	go func() {
		defer c.wg.Done()
		t := time.NewTicker(c.cfg.DrainInterval)
		defer t.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-t.C:
				if c.Online() {
					_ = c.Drain(runCtx)
				}
			}
		}
	}()

	c.logger.Info().
		Str("func", "syncCoordinator.Start").
		Dur("probe_interval", c.cfg.ProbeInterval).
		Dur("drain_interval", c.cfg.DrainInterval).
		Msg("sync coordinator started")
}

// Stop implements [SyncCoordinator].
func (c *syncCoordinator) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.runCtx = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

func (c *syncCoordinator) probe(ctx context.Context) {
	err := c.gateway.Ping(ctx)
	c.SetOnline(err == nil)
}

// SetOnline implements [SyncCoordinator].
func (c *syncCoordinator) SetOnline(online bool) {
	previous := c.online.Swap(online)
	if previous == online {
		return
	}

	c.logger.Info().
		Str("func", "syncCoordinator.SetOnline").
		Bool("online", online).
		Msg("connectivity changed")

	c.bus.publish(models.SyncEvent{
		Type:   models.ConnectionChange,
		Online: online,
		At:     time.Now(),
	})

	if !online {
		return
	}

	// reconnect: push whatever queued up while we were away
	c.mu.Lock()
	runCtx := c.runCtx
	c.mu.Unlock()
	if runCtx == nil {
		return
	}

	go func() { _ = c.Drain(runCtx) }()
}

// Online implements [SyncCoordinator].
func (c *syncCoordinator) Online() bool {
	return c.online.Load()
}

// ForceSync implements [SyncCoordinator].
func (c *syncCoordinator) ForceSync(ctx context.Context) error {
	if !c.Online() {
		return ErrOffline
	}
	return c.Drain(ctx)
}

// Drain implements [SyncCoordinator]. The pass snapshots the queue head to
// tail and dispatches sequentially: a failed operation is retried up to its
// budget and then dropped with a recorded error, so one poisoned operation
// can never block the ones behind it. A transport-level failure flips the
// coordinator offline and leaves the remaining operations queued.
func (c *syncCoordinator) Drain(ctx context.Context) error {
	if !c.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer c.syncing.Store(false)

	if !c.Online() {
		return ErrOffline
	}

	log := logger.FromContext(ctx)

	ops, err := c.local.ListPending(ctx)
	if err != nil {
		log.Err(err).Str("func", "syncCoordinator.Drain").Msg("failed to list pending operations")
		return fmt.Errorf("list pending operations: %w", err)
	}

	c.bus.publish(models.SyncEvent{Type: models.SyncStart, Online: true, At: time.Now()})

	var drainErrors []string

	for _, op := range ops {
		dispatchErr := c.dispatch(ctx, op)
		if dispatchErr == nil {
			if removeErr := c.local.RemovePending(ctx, op.OperationID); removeErr != nil && !errors.Is(removeErr, store.ErrOperationNotFound) {
				log.Err(removeErr).
					Str("func", "syncCoordinator.Drain").
					Str("operation_id", op.OperationID).
					Msg("failed to remove applied operation")
			}
			continue
		}

		if errors.Is(dispatchErr, adapter.ErrNetwork) {
			// connectivity died mid-pass; everything still queued will be
			// retried after reconnect
			log.Warn().
				Str("func", "syncCoordinator.Drain").
				Str("operation_id", op.OperationID).
				Msg("network failure during drain, going offline")
			c.SetOnline(false)
			break
		}

		log.Err(dispatchErr).
			Str("func", "syncCoordinator.Drain").
			Str("operation_id", op.OperationID).
			Str("kind", string(op.Kind)).
			Str("collection", op.CollectionKey).
			Msg("failed to apply pending operation")

		if bumpErr := c.local.BumpRetry(ctx, op.OperationID); bumpErr != nil {
			log.Err(bumpErr).
				Str("func", "syncCoordinator.Drain").
				Str("operation_id", op.OperationID).
				Msg("failed to bump retry count")
			continue
		}

		if op.RetryCount+1 >= op.MaxRetries {
			if removeErr := c.local.RemovePending(ctx, op.OperationID); removeErr != nil && !errors.Is(removeErr, store.ErrOperationNotFound) {
				log.Err(removeErr).
					Str("func", "syncCoordinator.Drain").
					Str("operation_id", op.OperationID).
					Msg("failed to drop exhausted operation")
			}

			entry := fmt.Sprintf("%s: %s %s: %s", ErrSyncExhausted, op.Kind, op.CollectionKey, dispatchErr)
			drainErrors = append(drainErrors, entry)

			c.bus.publish(models.SyncEvent{
				Type:    models.SyncError,
				Online:  c.Online(),
				Message: entry,
				At:      time.Now(),
			})
		}
	}

	c.finishPass(ctx, drainErrors)
	return nil
}

// maxSyncErrors bounds the recorded sync error list; older entries are
// evicted first.
const maxSyncErrors = 20

// finishPass persists the pass outcome and emits sync_complete. Recorded
// errors accumulate across passes: a dropped operation stays visible in
// [SyncCoordinator.Status] until [SyncCoordinator.ClearSyncErrors], not just
// until the next (likely error-free) drain tick.
func (c *syncCoordinator) finishPass(ctx context.Context, drainErrors []string) {
	log := logger.FromContext(ctx)
	now := time.Now()

	c.statusMu.Lock()
	c.lastSyncTime = now
	c.lastErrors = append(c.lastErrors, drainErrors...)
	if len(c.lastErrors) > maxSyncErrors {
		c.lastErrors = c.lastErrors[len(c.lastErrors)-maxSyncErrors:]
	}
	recorded := make([]string, len(c.lastErrors))
	copy(recorded, c.lastErrors)
	c.statusMu.Unlock()

	if err := c.local.SetMeta(ctx, store.MetaLastSyncTime, now.Format(time.RFC3339Nano)); err != nil {
		log.Err(err).Str("func", "syncCoordinator.finishPass").Msg("failed to persist last sync time")
	}

	encoded, err := json.Marshal(recorded)
	if err == nil {
		if err = c.local.SetMeta(ctx, store.MetaSyncErrors, string(encoded)); err != nil {
			log.Err(err).Str("func", "syncCoordinator.finishPass").Msg("failed to persist sync errors")
		}
	}

	c.bus.publish(models.SyncEvent{
		Type:   models.SyncComplete,
		Online: c.Online(),
		Errors: drainErrors,
		At:     now,
	})
}

// dispatch applies one queued operation to the remote store and mirrors the
// outcome into the local cache.
func (c *syncCoordinator) dispatch(ctx context.Context, op models.PendingOperation) error {
	switch op.Kind {
	case models.OperationCreate:
		id, err := c.gateway.PushNew(ctx, op.CollectionKey, op.Payload)
		if err != nil {
			if c.sealConverged(op, err) {
				return nil
			}
			return err
		}
		return c.mirrorClean(ctx, op.CollectionKey, id, op.Payload)

	case models.OperationUpdate:
		if err := c.gateway.SetAt(ctx, op.CollectionKey, op.Payload); err != nil {
			if c.sealConverged(op, err) {
				return nil
			}
			return err
		}
		return c.mirrorClean(ctx, op.CollectionKey, "", op.Payload)

	case models.OperationDelete:
		if err := c.gateway.RemoveAt(ctx, op.CollectionKey); err != nil {
			return err
		}
		collection, id := splitTargetPath(op.CollectionKey)
		if id == "" {
			return nil
		}
		if err := c.local.DeleteRecord(ctx, collection, id); err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		return nil

	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

// sealConverged reports whether a queued day seal was rejected because
// another device already sealed the date. The remote record is the first
// seal; dropping ours converges both devices on it.
func (c *syncCoordinator) sealConverged(op models.PendingOperation, err error) bool {
	collection, _ := splitTargetPath(op.CollectionKey)
	return collection == models.CollectionFinalizations && errors.Is(err, adapter.ErrConflict)
}

// mirrorClean writes the applied payload back into the cache with the dirty
// flag cleared. id overrides the id embedded in path when non-empty.
func (c *syncCoordinator) mirrorClean(ctx context.Context, path, id string, payload models.Payload) error {
	collection, pathID := splitTargetPath(path)
	if id == "" {
		id = pathID
	}
	if id == "" {
		return fmt.Errorf("cannot mirror %q: no record id", path)
	}

	now := time.Now()
	return c.local.PutRecord(ctx, models.CachedRecord{
		CollectionKey: collection,
		RecordID:      id,
		Payload:       payload,
		CachedAt:      now,
		LastSyncedAt:  now,
		Dirty:         false,
	})
}

// Status implements [SyncCoordinator].
func (c *syncCoordinator) Status(ctx context.Context) models.SyncStatus {
	pending, err := c.local.PendingCount(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "syncCoordinator.Status").Msg("failed to count pending operations")
	}

	c.statusMu.Lock()
	defer c.statusMu.Unlock()

	return models.SyncStatus{
		Online:       c.Online(),
		Syncing:      c.syncing.Load(),
		PendingCount: pending,
		LastSyncTime: c.lastSyncTime,
		Errors:       c.lastErrors,
	}
}

// ClearSyncErrors implements [SyncCoordinator].
func (c *syncCoordinator) ClearSyncErrors(ctx context.Context) error {
	c.statusMu.Lock()
	c.lastErrors = nil
	c.statusMu.Unlock()

	if err := c.local.SetMeta(ctx, store.MetaSyncErrors, "[]"); err != nil {
		return fmt.Errorf("clear sync errors: %w", err)
	}
	return nil
}

// OnSyncEvent implements [SyncCoordinator].
func (c *syncCoordinator) OnSyncEvent(cb func(models.SyncEvent)) func() {
	return c.bus.subscribe(cb)
}

// Publish implements [SyncCoordinator].
func (c *syncCoordinator) Publish(event models.SyncEvent) {
	c.bus.publish(event)
}

// restoreMeta loads the persisted last sync time and errors so Status stays
// meaningful across restarts.
func (c *syncCoordinator) restoreMeta(ctx context.Context) {
	if raw, err := c.local.GetMeta(ctx, store.MetaLastSyncTime); err == nil {
		if at, parseErr := time.Parse(time.RFC3339Nano, raw); parseErr == nil {
			c.statusMu.Lock()
			c.lastSyncTime = at
			c.statusMu.Unlock()
		}
	}

	if raw, err := c.local.GetMeta(ctx, store.MetaSyncErrors); err == nil {
		var restored []string
		if parseErr := json.Unmarshal([]byte(raw), &restored); parseErr == nil && len(restored) > 0 {
			c.statusMu.Lock()
			c.lastErrors = restored
			c.statusMu.Unlock()
		}
	}
}

// splitTargetPath separates "collection/id" into its parts; a bare
// collection yields an empty id.
func splitTargetPath(path string) (collection, id string) {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}
