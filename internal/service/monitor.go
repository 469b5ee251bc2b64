package service

import (
	"context"
	"sync"
	"time"

	"github.com/abira1/nijhum-deep/internal/clock"
	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/models"
)

// edgeMonitor implements [EdgeMonitor]. It compensates for the ways a
// device's clock can lie to a polling day monitor: timezone changes, manual
// clock adjustments, suspend/resume gaps and flaky connectivity. Each check
// compares the monotonic elapsed time against the wall-clock elapsed time;
// a divergence means the wall clock moved underneath us.
type edgeMonitor struct {
	clock       *clock.Service
	finalizer   Finalizer
	coordinator SyncCoordinator
	local       store.LocalStore
	cfg         config.ClientMonitor
	debounce    time.Duration
	logger      *logger.Logger

	mu         sync.Mutex
	runCtx     context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	unsub      func()
	lastSeen   time.Time
	lastZone   string
	lastOffset int

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewEdgeMonitor constructs an [EdgeMonitor]. debounce is the quiet period
// after a reconnect before the catch-up scan runs, so a flapping connection
// does not trigger a scan per flap.
func NewEdgeMonitor(clockSvc *clock.Service, finalizer Finalizer, coordinator SyncCoordinator, local store.LocalStore, cfg config.ClientMonitor, debounce time.Duration, logger *logger.Logger) EdgeMonitor {
	return &edgeMonitor{
		clock:       clockSvc,
		finalizer:   finalizer,
		coordinator: coordinator,
		local:       local,
		cfg:         cfg,
		debounce:    debounce,
		logger:      logger,
	}
}

// Start implements [EdgeMonitor].
func (m *edgeMonitor) Start(ctx context.Context) {
	m.Stop()

	now := time.Now()
	zone, offset := now.Zone()

	m.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	m.runCtx = runCtx
	m.cancel = cancel
	m.lastSeen = now
	m.lastZone = zone
	m.lastOffset = offset
	m.unsub = m.coordinator.OnSyncEvent(m.onSyncEvent)
	m.wg.Add(1)
	m.mu.Unlock()

	m.logger.Info().
		Str("func", "edgeMonitor.Start").
		Str("zone", zone).
		Dur("interval", m.cfg.CheckInterval).
		Msg("edge monitor started")

	go func() {
		defer m.wg.Done()
		t := time.NewTicker(m.cfg.CheckInterval)
		defer t.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-t.C:
				m.check(runCtx)
			}
		}
	}()
}

// Stop implements [EdgeMonitor].
func (m *edgeMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	unsub := m.unsub
	m.cancel = nil
	m.runCtx = nil
	m.unsub = nil
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()

	m.debounceMu.Lock()
	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
		m.debounceTimer = nil
	}
	m.debounceMu.Unlock()
}

// NotifyActive implements [EdgeMonitor]. The host calls it when the UI
// becomes visible or focused again; a device waking from sleep usually
// reports activity long before the next ticker fire.
func (m *edgeMonitor) NotifyActive() {
	m.mu.Lock()
	runCtx := m.runCtx
	m.mu.Unlock()

	if runCtx == nil {
		return
	}
	m.check(runCtx)
}

// check runs one detection pass. Detections are ordered by severity: a
// timezone change implies the date math changed entirely, a clock jump
// means the wall clock moved, and a liveness gap means we were not running.
// Only the most severe finding is handled per pass; each handler ends in a
// catch-up that covers the others' symptoms anyway.
func (m *edgeMonitor) check(ctx context.Context) {
	now := time.Now()
	zone, offset := now.Zone()

	m.mu.Lock()
	last := m.lastSeen
	lastZone, lastOffset := m.lastZone, m.lastOffset
	m.lastSeen = now
	m.lastZone = zone
	m.lastOffset = offset
	m.mu.Unlock()

	if last.IsZero() {
		return
	}

	// both readings cover the same interval: monotonic cannot be fooled,
	// the wall clock can
	monoElapsed := now.Sub(last)
	wallElapsed := now.Round(0).Sub(last.Round(0))
	skew := wallElapsed - monoElapsed
	if skew < 0 {
		skew = -skew
	}

	switch {
	case zone != lastZone || offset != lastOffset:
		m.handleTimezoneChange(ctx, lastZone, zone)
	case skew > m.cfg.SkewTolerance:
		m.handleClockJump(ctx, skew)
	case monoElapsed > m.cfg.CheckInterval+m.cfg.SuspendGap:
		m.handleResume(ctx, monoElapsed)
	}
}

func (m *edgeMonitor) handleTimezoneChange(ctx context.Context, from, to string) {
	m.logger.Warn().
		Str("func", "edgeMonitor.handleTimezoneChange").
		Str("from", from).
		Str("to", to).
		Msg("timezone change detected")

	m.coordinator.Publish(models.SyncEvent{
		Type:    models.TimezoneChange,
		Online:  m.coordinator.Online(),
		Message: from + " -> " + to,
		At:      time.Now(),
	})

	m.clock.Restart(ctx)

	// the date the old zone considered current may be over in the new one
	if raw, err := m.local.GetMeta(ctx, store.MetaLastKnownDate); err == nil {
		if stale, parseErr := models.ParseDate(raw); parseErr == nil && m.clock.IsPast(stale) {
			if finErr := m.finalizer.Finalize(ctx, stale); finErr != nil {
				m.logger.Err(finErr).
					Str("func", "edgeMonitor.handleTimezoneChange").
					Str("date", stale.String()).
					Msg("failed to finalize stale date")
			}
		}
	}

	if err := m.local.SetMeta(ctx, store.MetaLastKnownDate, m.clock.Today().String()); err != nil {
		m.logger.Err(err).
			Str("func", "edgeMonitor.handleTimezoneChange").
			Msg("failed to update last known date")
	}
}

func (m *edgeMonitor) handleClockJump(ctx context.Context, skew time.Duration) {
	m.logger.Warn().
		Str("func", "edgeMonitor.handleClockJump").
		Dur("skew", skew).
		Msg("wall clock jump detected")

	m.clock.Restart(ctx)
	m.catchUp(ctx)
}

func (m *edgeMonitor) handleResume(ctx context.Context, gap time.Duration) {
	m.logger.Info().
		Str("func", "edgeMonitor.handleResume").
		Dur("gap", gap).
		Msg("liveness gap detected, assuming suspend/resume")

	m.clock.CheckNow()
	m.catchUp(ctx)
}

// onSyncEvent watches the coordinator bus for reconnects. The catch-up is
// debounced: rapid offline/online flaps reset the timer and only the last
// reconnect inside the window runs a scan.
func (m *edgeMonitor) onSyncEvent(event models.SyncEvent) {
	if event.Type != models.ConnectionChange || !event.Online {
		return
	}

	m.debounceMu.Lock()
	defer m.debounceMu.Unlock()

	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
	}
	m.debounceTimer = time.AfterFunc(m.debounce, func() {
		m.mu.Lock()
		runCtx := m.runCtx
		m.mu.Unlock()
		if runCtx == nil {
			return
		}
		m.catchUp(runCtx)
	})
}

func (m *edgeMonitor) catchUp(ctx context.Context) {
	if err := m.finalizer.CatchUp(ctx); err != nil {
		m.logger.Err(err).Str("func", "edgeMonitor.catchUp").Msg("catch-up scan failed")
	}
	if m.coordinator.Online() {
		go func() { _ = m.coordinator.Drain(ctx) }()
	}
}
