package service

import (
	"context"
	"sync"
	"time"

	"github.com/abira1/nijhum-deep/internal/clock"
	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/models"
)

// fakeNow is a mutable time source for clock fixtures.
type fakeNow struct {
	mu sync.Mutex
	at time.Time
}

func (f *fakeNow) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.at
}

func (f *fakeNow) set(at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.at = at
}

func newFixedClock(at time.Time) (*clock.Service, *fakeNow) {
	src := &fakeNow{at: at}
	svc := clock.NewServiceWithNow(config.ClientClock{TickInterval: time.Hour}, src.now, logger.NewLogger("test"))
	return svc, src
}

// stubCoordinator is a hand-written [SyncCoordinator] double for the
// services that only consult connectivity and the event bus.
type stubCoordinator struct {
	mu     sync.Mutex
	online bool
	drains int
	events []models.SyncEvent
	subs   []func(models.SyncEvent)
}

func (s *stubCoordinator) Start(context.Context) {}
func (s *stubCoordinator) Stop()                 {}

func (s *stubCoordinator) SetOnline(online bool) {
	s.mu.Lock()
	changed := s.online != online
	s.online = online
	subs := append([]func(models.SyncEvent){}, s.subs...)
	s.mu.Unlock()

	if changed {
		event := models.SyncEvent{Type: models.ConnectionChange, Online: online, At: time.Now()}
		for _, cb := range subs {
			cb(event)
		}
	}
}

func (s *stubCoordinator) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *stubCoordinator) Drain(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drains++
	return nil
}

func (s *stubCoordinator) ForceSync(ctx context.Context) error {
	if !s.Online() {
		return ErrOffline
	}
	return s.Drain(ctx)
}

func (s *stubCoordinator) Status(context.Context) models.SyncStatus {
	return models.SyncStatus{Online: s.Online()}
}

func (s *stubCoordinator) ClearSyncErrors(context.Context) error { return nil }

func (s *stubCoordinator) OnSyncEvent(cb func(models.SyncEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, cb)
	return func() {}
}

func (s *stubCoordinator) Publish(event models.SyncEvent) {
	s.mu.Lock()
	s.events = append(s.events, event)
	subs := append([]func(models.SyncEvent){}, s.subs...)
	s.mu.Unlock()

	for _, cb := range subs {
		cb(event)
	}
}

func (s *stubCoordinator) publishedEvents() []models.SyncEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SyncEvent{}, s.events...)
}

func (s *stubCoordinator) drainCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drains
}

// spyFinalizer records [Finalizer] calls for the edge monitor tests.
type spyFinalizer struct {
	mu        sync.Mutex
	finalized []models.Date
	catchUps  int
}

func (s *spyFinalizer) Finalize(_ context.Context, date models.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized = append(s.finalized, date)
	return nil
}

func (s *spyFinalizer) CatchUp(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catchUps++
	return nil
}

func (s *spyFinalizer) HandleDayTransition(models.DayTransition) {}

func (s *spyFinalizer) OnFinalization(func(models.FinalizationEvent)) func() {
	return func() {}
}

func (s *spyFinalizer) catchUpCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catchUps
}

func (s *spyFinalizer) finalizedDates() []models.Date {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Date{}, s.finalized...)
}
