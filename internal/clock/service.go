// Package clock owns calendar arithmetic and day-boundary detection for the
// sync engine. All date math happens in the device's local time zone: "today"
// is whatever the wall clock says, and a day transition is observed, never
// scheduled, so suspended devices and jumped clocks self-correct on the next
// tick.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/models"
)

// TransitionHandler observes a detected day transition. Handlers run
// synchronously inside the detecting tick; a panicking handler is recovered
// and does not disturb the others.
type TransitionHandler func(models.DayTransition)

// Service provides calendar queries and a polling day-transition monitor.
// The zero value is not usable; construct with [NewService].
type Service struct {
	nowFn    func() time.Time
	interval time.Duration
	logger   *logger.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastSeen models.Date

	subMu  sync.Mutex
	subs   map[int]TransitionHandler
	nextID int
}

// NewService constructs a [Service] reading the monitor tick interval from
// cfg. The service is idle until StartMonitoring is called.
func NewService(cfg config.ClientClock, logger *logger.Logger) *Service {
	return NewServiceWithNow(cfg, time.Now, logger)
}

// NewServiceWithNow constructs a [Service] with an injected time source.
func NewServiceWithNow(cfg config.ClientClock, nowFn func() time.Time, logger *logger.Logger) *Service {
	return &Service{
		nowFn:    nowFn,
		interval: cfg.TickInterval,
		logger:   logger,
		subs:     make(map[int]TransitionHandler),
	}
}

// Today returns the current calendar date in the device's local time zone.
func (s *Service) Today() models.Date {
	return models.DateOf(s.nowFn())
}

// IsToday reports whether date is the current local calendar date.
func (s *Service) IsToday(date models.Date) bool {
	return date == s.Today()
}

// IsPast reports whether date is strictly before today.
func (s *Service) IsPast(date models.Date) bool {
	return date.Before(s.Today())
}

// IsFuture reports whether date is strictly after today.
func (s *Service) IsFuture(date models.Date) bool {
	return date.After(s.Today())
}

// DaysBetween returns the signed number of calendar days from a to b.
func (s *Service) DaysBetween(a, b models.Date) int {
	return models.DaysBetween(a, b)
}

// UntilMidnight returns the duration until the next local midnight.
func (s *Service) UntilMidnight() time.Duration {
	now := s.nowFn()
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}

// SinceMidnight returns the duration elapsed since the last local midnight.
func (s *Service) SinceMidnight() time.Duration {
	now := s.nowFn()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return now.Sub(start)
}

// NearBoundary reports whether the current time is within the given window
// on either side of a midnight boundary. The edge monitor uses it to treat
// small clock corrections around midnight with suspicion.
func (s *Service) NearBoundary(within time.Duration) bool {
	return s.UntilMidnight() <= within || s.SinceMidnight() <= within
}

// TimeZone returns the IANA name of the device's current time zone.
func (s *Service) TimeZone() string {
	return s.nowFn().Location().String()
}

// OnDayTransition registers cb on the day-transition bus and returns an
// unsubscribe function. Unsubscribing twice is harmless.
func (s *Service) OnDayTransition(cb TransitionHandler) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = cb

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// StartMonitoring launches the polling goroutine that compares the current
// date against the last observed one every tick interval. Calling it while
// the monitor is already running is a warning no-op; use Restart for an
// explicit rebase.
func (s *Service) StartMonitoring(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		s.logger.Warn().Str("func", "Service.StartMonitoring").Msg("day monitor already running")
		return
	}

	monitorCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.lastSeen = s.Today()
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info().
		Str("func", "Service.StartMonitoring").
		Str("today", s.Today().String()).
		Dur("interval", s.interval).
		Msg("day transition monitor started")

	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.interval)
		defer t.Stop()

		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-t.C:
				s.CheckNow()
			}
		}
	}()
}

// StopMonitoring cancels the polling goroutine and blocks until it has
// exited. Safe to call when the monitor is not running.
func (s *Service) StopMonitoring() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Restart stops the monitor and starts it again, rebasing the last observed
// date onto the current one. The edge monitor calls this after a timezone
// change or clock jump so the next comparison starts from solid ground.
func (s *Service) Restart(ctx context.Context) {
	s.StopMonitoring()
	s.StartMonitoring(ctx)
}

// CheckNow forces an immediate comparison of the current date against the
// last observed one, firing the day-transition bus when they differ. It
// reports whether a transition was detected.
func (s *Service) CheckNow() bool {
	s.mu.Lock()
	previous := s.lastSeen
	current := s.Today()
	if previous.IsZero() || current == previous {
		s.lastSeen = current
		s.mu.Unlock()
		return false
	}
	s.lastSeen = current
	s.mu.Unlock()

	transition := models.DayTransition{
		Previous: previous,
		Current:  current,
		At:       s.nowFn(),
		TimeZone: s.TimeZone(),
	}

	s.logger.Info().
		Str("func", "Service.CheckNow").
		Str("previous", previous.String()).
		Str("current", current.String()).
		Msg("day transition detected")

	s.dispatch(transition)
	return true
}

func (s *Service) dispatch(transition models.DayTransition) {
	s.subMu.Lock()
	handlers := make([]TransitionHandler, 0, len(s.subs))
	for _, cb := range s.subs {
		handlers = append(handlers, cb)
	}
	s.subMu.Unlock()

	for _, cb := range handlers {
		s.safeInvoke(cb, transition)
	}
}

func (s *Service) safeInvoke(cb TransitionHandler, transition models.DayTransition) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("func", "Service.safeInvoke").
				Interface("panic", r).
				Msg("day transition handler panicked")
		}
	}()
	cb(transition)
}
