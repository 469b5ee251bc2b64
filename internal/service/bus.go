package service

import (
	"sort"
	"sync"

	"github.com/abira1/nijhum-deep/internal/logger"
)

// eventBus is a minimal subscribe/publish fanout. Handlers run synchronously
// in subscription order; a panicking handler is recovered so one broken
// subscriber cannot starve the rest.
type eventBus[T any] struct {
	logger *logger.Logger

	mu     sync.Mutex
	subs   map[int]func(T)
	nextID int
}

func newEventBus[T any](logger *logger.Logger) *eventBus[T] {
	return &eventBus[T]{
		logger: logger,
		subs:   make(map[int]func(T)),
	}
}

// subscribe registers cb and returns an unsubscribe function that is safe to
// call more than once.
func (b *eventBus[T]) subscribe(cb func(T)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = cb

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *eventBus[T]) publish(event T) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	// map order is random; deliver in subscription order
	sort.Ints(ids)
	handlers := make([]func(T), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.Unlock()

	for _, cb := range handlers {
		b.safeInvoke(cb, event)
	}
}

func (b *eventBus[T]) safeInvoke(cb func(T), event T) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("func", "eventBus.safeInvoke").
				Interface("panic", r).
				Msg("event subscriber panicked")
		}
	}()
	cb(event)
}
