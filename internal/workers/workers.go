package workers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/abira1/nijhum-deep/internal/logger"
)

// Workers aggregates background workers and starts them in registration
// order.
type Workers struct {
	workers []Worker
}

// NewWorkers builds a Workers aggregate from the given workers.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Run starts every registered worker.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// WakeRegistry maps task names to work the host can trigger while the
// application is otherwise idle: a background fetch slot, an OS task
// scheduler entry, a push-triggered wake. Tasks run synchronously inside
// Invoke so the host knows when the work is done and the process may be
// frozen again.
type WakeRegistry struct {
	logger *logger.Logger

	mu    sync.Mutex
	tasks map[string]WakeTask
}

// NewWakeRegistry builds an empty registry.
func NewWakeRegistry(logger *logger.Logger) *WakeRegistry {
	return &WakeRegistry{
		logger: logger,
		tasks:  make(map[string]WakeTask),
	}
}

// Register binds a task to name, replacing any task already bound to it.
func (r *WakeRegistry) Register(name string, task WakeTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[name] = task
}

// Invoke runs the task bound to name and returns its result, or
// [ErrUnknownTask] when no task is bound.
func (r *WakeRegistry) Invoke(ctx context.Context, name string) error {
	r.mu.Lock()
	task, ok := r.tasks[name]
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}

	r.logger.Debug().
		Str("func", "WakeRegistry.Invoke").
		Str("task", name).
		Msg("running wake task")

	if err := task(ctx); err != nil {
		r.logger.Err(err).
			Str("func", "WakeRegistry.Invoke").
			Str("task", name).
			Msg("wake task failed")
		return fmt.Errorf("wake task %q: %w", name, err)
	}

	return nil
}

// Names returns the registered task names, sorted.
func (r *WakeRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
