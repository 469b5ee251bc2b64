// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface, a Workers aggregate that starts
// multiple workers in a unified way, and a WakeRegistry of named tasks
// the host platform can invoke on background wake events.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Implementations are expected to return quickly and do their work on
// goroutines bound to ctx.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    // start background processing
//	}
type Worker interface {
	Run(ctx context.Context)
}

// WorkerFunc adapts a plain function to the Worker interface.
type WorkerFunc func(ctx context.Context)

// Run implements [Worker].
func (f WorkerFunc) Run(ctx context.Context) { f(ctx) }

// WakeTask is a named unit of work runnable from a host wake event.
type WakeTask func(ctx context.Context) error
