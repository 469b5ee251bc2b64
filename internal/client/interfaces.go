package client

import (
	"context"

	"github.com/abira1/nijhum-deep/internal/service"
	"github.com/abira1/nijhum-deep/models"
)

// Engine is the surface a host UI talks to. *App implements it.
type Engine interface {
	// Init opens storage and starts the background machinery. It must be
	// called once before any other method.
	Init(ctx context.Context) error

	// Shutdown stops the background machinery and closes storage.
	Shutdown() error

	// Expenses, Meals and Members are the record services for their
	// collections.
	Expenses() service.RecordService
	Meals() service.RecordService
	Members() service.RecordService

	// SyncStatus reports the current connectivity and queue state.
	// Recorded errors accumulate until ClearSyncErrors.
	SyncStatus(ctx context.Context) models.SyncStatus

	// ClearSyncErrors dismisses the recorded sync errors.
	ClearSyncErrors(ctx context.Context) error

	// ForceSync runs a drain pass immediately.
	ForceSync(ctx context.Context) error

	// NotifyActive tells the engine the host became visible or focused
	// again, running the edge-case checks right away.
	NotifyActive()

	// Wake runs the named background task registered with the host
	// platform's wake mechanism.
	Wake(ctx context.Context, task string) error

	// OnSyncEvent, OnDayTransition and OnFinalization subscribe to the
	// engine's event buses; each returns an unsubscribe function.
	OnSyncEvent(cb func(models.SyncEvent)) func()
	OnDayTransition(cb func(models.DayTransition)) func()
	OnFinalization(cb func(models.FinalizationEvent)) func()
}
