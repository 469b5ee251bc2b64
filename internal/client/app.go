package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/abira1/nijhum-deep/internal/adapter"
	"github.com/abira1/nijhum-deep/internal/clock"
	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/service"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/internal/workers"
	"github.com/abira1/nijhum-deep/models"
)

// SyncWakeTask is the wake-registry name of the background drain pass. The
// host binds it to whatever periodic background execution the platform
// offers.
const SyncWakeTask = "nijhum-sync"

// App is the assembled client engine.
type App struct {
	cfg    *config.ClientConfig
	perms  service.PermissionProvider
	logger *logger.Logger

	storages *store.ClientStorages
	gateway  adapter.RemoteGateway
	clock    *clock.Service
	services *service.Services
	registry *workers.WakeRegistry

	unsubClock func()
}

var _ Engine = (*App)(nil)

// NewApp builds an unstarted App. perms gates past-date mutations; nil
// admits every mutation.
func NewApp(cfg *config.ClientConfig, perms service.PermissionProvider, log *logger.Logger) *App {
	return &App{
		cfg:    cfg,
		perms:  perms,
		logger: log,
	}
}

// Init implements [Engine]. Startup order matters: storage and gateway
// first, then the service layer, then the background loops, and last the
// catch-up scan that seals any days that ended while the app was not
// running.
func (a *App) Init(ctx context.Context) error {
	storages, err := store.NewClientStorages(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("init client storage: %w", err)
	}
	a.storages = storages

	gateway, err := adapter.NewHTTPGateway(a.cfg.Adapter, a.logger)
	if err != nil {
		_ = storages.Close()
		return fmt.Errorf("init remote gateway: %w", err)
	}
	a.gateway = gateway

	a.clock = clock.NewService(a.cfg.Clock, a.logger)
	a.services = service.NewServices(storages.Local, gateway, a.clock, a.perms, a.cfg, a.logger)

	// day transitions drive finalization for as long as the app runs
	a.unsubClock = a.clock.OnDayTransition(a.services.Finalizer.HandleDayTransition)

	a.registry = workers.NewWakeRegistry(a.logger)
	a.registry.Register(SyncWakeTask, func(taskCtx context.Context) error {
		err := a.services.Sync.ForceSync(taskCtx)
		if errors.Is(err, service.ErrOffline) {
			// a wake with no connectivity is not a task failure
			return nil
		}
		return err
	})

	workers.NewWorkers(
		workers.WorkerFunc(a.services.Sync.Start),
		workers.WorkerFunc(a.clock.StartMonitoring),
		workers.WorkerFunc(a.services.Monitor.Start),
	).Run(ctx)

	if err = a.services.Finalizer.CatchUp(ctx); err != nil {
		a.logger.Err(err).Str("func", "App.Init").Msg("startup catch-up scan failed")
	}

	a.logger.Info().Str("func", "App.Init").Msg("client engine started")
	return nil
}

// Shutdown implements [Engine].
func (a *App) Shutdown() error {
	if a.services != nil {
		a.services.Monitor.Stop()
		a.services.Sync.Stop()
	}
	if a.clock != nil {
		a.clock.StopMonitoring()
	}
	if a.unsubClock != nil {
		a.unsubClock()
		a.unsubClock = nil
	}

	if a.storages != nil {
		if err := a.storages.Close(); err != nil {
			return fmt.Errorf("close client storage: %w", err)
		}
	}

	a.logger.Info().Str("func", "App.Shutdown").Msg("client engine stopped")
	return nil
}

// Expenses implements [Engine].
func (a *App) Expenses() service.RecordService { return a.services.Expenses }

// Meals implements [Engine].
func (a *App) Meals() service.RecordService { return a.services.Meals }

// Members implements [Engine].
func (a *App) Members() service.RecordService { return a.services.Members }

// SyncStatus implements [Engine].
func (a *App) SyncStatus(ctx context.Context) models.SyncStatus {
	return a.services.Sync.Status(ctx)
}

// ClearSyncErrors implements [Engine].
func (a *App) ClearSyncErrors(ctx context.Context) error {
	return a.services.Sync.ClearSyncErrors(ctx)
}

// ForceSync implements [Engine].
func (a *App) ForceSync(ctx context.Context) error {
	return a.services.Sync.ForceSync(ctx)
}

// NotifyActive implements [Engine].
func (a *App) NotifyActive() {
	a.services.Monitor.NotifyActive()
}

// Wake implements [Engine].
func (a *App) Wake(ctx context.Context, task string) error {
	return a.registry.Invoke(ctx, task)
}

// OnSyncEvent implements [Engine].
func (a *App) OnSyncEvent(cb func(models.SyncEvent)) func() {
	return a.services.Sync.OnSyncEvent(cb)
}

// OnDayTransition implements [Engine].
func (a *App) OnDayTransition(cb func(models.DayTransition)) func() {
	return a.clock.OnDayTransition(cb)
}

// OnFinalization implements [Engine].
func (a *App) OnFinalization(cb func(models.FinalizationEvent)) func() {
	return a.services.Finalizer.OnFinalization(cb)
}
