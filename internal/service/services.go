package service

import (
	"github.com/abira1/nijhum-deep/internal/adapter"
	"github.com/abira1/nijhum-deep/internal/clock"
	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/store"
)

// Services wires the client engine's service layer over one shared local
// store, gateway and clock.
type Services struct {
	Sync        SyncCoordinator
	Finalizer   Finalizer
	Monitor     EdgeMonitor
	Expenses    RecordService
	Meals       RecordService
	Members     RecordService
	Permissions PermissionProvider
}

// NewServices assembles the service layer. A nil perms falls back to
// [AllowAll]; deployments that gate past-date writes pass a
// [NewJWTPermissionProvider].
func NewServices(local store.LocalStore, gateway adapter.RemoteGateway, clockSvc *clock.Service, perms PermissionProvider, cfg *config.ClientConfig, log *logger.Logger) *Services {
	if perms == nil {
		perms = AllowAll
	}

	coordinator := NewSyncCoordinator(local, gateway, cfg.Sync, log)
	finalizer := NewFinalizer(local, gateway, coordinator, clockSvc, cfg.Finalize, log)
	monitor := NewEdgeMonitor(clockSvc, finalizer, coordinator, local, cfg.Monitor, cfg.Sync.ReconnectDebounce, log)

	deps := RecordServiceDeps{
		Local:       local,
		Gateway:     gateway,
		Coordinator: coordinator,
		Permissions: perms,
		Actor:       func() string { return cfg.Adapter.AuthToken },
		Clock:       clockSvc,
		Logger:      log,
	}

	return &Services{
		Sync:        coordinator,
		Finalizer:   finalizer,
		Monitor:     monitor,
		Expenses:    NewExpenseService(deps),
		Meals:       NewMealService(deps),
		Members:     NewMemberService(deps),
		Permissions: perms,
	}
}
