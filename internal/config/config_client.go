package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client gateway.
type ClientAdapter struct {
	// HTTPAddress is the base address of the remote store server.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound gateway calls.
	RequestTimeout time.Duration
	// AuthToken is an optional pre-issued bearer token.
	AuthToken string
}

// ClientDB contains local database settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path used for the local cache and queue.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSync holds the drain loop and connectivity settings used by the
// sync coordinator.
type ClientSync struct {
	DrainInterval     time.Duration
	ProbeInterval     time.Duration
	MaxRetries        int
	ReconnectDebounce time.Duration
}

// ClientClock holds day-transition monitoring settings.
type ClientClock struct {
	TickInterval time.Duration
}

// ClientMonitor holds edge-case monitor settings.
type ClientMonitor struct {
	CheckInterval time.Duration
	SkewTolerance time.Duration
	SuspendGap    time.Duration
}

// ClientFinalize holds day finalization settings.
type ClientFinalize struct {
	CatchUpDays int
}

// ClientConfig is the client-side configuration view assembled from
// [StructuredConfig], with documented defaults applied to every tunable
// the deployment did not set.
type ClientConfig struct {
	Adapter  ClientAdapter
	Storage  ClientStorage
	Sync     ClientSync
	Clock    ClientClock
	Monitor  ClientMonitor
	Finalize ClientFinalize
}

// GetClientConfig builds and validates a client-specific config view from
// the merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewClientConfig(cfg)
}

// NewClientConfig maps the fields relevant to the client runtime out of cfg,
// applies defaults, and validates the result.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			AuthToken:      cfg.Adapter.AuthToken,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Sync: ClientSync{
			DrainInterval:     cfg.Sync.DrainInterval,
			ProbeInterval:     cfg.Sync.ProbeInterval,
			MaxRetries:        cfg.Sync.MaxRetries,
			ReconnectDebounce: cfg.Sync.ReconnectDebounce,
		},
		Clock: ClientClock{TickInterval: cfg.Clock.TickInterval},
		Monitor: ClientMonitor{
			CheckInterval: cfg.Monitor.CheckInterval,
			SkewTolerance: cfg.Monitor.SkewTolerance,
			SuspendGap:    cfg.Monitor.SuspendGap,
		},
		Finalize: ClientFinalize{CatchUpDays: cfg.Finalize.CatchUpDays},
	}

	clientCfg.applyDefaults()
	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Sync.DrainInterval <= 0 {
		cfg.Sync.DrainInterval = DefaultDrainInterval
	}
	if cfg.Sync.ProbeInterval <= 0 {
		cfg.Sync.ProbeInterval = DefaultProbeInterval
	}
	if cfg.Sync.MaxRetries == 0 {
		cfg.Sync.MaxRetries = DefaultMaxRetries
	}
	if cfg.Sync.ReconnectDebounce <= 0 {
		cfg.Sync.ReconnectDebounce = DefaultReconnectDebounce
	}
	if cfg.Clock.TickInterval <= 0 {
		cfg.Clock.TickInterval = DefaultClockTick
	}
	if cfg.Monitor.CheckInterval <= 0 {
		cfg.Monitor.CheckInterval = DefaultMonitorTick
	}
	if cfg.Monitor.SkewTolerance <= 0 {
		cfg.Monitor.SkewTolerance = DefaultSkewTolerance
	}
	if cfg.Monitor.SuspendGap <= 0 {
		cfg.Monitor.SuspendGap = DefaultSuspendGap
	}
	if cfg.Finalize.CatchUpDays <= 0 {
		cfg.Finalize.CatchUpDays = DefaultCatchUpDays
	}
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.MaxRetries < 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
