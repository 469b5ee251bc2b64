package config

import (
	"fmt"
	"time"
)

// ServerAuth holds token issuance settings for the remote store server.
type ServerAuth struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

// ServerDB contains the server's Postgres connection settings.
type ServerDB struct {
	DSN string
}

// ServerConfig is the server-side configuration view assembled from
// [StructuredConfig].
type ServerConfig struct {
	Auth           ServerAuth
	DB             ServerDB
	HTTPAddress    string
	RequestTimeout time.Duration
}

// GetServerConfig builds and validates a server-specific config view from
// the merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		Auth: ServerAuth{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
		},
		DB:             ServerDB{DSN: cfg.Storage.RemoteDB.DSN},
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
	}

	if serverCfg.Auth.TokenDuration <= 0 {
		serverCfg.Auth.TokenDuration = 24 * time.Hour
	}
	if serverCfg.RequestTimeout <= 0 {
		serverCfg.RequestTimeout = DefaultRequestTimeout
	}

	return serverCfg, serverCfg.validate()
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTPAddress == "" || cfg.Auth.TokenSignKey == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}
