package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-encoded durations, so a deployment can keep all engine tuning in a
// single checked-in file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		RemoteDB struct {
			DSN string `json:"dsn"`
		} `json:"remote_db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AuthToken      string   `json:"auth_token"`
	} `json:"adapter,omitempty"`

	Sync struct {
		DrainInterval     Duration `json:"drain_interval"`
		ProbeInterval     Duration `json:"probe_interval"`
		MaxRetries        int      `json:"max_retries"`
		ReconnectDebounce Duration `json:"reconnect_debounce"`
	} `json:"sync,omitempty"`

	Clock struct {
		TickInterval Duration `json:"tick_interval"`
	} `json:"clock,omitempty"`

	Monitor struct {
		CheckInterval Duration `json:"check_interval"`
		SkewTolerance Duration `json:"skew_tolerance"`
		SuspendGap    Duration `json:"suspend_gap"`
	} `json:"monitor,omitempty"`

	Finalize struct {
		CatchUpDays int `json:"catch_up_days"`
	} `json:"finalize,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
		},
		Storage: Storage{
			DB:       DB{DSN: jsonCfg.Storage.DB.DSN},
			RemoteDB: RemoteDB{DSN: jsonCfg.Storage.RemoteDB.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			AuthToken:      jsonCfg.Adapter.AuthToken,
		},
		Sync: Sync{
			DrainInterval:     time.Duration(jsonCfg.Sync.DrainInterval),
			ProbeInterval:     time.Duration(jsonCfg.Sync.ProbeInterval),
			MaxRetries:        jsonCfg.Sync.MaxRetries,
			ReconnectDebounce: time.Duration(jsonCfg.Sync.ReconnectDebounce),
		},
		Clock: Clock{TickInterval: time.Duration(jsonCfg.Clock.TickInterval)},
		Monitor: Monitor{
			CheckInterval: time.Duration(jsonCfg.Monitor.CheckInterval),
			SkewTolerance: time.Duration(jsonCfg.Monitor.SkewTolerance),
			SuspendGap:    time.Duration(jsonCfg.Monitor.SuspendGap),
		},
		Finalize: Finalize{CatchUpDays: jsonCfg.Finalize.CatchUpDays},
	}

	return cfg, nil
}

// Duration is a time.Duration that unmarshals from a JSON string like "30s"
// or a raw nanosecond number.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		parsed, parseErr := time.ParseDuration(asString)
		if parseErr != nil {
			return fmt.Errorf("invalid duration %q: %w", asString, parseErr)
		}
		*d = Duration(parsed)
		return nil
	}

	var asNumber int64
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return fmt.Errorf("duration must be a string or a number: %w", err)
	}
	*d = Duration(asNumber)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
