// Package config loads and merges the application configuration from
// environment variables, command-line flags, and an optional JSON file.
//
// Sources are merged with the first non-zero value winning, in the order
// env → flags → JSON, via [GetStructuredConfig]. Role-specific views with
// defaults applied are produced by [GetClientConfig] (the sync engine) and
// [GetServerConfig] (the remote keyed-store server).
//
// Every engine tunable (drain interval, retry cap, monitor tick, catch-up
// window) has a documented default in this package; deployments only set
// what they need to override.
package config
