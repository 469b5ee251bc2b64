package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server / adapter address in format [host]:[port]
//	-d local SQLite database path (client)
//	-remote-d Postgres DSN (server)
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g. "24h")
//	-request-timeout request timeout (e.g. "15s")
//	-drain-interval pending-queue drain interval (e.g. "30s")
//	-probe-interval connectivity probe interval
//	-max-retries retry cap for pending operations
//	-catch-up-days backward catch-up window in days
func ParseFlags() *StructuredConfig {
	var address NetAddress
	var localDSN string
	var remoteDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var drainInterval time.Duration
	var probeInterval time.Duration
	var maxRetries int
	var catchUpDays int

	flag.Var(&address, "a", "Net address host:port")
	flag.StringVar(&localDSN, "d", "", "Local SQLite database path")
	flag.StringVar(&remoteDSN, "remote-d", "", "Remote store Postgres DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g. 24h)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g. 15s)")
	flag.DurationVar(&drainInterval, "drain-interval", 0, "Pending queue drain interval (e.g. 30s)")
	flag.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe interval (e.g. 30s)")
	flag.IntVar(&maxRetries, "max-retries", 0, "Retry cap for pending operations")
	flag.IntVar(&catchUpDays, "catch-up-days", 0, "Backward finalization catch-up window in days")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Storage: Storage{
			DB:       DB{DSN: localDSN},
			RemoteDB: RemoteDB{DSN: remoteDSN},
		},
		Server: Server{
			HTTPAddress:    address.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    address.String(),
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			DrainInterval: drainInterval,
			ProbeInterval: probeInterval,
			MaxRetries:    maxRetries,
		},
		Finalize:     Finalize{CatchUpDays: catchUpDays},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
