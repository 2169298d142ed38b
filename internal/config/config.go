// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration Categories:
//
//  1. Media service: API (client) and Breaker (circuit breaker around it)
//  2. Processing: Query (date interpretation) and Worker (transform queue)
//  3. Local companion API: Server
//  4. Observability: Logging
type Config struct {
	API     APIConfig     `koanf:"api"`
	Breaker BreakerConfig `koanf:"breaker"`
	Query   QueryConfig   `koanf:"query"`
	Worker  WorkerConfig  `koanf:"worker"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// APIConfig configures the remote media service client.
type APIConfig struct {
	// BaseURL is the media service root; GET {BaseURL}/media is called. Required.
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// SkipBrowserWarning sends ngrok-skip-browser-warning: true on every request.
	SkipBrowserWarning bool `koanf:"skip_browser_warning"`

	UserAgent        string `koanf:"user_agent"`
	MaxResponseBytes int64  `koanf:"max_response_bytes"`

	// RateLimit is outbound requests per second (0 = unlimited).
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// CacheTTL enables response caching when > 0.
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
}

// BreakerConfig configures the circuit breaker in front of the media service.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// QueryConfig controls how user-entered dates are interpreted.
type QueryConfig struct {
	// Timezone is an IANA zone name, or "Local" for the host zone.
	// Default: Local
	Timezone string `koanf:"timezone"`
}

// WorkerConfig configures the transform worker.
type WorkerConfig struct {
	QueueSize int `koanf:"queue_size"`
}

// ServerConfig holds the local HTTP server settings.
type ServerConfig struct {
	Port              int           `koanf:"port"`
	Host              string        `koanf:"host"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Location resolves Query.Timezone. Validate guarantees it succeeds for a
// loaded config.
func (c *Config) Location() (*time.Location, error) {
	switch c.Query.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Query.Timezone)
	}
}

// Load reads configuration from defaults, an optional config file and the
// environment, in that order of increasing priority.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
