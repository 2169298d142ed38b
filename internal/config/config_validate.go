// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateBreaker(); err != nil {
		return err
	}

	if err := c.validateQuery(); err != nil {
		return err
	}

	if err := c.validateWorker(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateAPI() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("MEDIA_API_BASE_URL is required")
	}
	if err := validateHTTPURL(c.API.BaseURL, "MEDIA_API_BASE_URL"); err != nil {
		return fmt.Errorf("MEDIA_API_BASE_URL is invalid: %w", err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("MEDIA_API_TIMEOUT must be positive, got %v", c.API.Timeout)
	}
	if c.API.MaxResponseBytes <= 0 {
		return fmt.Errorf("MEDIA_API_MAX_RESPONSE_BYTES must be positive, got %d", c.API.MaxResponseBytes)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("MEDIA_API_RATE_LIMIT must be >= 0, got %v", c.API.RateLimit)
	}
	if c.API.RateLimit > 0 && c.API.RateBurst < 1 {
		return fmt.Errorf("MEDIA_API_RATE_BURST must be at least 1 when rate limiting is enabled, got %d", c.API.RateBurst)
	}
	if c.API.CacheTTL < 0 {
		return fmt.Errorf("MEDIA_API_CACHE_TTL must be >= 0, got %v", c.API.CacheTTL)
	}
	if c.API.CacheMaxEntries < 0 {
		return fmt.Errorf("MEDIA_API_CACHE_MAX_ENTRIES must be >= 0, got %d", c.API.CacheMaxEntries)
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.Breaker.FailureRatio)
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive, got %v", c.Breaker.Timeout)
	}
	if c.Breaker.Interval < 0 {
		return fmt.Errorf("BREAKER_INTERVAL must be >= 0, got %v", c.Breaker.Interval)
	}
	return nil
}

func (c *Config) validateQuery() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("QUERY_TIMEZONE %q is not a known time zone: %w", c.Query.Timezone, err)
	}
	return nil
}

func (c *Config) validateWorker() error {
	if c.Worker.QueueSize < 1 {
		return fmt.Errorf("WORKER_QUEUE_SIZE must be at least 1, got %d", c.Worker.QueueSize)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Server.RateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

func (c *Config) validateLogging() error {
	level := strings.ToLower(c.Logging.Level)
	if !validLogLevels[level] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error or disabled, got %q", c.Logging.Level)
	}
	format := strings.ToLower(c.Logging.Format)
	if format != "json" && format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
