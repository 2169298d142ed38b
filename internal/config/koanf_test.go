// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.API.BaseURL != "" {
		t.Errorf("API.BaseURL should be empty by default, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if !cfg.API.SkipBrowserWarning {
		t.Error("API.SkipBrowserWarning should be true by default")
	}
	if !cfg.Breaker.Enabled || cfg.Breaker.FailureRatio != 0.6 {
		t.Errorf("Breaker = %+v", cfg.Breaker)
	}
	if cfg.Query.Timezone != "Local" {
		t.Errorf("Query.Timezone = %q, want Local", cfg.Query.Timezone)
	}
	if cfg.Worker.QueueSize != 4 {
		t.Errorf("Worker.QueueSize = %d, want 4", cfg.Worker.QueueSize)
	}
	if cfg.Server.Port != 8787 {
		t.Errorf("Server.Port = %d, want 8787", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"MEDIA_API_BASE_URL", "api.base_url"},
		{"API_BASE_URL", "api.base_url"},
		{"MEDIA_API_SKIP_BROWSER_WARNING", "api.skip_browser_warning"},
		{"MEDIA_API_CACHE_TTL", "api.cache_ttl"},
		{"BREAKER_FAILURE_RATIO", "breaker.failure_ratio"},
		{"QUERY_TIMEZONE", "query.timezone"},
		{"WORKER_QUEUE_SIZE", "worker.queue_size"},
		{"HTTP_PORT", "server.port"},
		{"CORS_ORIGINS", "server.cors_origins"},
		{"DISABLE_RATE_LIMIT", "server.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// isolate runs the test from an empty directory so no stray config.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	return dir
}

func TestLoadWithKoanf_EnvOverridesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("MEDIA_API_BASE_URL", "http://localhost:8000")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("MEDIA_API_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("QUERY_TIMEZONE", "UTC")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v, want 5s", cfg.API.Timeout)
	}
	want := []string{"http://a.example", "http://b.example"}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, want) {
		t.Errorf("Server.CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.Worker.QueueSize != 4 {
		t.Errorf("Worker.QueueSize = %d, default lost", cfg.Worker.QueueSize)
	}
}

func TestLoadWithKoanf_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "geolens.yaml")
	content := `
api:
  base_url: https://media.example.com
  cache_ttl: 1m
breaker:
  enabled: false
server:
  port: 7000
  cors_origins:
    - http://localhost:5173
logging:
  level: debug
  format: console
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.API.BaseURL != "https://media.example.com" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.CacheTTL != time.Minute {
		t.Errorf("API.CacheTTL = %v, want 1m", cfg.API.CacheTTL)
	}
	if cfg.Breaker.Enabled {
		t.Error("Breaker.Enabled should come from the file")
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("Server.Port = %d, env should win over file", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, []string{"http://localhost:5173"}) {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q", cfg.Logging.Format)
	}
}

func TestLoadWithKoanf_RequiresBaseURL(t *testing.T) {
	isolate(t)
	t.Setenv("MEDIA_API_BASE_URL", "")
	t.Setenv("API_BASE_URL", "")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error without a base URL")
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q in empty dir", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("findConfigFile() = %q, want config.yml", got)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("missing CONFIG_PATH should fall back, got %q", got)
	}
}
