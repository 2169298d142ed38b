// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/geolens/docs" // swagger spec for /swagger/*
	"github.com/tomtom215/geolens/internal/api"
	"github.com/tomtom215/geolens/internal/config"
	"github.com/tomtom215/geolens/internal/logging"
	"github.com/tomtom215/geolens/internal/supervisor"
	"github.com/tomtom215/geolens/internal/supervisor/services"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	api.Version = version

	logging.Info().Str("version", version).Msg("Starting GeoLens with supervisor tree")

	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.HasWildcardCORS() && cfg.Server.Host != "127.0.0.1" && cfg.Server.Host != "localhost" {
		logging.Warn().
			Str("host", cfg.Server.Host).
			Msg("CORS allows any origin on a non-loopback address; set CORS_ORIGINS to the map client's origin")
	}

	a, err := newApp(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddProcessingService(a.orchestrator)
	if a.cache != nil {
		tree.AddProcessingService(services.NewCacheJanitorService(a.cache, a.cache.TTL()))
	}
	tree.AddMessagingService(a.hub)
	tree.AddMessagingService(a.bridge)
	tree.AddAPIService(services.NewHTTPServerService(a.server, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		// A second signal terminates immediately.
		signal.Stop(sigCh)
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		cancel()
	}

	// Serve already disposed it unless the tree never started the service.
	a.orchestrator.Dispose()

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("GeoLens stopped")
}
