// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/geolens/internal/api"
	"github.com/tomtom215/geolens/internal/cache"
	"github.com/tomtom215/geolens/internal/config"
	"github.com/tomtom215/geolens/internal/fetch"
	"github.com/tomtom215/geolens/internal/logging"
	"github.com/tomtom215/geolens/internal/mediaclient"
	"github.com/tomtom215/geolens/internal/query"
	"github.com/tomtom215/geolens/internal/transform"
	ws "github.com/tomtom215/geolens/internal/websocket"
)

// app holds the wired components before they are handed to the supervisor.
type app struct {
	orchestrator *fetch.Orchestrator
	hub          *ws.Hub
	bridge       *ws.StateBridge
	breaker      *mediaclient.CircuitBreakerClient // nil when disabled
	cache        *cache.Cache                      // nil when disabled
	server       *http.Server
}

// newMediaFetcher builds the HTTP client and, when enabled, the breaker
// around it.
func newMediaFetcher(cfg *config.Config) (mediaclient.MediaFetcher, *mediaclient.Client, *mediaclient.CircuitBreakerClient, error) {
	client, err := mediaclient.NewClient(mediaclient.Config{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.Timeout,
		SkipBrowserWarning: cfg.API.SkipBrowserWarning,
		UserAgent:          cfg.API.UserAgent,
		MaxResponseBytes:   cfg.API.MaxResponseBytes,
		RateLimit:          cfg.API.RateLimit,
		RateBurst:          cfg.API.RateBurst,
		CacheTTL:           cfg.API.CacheTTL,
		CacheMaxEntries:    cfg.API.CacheMaxEntries,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create media client: %w", err)
	}

	if !cfg.Breaker.Enabled {
		return client, client, nil, nil
	}
	breaker := mediaclient.NewCircuitBreakerClient(client, mediaclient.BreakerConfig{
		Name:         "media-service",
		MaxRequests:  cfg.Breaker.MaxRequests,
		Interval:     cfg.Breaker.Interval,
		Timeout:      cfg.Breaker.Timeout,
		MinRequests:  cfg.Breaker.MinRequests,
		FailureRatio: cfg.Breaker.FailureRatio,
	})
	return breaker, client, breaker, nil
}

// newApp wires every component from cfg.
func newApp(cfg *config.Config) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve query timezone: %w", err)
	}

	fetcher, client, breaker, err := newMediaFetcher(cfg)
	if err != nil {
		return nil, err
	}

	orch := fetch.New(
		fetch.Config{QueueSize: cfg.Worker.QueueSize},
		fetcher,
		query.NewBuilder(loc),
		transform.Transformer{Location: loc},
	)

	hub := ws.NewHub(orch.State)
	bridge := ws.NewStateBridge(orch, hub)

	handler := api.NewHandler(cfg, orch, hub)
	if breaker != nil {
		handler.SetBreaker(breaker)
	}
	if c := client.Cache(); c != nil {
		handler.SetCache(c)
	}
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Server))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	logging.Info().
		Str("base_url", cfg.API.BaseURL).
		Bool("breaker", breaker != nil).
		Bool("cache", client.Cache() != nil).
		Str("timezone", loc.String()).
		Msg("Components wired")

	return &app{
		orchestrator: orch,
		hub:          hub,
		bridge:       bridge,
		breaker:      breaker,
		cache:        client.Cache(),
		server:       server,
	}, nil
}
