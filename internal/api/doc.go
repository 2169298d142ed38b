// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

/*
Package api provides the local companion HTTP API for GeoLens.

The map and grid views drive the fetch orchestrator through this API and
receive its state over a WebSocket. Every JSON response uses the APIResponse
envelope:

	{"success":true,"data":{...},"meta":{"request_id":"...","timestamp":"..."}}
	{"success":false,"error":{"code":"VALIDATION_ERROR","message":"..."},"meta":{...}}

Endpoints:

  - POST /api/v1/media/fetch: start a fetch, 202 {"generation":N}
  - GET /api/v1/media/state: current FetchState
  - GET /api/v1/media/items/{index}: one item of the current collection
  - GET /api/v1/ws: fetch_state stream
  - GET /api/v1/health, /api/v1/health/live, /api/v1/health/ready
  - GET /metrics (Prometheus) and /swagger/* (OpenAPI UI)

Middleware stack (outermost first): request ID, RealIP, Recoverer, CORS, then
per route group rate limiting, security headers, Prometheus metrics and gzip.

Usage:

	handler := api.NewHandler(cfg, orchestrator, hub)
	handler.SetBreaker(breakerClient)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Server))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
