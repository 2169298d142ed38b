// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

/*
Command geolens runs the GeoLens companion service.

It fetches geotagged media from a remote media service for the map client's
current view and date filters, normalizes the records, and publishes the
resulting fetch state over a local HTTP and WebSocket API.

	RootSupervisor ("geolens")
	├── processing-layer: fetch orchestrator, cache janitor
	├── messaging-layer: WebSocket hub, state bridge
	└── api-layer: HTTP server

# Configuration

Koanf layers, highest priority first: environment, config file, defaults.

	MEDIA_API_BASE_URL=https://media.example.com   # required
	HTTP_PORT=8787
	CORS_ORIGINS=http://localhost:5173
	QUERY_TIMEZONE=Europe/Berlin
	LOG_LEVEL=debug
	LOG_FORMAT=console

A config file is read from CONFIG_PATH, ./config.yaml or /etc/geolens/config.yaml.

# Shutdown

SIGINT or SIGTERM cancels the tree. The orchestrator is disposed, so a fetch
still in flight ends in the failed state and no later result is published.
*/
package main
