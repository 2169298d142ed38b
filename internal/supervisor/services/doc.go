// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// Package services adapts blocking components to suture.Service.
//
// The fetch orchestrator, WebSocket hub and state bridge already implement
// Serve(ctx) error and String() and are added to the tree directly. This
// package covers the components that do not:
//
//   - HTTPServerService: *http.Server with graceful Shutdown
//   - CacheJanitorService: the media response cache's expiry sweep
package services
