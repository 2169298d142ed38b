// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// Package logging provides the zerolog-based structured logger used across GeoLens.
//
// A global logger is configured once at startup from the logging section of
// the configuration:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//
// Every media fetch carries a short correlation ID in its context; use Ctx to
// pick it up so the query build, the HTTP round-trip, the transform worker and
// the state publication all log under the same ID:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Debug().Uint64("generation", gen).Msg("media fetch started")
//
// The slog adapter (NewSlogLogger) exists for sutureslog, which drives the
// supervisor tree's event hook.
//
// Setting GEOLENS_QUIET_LOGS=1 disables output before Init runs, which keeps
// test runs quiet.
package logging
