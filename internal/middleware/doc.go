// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

/*
Package middleware provides HTTP middleware for the local companion API.

Key Components:

  - RequestID: accepts or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation
    labeled by chi route pattern
  - Compression: gzip for JSON responses; media state payloads can be large

All middleware use the func(http.HandlerFunc) http.HandlerFunc shape; the api
package adapts them to chi's r.Use.
*/
package middleware
