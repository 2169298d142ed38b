// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// Package geo holds the coordinate math used to turn a map viewport into a
// bounded media query.
//
// All functions are total: they never fail and never return NaN or Inf, so
// callers can feed raw UI values straight in.
package geo

import "math"

const (
	// MaxRadius is the search radius at or below ZoomOffset, in the remote
	// service's distance unit.
	MaxRadius = 120_600_000

	// MinRadius is the floor the radius never drops below, however far the map is zoomed in.
	MinRadius = 25

	// ZoomOffset is the zoom level after which the radius starts halving.
	ZoomOffset = 5

	// UnboundedRadius is the sentinel radius used when no viewport constrains
	// the query (grid view, or a map that has not reported its viewport yet).
	UnboundedRadius = 2_000_000_000
)

// RadiusFromZoom derives the search radius for a zoom level. The radius
// halves for every zoom unit beyond ZoomOffset and is clamped to MinRadius:
//
//	radius = max(MinRadius, MaxRadius / 2^max(0, zoom-ZoomOffset))
//
// A NaN zoom is treated as fully zoomed out.
func RadiusFromZoom(zoom float64) float64 {
	if math.IsNaN(zoom) {
		return MaxRadius
	}
	offset := math.Max(0, zoom-ZoomOffset)
	return math.Max(MinRadius, MaxRadius/math.Pow(2, offset))
}

// NormalizeLongitude wraps lng into (-180, 180]. Non-finite input maps to 0.
func NormalizeLongitude(lng float64) float64 {
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return 0
	}
	lng = math.Mod(lng, 360)
	if lng > 180 {
		lng -= 360
	}
	if lng <= -180 {
		lng += 360
	}
	if lng == 0 {
		// collapse -0
		return 0
	}
	return lng
}

// NormalizeLatitude clamps lat into [-90, 90]. NaN maps to 0.
func NormalizeLatitude(lat float64) float64 {
	if math.IsNaN(lat) {
		return 0
	}
	return math.Max(-90, math.Min(90, lat))
}
