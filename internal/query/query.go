// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// Package query builds the parameter set sent to the remote media endpoint
// from either a map viewport or an explicit date range.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Mode selects how the query is bounded. Any value other than ModeMap is
// treated as an unbounded grid query.
type Mode string

const (
	ModeMap  Mode = "map"
	ModeGrid Mode = "grid"
)

// LatLng is a geographic point in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Viewport is the map's current center and zoom level.
type Viewport struct {
	Center LatLng  `json:"center"`
	Zoom   float64 `json:"zoom"`
}

// DateFilter is a calendar-local date range as entered by the user.
// Empty strings mean "not set".
type DateFilter struct {
	StartDate string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime string `json:"startTime,omitempty" validate:"omitempty,clocktime"`
	EndDate   string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndTime   string `json:"endTime,omitempty" validate:"omitempty,clocktime"`
}

// Parameters is the canonical query for one fetch. Every value is already
// serialized the way the media endpoint expects it.
type Parameters struct {
	Lat       string `json:"lat"`
	Lng       string `json:"lng"`
	Radius    string `json:"radius"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Values returns the parameters as url.Values.
func (p Parameters) Values() url.Values {
	v := make(url.Values, 5)
	for _, kv := range p.pairs() {
		v.Set(kv[0], kv[1])
	}
	return v
}

// Encode returns the query string with keys in their fixed
// lat, lng, radius, start_date, end_date order. The order doubles as a stable
// cache key.
func (p Parameters) Encode() string {
	var sb strings.Builder
	for i, kv := range p.pairs() {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(kv[0])
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv[1]))
	}
	return sb.String()
}

func (p Parameters) pairs() [5][2]string {
	return [5][2]string{
		{"lat", p.Lat},
		{"lng", p.Lng},
		{"radius", p.Radius},
		{"start_date", p.StartDate},
		{"end_date", p.EndDate},
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
