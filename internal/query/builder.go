// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package query

import (
	"fmt"
	"time"

	"github.com/tomtom215/geolens/internal/geo"
	"github.com/tomtom215/geolens/internal/validation"
)

const (
	// InstantLayout is the canonical UTC format for start_date and end_date.
	InstantLayout = "2006-01-02T15:04:05.000Z"

	dateLayout = "2006-01-02"

	defaultStartTime = "00:00:00"
	defaultEndTime   = "23:59:59"
)

var (
	// MinInstant is sent as start_date when no start date is set.
	MinInstant = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

	// MaxInstant is sent as end_date when no end date is set.
	MaxInstant = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// InvalidDateError reports a date or time in the filter that cannot be turned
// into an absolute instant. It is raised before any network call is made.
type InvalidDateError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// filterFieldNames maps struct field names reported by the validator to the
// names callers use on the wire.
var filterFieldNames = map[string]string{
	"StartDate": "startDate",
	"StartTime": "startTime",
	"EndDate":   "endDate",
	"EndTime":   "endTime",
}

// Builder turns viewport and filter state into Parameters.
// Calendar-local dates are interpreted in the builder's location.
type Builder struct {
	loc *time.Location
}

// NewBuilder creates a Builder. A nil location means time.Local.
func NewBuilder(loc *time.Location) *Builder {
	if loc == nil {
		loc = time.Local
	}
	return &Builder{loc: loc}
}

// Location returns the location calendar-local input is interpreted in.
func (b *Builder) Location() *time.Location {
	return b.loc
}

// Build derives the query for one fetch. Map mode with a viewport yields a
// bounded circle around the normalized center; every other combination
// yields the unbounded sentinel. A malformed date or time fails with
// *InvalidDateError and never falls back to a default.
func (b *Builder) Build(mode Mode, viewport *Viewport, filter DateFilter) (Parameters, error) {
	var p Parameters

	if mode == ModeMap && viewport != nil {
		p.Lat = formatNumber(geo.NormalizeLatitude(viewport.Center.Lat))
		p.Lng = formatNumber(geo.NormalizeLongitude(viewport.Center.Lng))
		p.Radius = formatNumber(geo.RadiusFromZoom(viewport.Zoom))
	} else {
		p.Lat = "0"
		p.Lng = "0"
		p.Radius = formatNumber(geo.UnboundedRadius)
	}

	// A time of day only has meaning next to its date.
	if filter.StartDate == "" {
		filter.StartTime = ""
	}
	if filter.EndDate == "" {
		filter.EndTime = ""
	}
	if verr := validation.ValidateStruct(&filter); verr != nil {
		first := verr.First()
		value, _ := first.Value().(string)
		return Parameters{}, &InvalidDateError{
			Field: fieldName(first.Field()),
			Value: value,
			Err:   verr,
		}
	}

	start, err := b.instant(filter.StartDate, filter.StartTime, defaultStartTime, MinInstant)
	if err != nil {
		return Parameters{}, err
	}
	end, err := b.instant(filter.EndDate, filter.EndTime, defaultEndTime, MaxInstant)
	if err != nil {
		return Parameters{}, err
	}
	p.StartDate = start.Format(InstantLayout)
	p.EndDate = end.Format(InstantLayout)

	return p, nil
}

// instant combines a local date and clock time into a UTC instant.
func (b *Builder) instant(date, clock, defaultClock string, fallback time.Time) (time.Time, error) {
	if date == "" {
		return fallback, nil
	}
	if clock == "" {
		clock = defaultClock
	}

	day, err := time.ParseInLocation(dateLayout, date, b.loc)
	if err != nil {
		return time.Time{}, &InvalidDateError{Field: "date", Value: date, Err: err}
	}
	tod, err := validation.ParseClockTime(clock)
	if err != nil {
		return time.Time{}, &InvalidDateError{Field: "time", Value: clock, Err: err}
	}

	local := time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, b.loc)
	return local.UTC(), nil
}

func fieldName(structField string) string {
	if name, ok := filterFieldNames[structField]; ok {
		return name
	}
	return structField
}
