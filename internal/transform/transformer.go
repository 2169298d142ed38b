// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// Package transform converts untrusted media records into ordered,
// canonical media items, and runs that conversion on a dedicated worker
// goroutine so large batches never hold up the fetch orchestrator.
package transform

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/geolens/internal/models"
)

// DropReason labels why a record was rejected.
type DropReason string

const (
	DropMissingID          DropReason = "missing_id"
	DropMissingCaptureTime DropReason = "missing_capture_time"
	DropMissingFilePath    DropReason = "missing_file_path"
	DropInvalidCoordinates DropReason = "invalid_coordinates"
	DropMissingImageURL    DropReason = "missing_image_url"
)

// maxEpochMillis is the largest magnitude a capture timestamp may have,
// matching the ±100,000,000 day range of ECMAScript dates the service emits.
const maxEpochMillis = 8.64e15

// Stats summarizes one batch.
type Stats struct {
	Received int
	Kept     int
	Dropped  map[DropReason]int
}

// DroppedTotal returns the number of rejected records.
func (s Stats) DroppedTotal() int {
	return s.Received - s.Kept
}

// Processor turns a raw batch into ordered items. Transformer is the
// production implementation; the worker accepts any Processor.
type Processor interface {
	Process(raw []models.RawMediaRecord) ([]models.MediaItem, Stats)
}

// Transformer validates, maps and orders media records. It holds no mutable
// state and is safe for concurrent use.
type Transformer struct {
	// Location interprets capture times without a UTC offset.
	// Nil means time.Local.
	Location *time.Location
}

// Transform returns the valid records of raw as media items, newest first.
// A nil input yields an empty, non-nil slice.
func (t Transformer) Transform(raw []models.RawMediaRecord) []models.MediaItem {
	items, _ := t.Process(raw)
	return items
}

// Process is Transform with per-batch statistics.
func (t Transformer) Process(raw []models.RawMediaRecord) ([]models.MediaItem, Stats) {
	stats := Stats{Received: len(raw), Dropped: make(map[DropReason]int)}
	items := make([]models.MediaItem, 0, len(raw))

	for i := range raw {
		rec := &raw[i]
		if reason, ok := validate(rec); !ok {
			stats.Dropped[reason]++
			continue
		}
		items = append(items, t.toItem(rec))
	}
	stats.Kept = len(items)

	slices.SortStableFunc(items, func(a, b models.MediaItem) int {
		return cmp.Compare(b.CreatedAtTimestamp, a.CreatedAtTimestamp)
	})
	return items, stats
}

// validate applies the presence checks. A record must carry a truthy id,
// capture_time and file_path, numeric lat and lng, and a string image_url.
func validate(rec *models.RawMediaRecord) (DropReason, bool) {
	switch {
	case !truthy(rec.ID):
		return DropMissingID, false
	case !truthy(rec.CaptureTime):
		return DropMissingCaptureTime, false
	case !truthy(rec.FilePath):
		return DropMissingFilePath, false
	}
	if _, ok := rec.Lat.(float64); !ok {
		return DropInvalidCoordinates, false
	}
	if _, ok := rec.Lng.(float64); !ok {
		return DropInvalidCoordinates, false
	}
	if _, ok := rec.ImageURL.(string); !ok {
		return DropMissingImageURL, false
	}
	return "", true
}

func (t Transformer) toItem(rec *models.RawMediaRecord) models.MediaItem {
	lat := rec.Lat.(float64)
	lng := rec.Lng.(float64)
	imageURL := rec.ImageURL.(string)

	item := models.MediaItem{
		ID:                 rec.ID,
		Title:              stringify(rec.FilePath),
		FileURL:            imageURL,
		MediaType:          models.MediaTypeImage,
		ThumbnailURL:       imageURL,
		CreatedAt:          stringify(rec.CaptureTime),
		CreatedAtTimestamp: t.captureMillis(rec.CaptureTime),
		Location:           models.Location{Lat: lat, Lng: lng},
		Coordinates:        [2]float64{lat, lng},
		Orientation:        rec.Orientation,
		TrustScore:         rec.TrustScore,
		UserID:             rec.UserID,
		Altitude:           rec.Altitude,
	}

	if strings.HasSuffix(strings.ToLower(imageURL), ".mp4") {
		item.MediaType = models.MediaTypeVideo
		thumb, _ := rec.ThumbnailURL.(string)
		item.ThumbnailURL = thumb
	}
	return item
}

// offsetLayouts carry their own UTC offset.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	time.RFC1123Z,
	time.RFC1123,
}

// localLayouts are wall-clock times interpreted in the transformer's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
}

// captureMillis parses a capture time into Unix milliseconds, or 0.
func (t Transformer) captureMillis(v any) int64 {
	switch c := v.(type) {
	case float64:
		if math.IsNaN(c) || math.Abs(c) > maxEpochMillis {
			return 0
		}
		return int64(c)
	case string:
		ts, ok := t.parseCaptureTime(strings.TrimSpace(c))
		if !ok {
			return 0
		}
		ms := ts.UnixMilli()
		if math.Abs(float64(ms)) > maxEpochMillis {
			return 0
		}
		return ms
	default:
		return 0
	}
}

func (t Transformer) parseCaptureTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range offsetLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}

	loc := t.Location
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range localLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, true
		}
	}

	// Date-only forms are UTC midnight.
	if ts, err := time.Parse(time.DateOnly, s); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

// truthy reports whether a decoded JSON value would be considered set:
// not null, not false, not zero or NaN, and not the empty string.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

// stringify renders a decoded JSON value as display text.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
