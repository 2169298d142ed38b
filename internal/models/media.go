// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// RawMediaRecord is one element of the media list as sent by the server.
// Fields are kept as decoded JSON values (string, float64, bool, nil, map or
// slice) so that malformed records can be inspected and dropped instead of
// failing the whole response.
type RawMediaRecord struct {
	ID           any `json:"id"`
	CaptureTime  any `json:"capture_time"`
	FilePath     any `json:"file_path"`
	ImageURL     any `json:"image_url"`
	ThumbnailURL any `json:"thumbnail_url"`
	Lat          any `json:"lat"`
	Lng          any `json:"lng"`
	Orientation  any `json:"orientation"`
	TrustScore   any `json:"trust_score"`
	UserID       any `json:"user_id"`
	Altitude     any `json:"altitude"`
}

// UnmarshalJSON decodes an object into the record. Any other JSON value
// (null, a number, an array) yields an empty record, which the transformer
// drops.
func (r *RawMediaRecord) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*r = RawMediaRecord{}
		return nil
	}

	type plain RawMediaRecord
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*r = RawMediaRecord(p)
	return nil
}

// MediaResponse is the 2xx body of GET /media. A missing or null media field
// decodes to an empty list.
type MediaResponse struct {
	Media []RawMediaRecord `json:"media"`
}

// ErrorResponse is the optional non-2xx body of GET /media.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// DetailMessage renders Detail for an error message. Strings are returned
// as is, structured details are compacted to JSON, and absent or falsy
// details return "".
func (e ErrorResponse) DetailMessage() string {
	switch d := e.Detail.(type) {
	case nil:
		return ""
	case string:
		return d
	case bool:
		if !d {
			return ""
		}
	case float64:
		if d == 0 {
			return ""
		}
	}

	b, err := json.Marshal(e.Detail)
	if err != nil {
		return ""
	}
	return string(b)
}

// MediaType distinguishes still images from videos.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Location is a point in degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MediaItem is the canonical, validated form of a media record.
// ID, CreatedAt, FileURL and Location are always populated. ID keeps the
// server's JSON type, so a numeric id stays a number.
type MediaItem struct {
	ID                 any        `json:"id"`
	Title              string     `json:"title"`
	ThumbnailURL       string     `json:"thumbnailUrl"`
	FileURL            string     `json:"fileUrl"`
	MediaType          MediaType  `json:"mediaType"`
	CreatedAt          string     `json:"createdAt"`
	CreatedAtTimestamp int64      `json:"createdAtTimestamp"` // epoch ms, 0 if unparseable
	Location           Location   `json:"location"`
	Coordinates        [2]float64 `json:"coordinates"` // [lat, lng]
	Orientation        any        `json:"orientation"`
	TrustScore         any        `json:"trustScore"`
	UserID             any        `json:"userId"`
	Altitude           any        `json:"altitude"`
}
