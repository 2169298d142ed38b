// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package models

// FetchState is the observable result of the most recent fetch.
// It is always replaced as a whole; Items is shared between snapshots and
// must be treated as read-only.
type FetchState struct {
	Items      []MediaItem `json:"items"`
	IsFetching bool        `json:"isFetching"`
	Error      *string     `json:"error"`

	// ErrorKind classifies Error: build, transport, server, parse or processing.
	ErrorKind string `json:"errorKind,omitempty"`

	// Generation is the token of the fetch this state belongs to.
	Generation uint64 `json:"generation"`
}

// ErrorMessage returns the error text, or "" when the state carries no error.
func (s FetchState) ErrorMessage() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

// Failed reports whether the state carries an error.
func (s FetchState) Failed() bool {
	return s.Error != nil
}
