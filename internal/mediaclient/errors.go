// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package mediaclient

import "fmt"

// UnknownErrorDetail is used when a non-2xx response has no usable detail.
const UnknownErrorDetail = "Unknown error"

// TransportError reports that the media service could not be reached or
// did not answer in time. Breaker rejections are reported the same way.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("media service request failed: %v", e.Err)
	}
	return fmt.Sprintf("media service %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a non-2xx answer from the media service.
type ServerError struct {
	StatusCode int
	// Detail is the server-supplied detail, or "" if none could be read.
	Detail string
}

func (e *ServerError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = UnknownErrorDetail
	}
	return fmt.Sprintf("HTTP error! status: %d, message: %s", e.StatusCode, detail)
}

// Temporary reports whether retrying later might succeed (5xx and 429).
func (e *ServerError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// ParseError reports a 2xx response whose body could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse media response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
