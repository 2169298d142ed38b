// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package api

import "errors"

// Common API errors
var (
	// ErrEmptyBody indicates a request that requires a JSON body had none.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrInvalidIndex indicates a non-numeric or negative item index.
	ErrInvalidIndex = errors.New("item index must be a non-negative integer")
)
