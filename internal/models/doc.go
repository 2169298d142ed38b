// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// Package models defines the wire types received from the remote media
// service and the canonical types published to observers.
//
// Wire types (RawMediaRecord, MediaResponse, ErrorResponse) are untrusted:
// every field is decoded loosely and validated later by the transformer.
// Canonical types (MediaItem, FetchState) are produced by the pipeline and
// are never mutated after publication.
package models
