// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package fetch

import (
	"errors"

	"github.com/tomtom215/geolens/internal/mediaclient"
	"github.com/tomtom215/geolens/internal/metrics"
	"github.com/tomtom215/geolens/internal/query"
	"github.com/tomtom215/geolens/internal/transform"
)

// ProcessingFailureMessage is published when the transform worker faults.
const ProcessingFailureMessage = "Failed to process media data."

// ErrorKind is the failure taxonomy observers see in FetchState.ErrorKind.
type ErrorKind string

const (
	KindBuild      ErrorKind = "build"
	KindTransport  ErrorKind = "transport"
	KindServer     ErrorKind = "server"
	KindParse      ErrorKind = "parse"
	KindProcessing ErrorKind = "processing"
)

// Classify maps an error from any stage of a fetch to its kind. Unrecognized
// errors are treated as transport failures.
func Classify(err error) ErrorKind {
	var (
		dateErr      *query.InvalidDateError
		serverErr    *mediaclient.ServerError
		parseErr     *mediaclient.ParseError
		transportErr *mediaclient.TransportError
		procErr      *transform.ProcessingError
	)
	switch {
	case errors.As(err, &dateErr):
		return KindBuild
	case errors.As(err, &procErr), errors.Is(err, transform.ErrWorkerStopped), errors.Is(err, ErrDisposed):
		return KindProcessing
	case errors.As(err, &serverErr):
		return KindServer
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindTransport
	}
}

// userMessage is the text published for err.
func userMessage(kind ErrorKind, err error) string {
	if kind == KindProcessing {
		return ProcessingFailureMessage
	}
	return err.Error()
}

func outcomeLabel(kind ErrorKind) string {
	switch kind {
	case KindBuild:
		return metrics.OutcomeBuild
	case KindServer:
		return metrics.OutcomeServer
	case KindParse:
		return metrics.OutcomeParse
	case KindProcessing:
		return metrics.OutcomeProcessing
	default:
		return metrics.OutcomeTransport
	}
}
