// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// Package metrics registers the Prometheus collectors exported on /metrics.
//
// Collectors are package-level promauto vectors; callers normally go through
// the Record* helpers rather than touching the vectors directly.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes used as the "outcome" label.
const (
	OutcomeSucceeded  = "succeeded"
	OutcomeBuild      = "build_error"
	OutcomeTransport  = "transport_error"
	OutcomeServer     = "server_error"
	OutcomeParse      = "parse_error"
	OutcomeProcessing = "processing_error"
	OutcomeStale      = "stale"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of local API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Local API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active local API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Media Fetch Metrics
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_fetch_total",
			Help: "Total number of finished media fetches by outcome",
		},
		[]string{"outcome"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_fetch_duration_seconds",
			Help:    "Time from fetch start to published state",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	FetchInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_fetch_in_flight",
			Help: "Fetches started but not yet finished or superseded",
		},
	)

	FetchStaleDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_fetch_stale_dropped_total",
			Help: "Replies discarded because a newer fetch had started",
		},
	)

	PublishedItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_published_items",
			Help: "Number of media items in the current published state",
		},
	)

	// Remote Media Service Metrics
	MediaRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_service_request_duration_seconds",
			Help:    "Duration of GET /media calls against the remote service",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"}, // "ok", "http_4xx", "http_5xx", "transport", "parse"
	)

	MediaRecordsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_service_records_received_total",
			Help: "Raw media records received from the remote service",
		},
	)

	MediaRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_service_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the outbound rate limiter",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// Transform Worker Metrics
	TransformDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transform_duration_seconds",
			Help:    "Time spent validating, mapping and sorting one batch",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	TransformRecordsKept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transform_records_kept_total",
			Help: "Records converted into media items",
		},
	)

	TransformRecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transform_records_dropped_total",
			Help: "Records dropped during validation",
		},
		[]string{"reason"},
	)

	TransformFaults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transform_faults_total",
			Help: "Transform jobs that panicked",
		},
	)

	TransformJobsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transform_jobs_skipped_total",
			Help: "Transform jobs skipped because their fetch was superseded",
		},
	)

	TransformQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "transform_queue_depth",
			Help: "Jobs waiting in the transform worker queue",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cache entries",
		},
		[]string{"cache"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records a local API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFetchStarted marks a fetch as in flight.
func RecordFetchStarted() {
	FetchInFlight.Inc()
}

// RecordFetchFinished records a fetch outcome and takes it out of flight.
// Superseded fetches use OutcomeStale and also bump the stale counter.
func RecordFetchFinished(outcome string, duration time.Duration) {
	FetchInFlight.Dec()
	FetchTotal.WithLabelValues(outcome).Inc()
	FetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome == OutcomeStale {
		FetchStaleDropped.Inc()
	}
}

// SetPublishedItems sets the published items gauge.
func SetPublishedItems(n int) {
	PublishedItems.Set(float64(n))
}

// RecordMediaRequest records one call to the remote media service.
func RecordMediaRequest(result string, duration time.Duration, records int) {
	MediaRequestDuration.WithLabelValues(result).Observe(duration.Seconds())
	if records > 0 {
		MediaRecordsReceived.Add(float64(records))
	}
}

// RecordTransform records one completed transform batch.
func RecordTransform(duration time.Duration, kept int, dropped map[string]int) {
	TransformDuration.Observe(duration.Seconds())
	TransformRecordsKept.Add(float64(kept))
	for reason, n := range dropped {
		TransformRecordsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}
