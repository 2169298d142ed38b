// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/geolens/internal/fetch"
)

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status           string        `json:"status"`
	Version          string        `json:"version"`
	Uptime           float64       `json:"uptime_seconds"`
	Fetch            FetchHealth   `json:"fetch"`
	Breaker          *BreakerState `json:"breaker,omitempty"`
	Cache            *CacheHealth  `json:"cache,omitempty"`
	WebSocketClients int           `json:"websocket_clients"`
}

// FetchHealth summarizes the orchestrator.
type FetchHealth struct {
	Phase      fetch.Phase `json:"phase"`
	Generation uint64      `json:"generation"`
	Items      int         `json:"items"`
	ErrorKind  string      `json:"error_kind,omitempty"`
	Disposed   bool        `json:"disposed"`
}

// BreakerState summarizes the media service circuit breaker.
type BreakerState struct {
	State               string `json:"state"`
	Requests            uint32 `json:"requests"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

// CacheHealth summarizes the media response cache.
type CacheHealth struct {
	Entries int     `json:"entries"`
	HitRate float64 `json:"hit_rate"`
}

// Health reports overall status. Degraded means the breaker is open or the
// orchestrator has been disposed; the endpoint still answers 200.
//
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	state := h.media.State()

	health := HealthStatus{
		Status:  "healthy",
		Version: Version,
		Uptime:  time.Since(h.startTime).Seconds(),
		Fetch: FetchHealth{
			Phase:      fetch.PhaseOf(state),
			Generation: state.Generation,
			Items:      len(state.Items),
			ErrorKind:  state.ErrorKind,
			Disposed:   h.media.Disposed(),
		},
	}
	if h.breaker != nil {
		counts := h.breaker.Counts()
		health.Breaker = &BreakerState{
			State:               h.breaker.State(),
			Requests:            counts.Requests,
			ConsecutiveFailures: counts.ConsecutiveFailures,
		}
	}
	if h.cache != nil {
		health.Cache = &CacheHealth{Entries: h.cache.Len(), HitRate: h.cache.HitRate()}
	}
	if h.wsHub != nil {
		health.WebSocketClients = h.wsHub.GetClientCount()
	}
	if reason := h.notReadyReason(); reason != "" {
		health.Status = "degraded"
	}

	WriteSuccess(w, r, health)
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
//
// @Summary Kubernetes liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]any{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 503 while fetches cannot succeed.
//
// @Summary Kubernetes readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if reason := h.notReadyReason(); reason != "" {
		NewResponseWriter(w, r).ServiceUnavailable(reason)
		return
	}
	WriteSuccess(w, r, map[string]any{"ready": true})
}

func (h *Handler) notReadyReason() string {
	if h.media.Disposed() {
		return "Fetch orchestrator disposed"
	}
	if h.breaker != nil && h.breaker.State() == "open" {
		return "Media service circuit breaker open"
	}
	return ""
}
