// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/geolens/internal/cache"
	"github.com/tomtom215/geolens/internal/config"
	"github.com/tomtom215/geolens/internal/fetch"
	"github.com/tomtom215/geolens/internal/models"
	ws "github.com/tomtom215/geolens/internal/websocket"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// MediaService is the part of the fetch orchestrator the API drives.
type MediaService interface {
	FetchMedia(ctx context.Context, req fetch.Request) uint64
	State() models.FetchState
	Item(index int) (models.MediaItem, bool)
	Disposed() bool
}

// BreakerStatus reports the media service circuit breaker.
type BreakerStatus interface {
	State() string
	Counts() gobreaker.Counts
}

// Handler serves the companion API.
type Handler struct {
	media     MediaService
	wsHub     *ws.Hub
	breaker   BreakerStatus
	cache     *cache.Cache
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a Handler. wsHub may be nil, in which case the
// WebSocket endpoint answers 503.
func NewHandler(cfg *config.Config, media MediaService, wsHub *ws.Hub) *Handler {
	return &Handler{
		media:     media,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
	}
}

// SetBreaker attaches the circuit breaker consulted by readiness checks.
func (h *Handler) SetBreaker(b BreakerStatus) {
	h.breaker = b
}

// SetCache attaches the media response cache reported by Health.
func (h *Handler) SetCache(c *cache.Cache) {
	h.cache = c
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts an upgrade only from an origin the CORS
// configuration allows. Requests without an Origin header are rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	if h.config == nil {
		return false
	}
	for _, allowed := range h.config.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
