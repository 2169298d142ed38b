// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/geolens/internal/fetch"
	"github.com/tomtom215/geolens/internal/logging"
	"github.com/tomtom215/geolens/internal/validation"
	ws "github.com/tomtom215/geolens/internal/websocket"
)

// FetchAccepted is the body of a 202 from FetchMedia.
type FetchAccepted struct {
	// Generation identifies the fetch; the state that answers it carries the same value.
	Generation uint64 `json:"generation"`
}

// FetchMedia starts a fetch for the current view and filters.
//
// The fetch completes asynchronously. Its outcome is published as a
// fetch_state message on the WebSocket and through GET /api/v1/media/state.
//
// @Summary Start a media fetch
// @Description Supersedes any in-flight fetch. A malformed date is reported through the fetch state, not as a 400.
// @Tags Media
// @Accept json
// @Produce json
// @Param request body fetch.Request true "View and filters"
// @Success 202 {object} APIResponse{data=FetchAccepted} "Fetch started"
// @Failure 400 {object} APIResponse "Invalid request body"
// @Failure 413 {object} APIResponse "Request body too large"
// @Failure 503 {object} APIResponse "Orchestrator disposed"
// @Router /media/fetch [post]
func (h *Handler) FetchMedia(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req fetch.Request
	if err := decodeJSON(w, r, &req); err != nil {
		switch {
		case isBodyTooLarge(err):
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Request body too large")
		case errors.Is(err, ErrEmptyBody):
			rw.BadRequest(err.Error())
		default:
			rw.BadRequest("Invalid JSON request body")
		}
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	if h.media.Disposed() {
		rw.ServiceUnavailable("Media fetching has been shut down")
		return
	}

	generation := h.media.FetchMedia(r.Context(), req)
	logging.Ctx(r.Context()).Debug().
		Str("view", sanitizeLogValue(string(req.View))).
		Uint64("generation", generation).
		Msg("fetch requested")

	rw.Accepted(FetchAccepted{Generation: generation})
}

// MediaState returns the most recently published fetch state.
//
// @Summary Current fetch state
// @Tags Media
// @Produce json
// @Success 200 {object} APIResponse{data=models.FetchState}
// @Router /media/state [get]
func (h *Handler) MediaState(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.media.State())
}

// MediaItem returns one item of the current collection by position.
//
// @Summary Get a media item
// @Description Items are ordered newest first, matching the state's items array.
// @Tags Media
// @Produce json
// @Param index path int true "Zero-based position"
// @Success 200 {object} APIResponse{data=models.MediaItem}
// @Failure 400 {object} APIResponse "Index is not a non-negative integer"
// @Failure 404 {object} APIResponse "Index out of range"
// @Router /media/items/{index} [get]
func (h *Handler) MediaItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	index, err := parseIndex(chi.URLParam(r, "index"))
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	item, ok := h.media.Item(index)
	if !ok {
		rw.NotFound("No media item at that index")
		return
	}
	rw.Success(item)
}

// WebSocket upgrades the connection and streams fetch_state messages.
//
// @Summary Fetch state stream
// @Description Sends the current state on connect and every change after. Accepts ping and get_state messages.
// @Tags Media
// @Success 101 "Switching protocols"
// @Failure 503 {object} APIResponse "WebSocket hub not running"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		NewResponseWriter(w, r).ServiceUnavailable("WebSocket service unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	if !h.wsHub.RegisterClient(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}
	client.Start()
}
