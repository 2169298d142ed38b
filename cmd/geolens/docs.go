// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// @title GeoLens API
// @version 1.0
// @description Local companion API for the GeoLens geotagged media map client.
// @description
// @description ## Fetch flow
// @description
// @description POST /media/fetch returns 202 with a generation number. The outcome arrives as a
// @description fetch_state WebSocket message (and through GET /media/state) carrying the same generation.
// @description A newer fetch always supersedes an older one; superseded results are never published.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}, "meta": {"timestamp": "..."}}
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/geolens/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8787
// @BasePath /api/v1
// @schemes http
//
// @tag.name Media
// @tag.description Fetch orchestration, state and the WebSocket stream
//
// @tag.name Health
// @tag.description Liveness, readiness and status
package main
