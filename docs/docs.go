// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// Package docs holds the OpenAPI description served at /swagger/doc.json.
// It follows the layout swag init produces; regenerate with
// swag init -g cmd/geolens/doc.go after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/geolens/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/api.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.HealthStatus"}}}
                            ]
                        }
                    }
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Kubernetes liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Kubernetes readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/media/fetch": {
            "post": {
                "description": "Supersedes any in-flight fetch. A malformed date is reported through the fetch state, not as a 400.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Media"],
                "summary": "Start a media fetch",
                "parameters": [
                    {
                        "description": "View and filters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/fetch.Request"}
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Fetch started",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/api.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.FetchAccepted"}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "413": {"description": "Request body too large", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Orchestrator disposed", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/media/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Media"],
                "summary": "Current fetch state",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/api.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/models.FetchState"}}}
                            ]
                        }
                    }
                }
            }
        },
        "/media/items/{index}": {
            "get": {
                "description": "Items are ordered newest first, matching the state's items array.",
                "produces": ["application/json"],
                "tags": ["Media"],
                "summary": "Get a media item",
                "parameters": [
                    {"type": "integer", "description": "Zero-based position", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/api.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/models.MediaItem"}}}
                            ]
                        }
                    },
                    "400": {"description": "Index is not a non-negative integer", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Index out of range", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Sends the current state on connect and every change after. Accepts ping and get_state messages.",
                "tags": ["Media"],
                "summary": "Fetch state stream",
                "responses": {
                    "101": {"description": "Switching protocols"},
                    "503": {"description": "WebSocket hub not running", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {},
                "message": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "api.APIMeta": {
            "type": "object",
            "properties": {
                "duration_ms": {"type": "integer"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "meta": {"$ref": "#/definitions/api.APIMeta"},
                "success": {"type": "boolean"}
            }
        },
        "api.FetchAccepted": {
            "type": "object",
            "properties": {
                "generation": {"type": "integer"}
            }
        },
        "api.HealthStatus": {
            "type": "object",
            "properties": {
                "breaker": {
                    "type": "object",
                    "properties": {
                        "consecutive_failures": {"type": "integer"},
                        "requests": {"type": "integer"},
                        "state": {"type": "string"}
                    }
                },
                "cache": {
                    "type": "object",
                    "properties": {
                        "entries": {"type": "integer"},
                        "hit_rate": {"type": "number"}
                    }
                },
                "fetch": {
                    "type": "object",
                    "properties": {
                        "disposed": {"type": "boolean"},
                        "error_kind": {"type": "string"},
                        "generation": {"type": "integer"},
                        "items": {"type": "integer"},
                        "phase": {"type": "string", "enum": ["idle", "fetching", "succeeded", "failed"]}
                    }
                },
                "status": {"type": "string"},
                "uptime_seconds": {"type": "number"},
                "version": {"type": "string"},
                "websocket_clients": {"type": "integer"}
            }
        },
        "fetch.Request": {
            "type": "object",
            "properties": {
                "filterParams": {"$ref": "#/definitions/query.DateFilter"},
                "mapParams": {"$ref": "#/definitions/query.Viewport"},
                "view": {"type": "string", "example": "map"}
            }
        },
        "models.FetchState": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "errorKind": {"type": "string", "enum": ["build", "transport", "server", "parse", "processing"]},
                "generation": {"type": "integer"},
                "isFetching": {"type": "boolean"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.MediaItem"}}
            }
        },
        "models.Location": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"}
            }
        },
        "models.MediaItem": {
            "type": "object",
            "properties": {
                "altitude": {},
                "coordinates": {"type": "array", "items": {"type": "number"}},
                "createdAt": {"type": "string"},
                "createdAtTimestamp": {"type": "integer"},
                "fileUrl": {"type": "string"},
                "id": {"description": "Server id, passed through with its JSON type (number or string)"},
                "location": {"$ref": "#/definitions/models.Location"},
                "mediaType": {"type": "string", "enum": ["image", "video"]},
                "orientation": {},
                "thumbnailUrl": {"type": "string"},
                "title": {"type": "string"},
                "trustScore": {},
                "userId": {}
            }
        },
        "query.DateFilter": {
            "type": "object",
            "properties": {
                "endDate": {"type": "string", "example": "2024-12-31"},
                "endTime": {"type": "string", "example": "23:59"},
                "startDate": {"type": "string", "example": "2024-01-01"},
                "startTime": {"type": "string", "example": "08:00"}
            }
        },
        "query.LatLng": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"}
            }
        },
        "query.Viewport": {
            "type": "object",
            "properties": {
                "center": {"$ref": "#/definitions/query.LatLng"},
                "zoom": {"type": "number"}
            }
        }
    },
    "tags": [
        {"description": "Fetch orchestration, state and the WebSocket stream", "name": "Media"},
        {"description": "Liveness, readiness and status", "name": "Health"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8787",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "GeoLens API",
	Description:      "Local companion API for the GeoLens geotagged media map client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
