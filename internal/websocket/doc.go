// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

/*
Package websocket pushes fetch state to connected map and grid views.

Key Components:

  - Hub: manages client connections and broadcasts messages
  - Client: one WebSocket connection with its read and write goroutines
  - StateBridge: subscribes to the fetch orchestrator and broadcasts every
    published FetchState as a fetch_state message

Architecture:

	Orchestrator ──Subscribe──▶ StateBridge ──BroadcastFetchState──▶ Hub
	                                                                  │
	                                        ┌──────────┬──────────────┤
	                                        │ Client1  │ Client2 ...  │

A newly connected client first receives the current state, so a view that
opens mid-fetch renders the loading indicator immediately.

Message Types:

  - fetch_state: a models.FetchState (server to client)
  - get_state: asks for the current state (client to server)
  - ping / pong: application-level keepalive

Wire format:

	{"type":"fetch_state","data":{"items":[...],"isFetching":false,"error":null,"generation":3}}
*/
package websocket
