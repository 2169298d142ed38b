// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

/*
Package supervisor runs the GeoLens long-lived components under suture v4.

	RootSupervisor ("geolens")
	├── ProcessingSupervisor ("processing-layer")
	│   ├── fetch.Orchestrator ("fetch-orchestrator")
	│   └── CacheJanitorService (when the media cache is enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket.Hub ("websocket-hub")
	│   └── websocket.StateBridge ("state-bridge")
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff; supervisor events are logged
through sutureslog into the zerolog pipeline.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddProcessingService(orchestrator)
	tree.AddMessagingService(hub)
	tree.AddMessagingService(websocket.NewStateBridge(orchestrator, hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)

The orchestrator's Serve disposes it when the tree stops.
*/
package supervisor
