// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package websocket

import (
	"context"

	"github.com/tomtom215/geolens/internal/logging"
	"github.com/tomtom215/geolens/internal/models"
)

// StateSource publishes FetchState updates. *fetch.Orchestrator implements it.
type StateSource interface {
	Subscribe(buffer int) (<-chan models.FetchState, func())
}

// Broadcaster receives every state the bridge forwards.
type Broadcaster interface {
	BroadcastFetchState(models.FetchState)
}

// bridgeBuffer lets a short burst of transitions through before older ones
// are coalesced by the source.
const bridgeBuffer = 8

// StateBridge forwards every published FetchState to a Broadcaster.
type StateBridge struct {
	source StateSource
	sink   Broadcaster
}

// NewStateBridge creates a bridge from source to sink.
func NewStateBridge(source StateSource, sink Broadcaster) *StateBridge {
	return &StateBridge{source: source, sink: sink}
}

// Serve forwards states until ctx is canceled or the source closes the
// subscription. A closed subscription means the orchestrator was disposed,
// so Serve returns nil and the supervisor does not restart it.
func (b *StateBridge) Serve(ctx context.Context) error {
	states, cancel := b.source.Subscribe(bridgeBuffer)
	defer cancel()

	logger := logging.WithComponent("state-bridge")
	logger.Debug().Msg("state bridge started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state, ok := <-states:
			if !ok {
				logger.Info().Msg("state source closed, bridge stopping")
				return nil
			}
			b.sink.BroadcastFetchState(state)
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (b *StateBridge) String() string {
	return "state-bridge"
}
