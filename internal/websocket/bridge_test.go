// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package websocket

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/geolens/internal/models"
)

type chanSource struct {
	ch       chan models.FetchState
	canceled chan struct{}
	once     sync.Once
}

func newChanSource() *chanSource {
	return &chanSource{ch: make(chan models.FetchState, 8), canceled: make(chan struct{})}
}

func (s *chanSource) Subscribe(int) (<-chan models.FetchState, func()) {
	return s.ch, func() { s.once.Do(func() { close(s.canceled) }) }
}

type recordingSink struct {
	mu     sync.Mutex
	states []models.FetchState
}

func (r *recordingSink) BroadcastFetchState(s models.FetchState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recordingSink) generations() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint64, len(r.states))
	for i, s := range r.states {
		out[i] = s.Generation
	}
	return out
}

func TestStateBridge_ForwardsUntilSourceCloses(t *testing.T) {
	src := newChanSource()
	sink := &recordingSink{}
	bridge := NewStateBridge(src, sink)

	src.ch <- models.FetchState{Generation: 1, IsFetching: true}
	src.ch <- models.FetchState{Generation: 1}
	close(src.ch)

	if err := bridge.Serve(context.Background()); err != nil {
		t.Fatalf("Serve() = %v, want nil on closed source", err)
	}
	if got := sink.generations(); len(got) != 2 || got[0] != 1 || got[1] != 1 {
		t.Errorf("forwarded = %v", got)
	}
	select {
	case <-src.canceled:
	default:
		t.Error("subscription not canceled")
	}
}

func TestStateBridge_StopsOnContext(t *testing.T) {
	src := newChanSource()
	bridge := NewStateBridge(src, &recordingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bridge.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("bridge did not stop")
	}
}

func TestStateBridge_IntoHub(t *testing.T) {
	hub := setupHub(t, nil)
	client := createTestClient(hub, 4)
	hub.Register <- client
	waitForClients(t, hub, 1)

	src := newChanSource()
	src.ch <- models.FetchState{Generation: 9}
	close(src.ch)
	if err := NewStateBridge(src, hub).Serve(context.Background()); err != nil {
		t.Fatal(err)
	}

	msg, ok := receive(t, client)
	if !ok || msg.Data.(models.FetchState).Generation != 9 {
		t.Errorf("client got %+v", msg)
	}
}
