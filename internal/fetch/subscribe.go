// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package fetch

import (
	"sync"

	"github.com/tomtom215/geolens/internal/models"
)

// Phase is the coarse lifecycle position derived from a FetchState.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseFetching  Phase = "fetching"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// PhaseOf reports the phase of s.
func PhaseOf(s models.FetchState) Phase {
	switch {
	case s.IsFetching:
		return PhaseFetching
	case s.Failed():
		return PhaseFailed
	case s.Generation == 0:
		return PhaseIdle
	default:
		return PhaseSucceeded
	}
}

// DefaultSubscriberBuffer is used when Subscribe is given a buffer below 1.
const DefaultSubscriberBuffer = 1

type subscriber struct {
	mu     sync.Mutex
	ch     chan models.FetchState
	closed bool
}

// deliver sends s without blocking. When the buffer is full the oldest
// pending state is discarded so a slow reader always ends up on the latest.
func (s *subscriber) deliver(state models.FetchState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- state:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// Subscribe returns a channel receiving every published FetchState, starting
// with the current one. Slow readers skip intermediate states. The channel is
// closed by the returned cancel func or by Dispose.
func (o *Orchestrator) Subscribe(buffer int) (<-chan models.FetchState, func()) {
	if buffer < 1 {
		buffer = DefaultSubscriberBuffer
	}
	sub := &subscriber{ch: make(chan models.FetchState, buffer)}

	o.mu.Lock()
	if o.disposed {
		o.mu.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	o.nextSubID++
	id := o.nextSubID
	o.subs[id] = sub
	sub.deliver(o.state)
	o.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
			sub.close()
		})
	}
	return sub.ch, cancel
}

// publishLocked replaces the state and fans it out. Callers hold o.mu, which
// keeps deliveries in publication order.
func (o *Orchestrator) publishLocked(s models.FetchState) {
	if s.Items == nil {
		s.Items = []models.MediaItem{}
	}
	o.state = s
	for _, sub := range o.subs {
		sub.deliver(s)
	}
}
