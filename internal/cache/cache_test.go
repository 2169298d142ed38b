// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCache_SetGet(t *testing.T) {
	t.Parallel()

	c := New("test", time.Minute)
	c.Set("k", "v")

	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Fatalf("Get(k) = %v, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	s := c.GetStats()
	if s.Hits != 1 || s.Misses != 1 || s.TotalKeys != 1 {
		t.Errorf("stats = %+v", s)
	}
	if c.HitRate() != 50 {
		t.Errorf("HitRate() = %v, want 50", c.HitRate())
	}
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New("test", time.Minute, WithClock(clock.Now))
	c.Set("k", 1)
	c.SetWithTTL("long", 2, time.Hour)

	clock.Advance(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired early")
	}

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should have expired")
	}
	if c.Len() != 1 {
		t.Errorf("expired entry not removed on Get, Len() = %d", c.Len())
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("custom TTL entry should still be present")
	}
	if c.GetStats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", c.GetStats().Evictions)
	}
}

func TestCache_Cleanup(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New("test", time.Minute, WithClock(clock.Now))
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.SetWithTTL("keep", true, time.Hour)

	clock.Advance(2 * time.Minute)
	c.Cleanup()

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	s := c.GetStats()
	if s.Evictions != 5 || s.TotalKeys != 1 || !s.LastCleanup.Equal(clock.Now()) {
		t.Errorf("stats = %+v", s)
	}
}

func TestCache_MaxEntries(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New("test", time.Minute, WithClock(clock.Now), WithMaxEntries(2))

	c.Set("a", 1)
	clock.Advance(time.Second)
	c.Set("b", 2)
	clock.Advance(time.Second)
	c.Set("c", 3) // evicts a, the entry closest to expiry

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("a should have been evicted")
	}
	for _, k := range []string{"b", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should be present", k)
		}
	}

	// Overwriting an existing key never evicts.
	c.Set("b", 20)
	if c.Len() != 2 {
		t.Errorf("Len() after overwrite = %d", c.Len())
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	c := New("test", time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Delete("a")
	c.Delete("nope")
	if c.Len() != 2 {
		t.Errorf("Len() after Delete = %d", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	if got := c.GetStats().Evictions; got != 3 {
		t.Errorf("Evictions = %d, want 3", got)
	}
}

func TestCache_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	c := New("test", time.Millisecond)
	c.Set("k", 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for c.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("background sweep never removed the expired entry")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := New("test", time.Minute, WithMaxEntries(50))
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%100)
				c.Set(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len() = %d exceeds max entries", c.Len())
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	a := GenerateKey("media", map[string]string{"lat": "1"})
	b := GenerateKey("media", map[string]string{"lat": "1"})
	c := GenerateKey("media", map[string]string{"lat": "2"})

	if a != b {
		t.Errorf("same params produced different keys: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different params produced the same key")
	}
	if !strings.HasPrefix(a, "media:") || len(a) != len("media:")+32 {
		t.Errorf("unexpected key shape %q", a)
	}
}
