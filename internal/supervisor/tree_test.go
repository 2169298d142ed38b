// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/tomtom215/geolens/internal/cache"
	"github.com/tomtom215/geolens/internal/fetch"
	"github.com/tomtom215/geolens/internal/mediaclient"
	"github.com/tomtom215/geolens/internal/models"
	"github.com/tomtom215/geolens/internal/query"
	"github.com/tomtom215/geolens/internal/supervisor/services"
	"github.com/tomtom215/geolens/internal/websocket"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSupervisorTreeConstruction(t *testing.T) {
	t.Run("creates hierarchical supervisor tree", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
			FailureThreshold: 5,
			FailureBackoff:   time.Second,
			ShutdownTimeout:  10 * time.Second,
		})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.Root() == nil {
			t.Error("root supervisor should not be nil")
		}
	})

	t.Run("applies default values for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.config != DefaultTreeConfig() {
			t.Errorf("config = %+v, want %+v", tree.config, DefaultTreeConfig())
		}
	})
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureBackoff:  100 * time.Millisecond,
		ShutdownTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}

	processing := newMockService("mock-processing")
	messaging := newMockService("mock-messaging")
	api := newMockService("mock-api")
	tree.AddProcessingService(processing)
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("unexpected error: %v", err)
	}

	for _, svc := range []*mockService{processing, messaging, api} {
		if svc.startCount.Load() != 1 {
			t.Errorf("%s started %d times, want 1", svc.name, svc.startCount.Load())
		}
		if svc.stopCount.Load() != 1 {
			t.Errorf("%s stopped %d times, want 1", svc.name, svc.stopCount.Load())
		}
	}
}

func TestSupervisorTreeServeBackgroundClosesOnShutdown(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureBackoff:  100 * time.Millisecond,
		ShutdownTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	svc := newMockService("mock-api")
	tree.AddAPIService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for svc.startCount.Load() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("service never started")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	drained := make(chan int)
	go func() {
		n := 0
		for range errCh {
			n++
		}
		drained <- n
	}()

	select {
	case n := <-drained:
		if n != 1 {
			t.Errorf("received %d results, want 1", n)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("result channel still open 3s after shutdown")
	}
	if svc.stopCount.Load() != 1 {
		t.Errorf("service stopped %d times, want 1", svc.stopCount.Load())
	}
}

func TestSupervisorTreeRestartsFailedService(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}

	flaky := newMockService("flaky-bridge")
	flaky.maxFails = 2
	steady := newMockService("steady-api")
	tree.AddMessagingService(flaky)
	tree.AddAPIService(steady)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for flaky.startCount.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("flaky service started %d times, want 3", flaky.startCount.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-errCh

	if steady.startCount.Load() != 1 {
		t.Errorf("api layer restarted: %d starts", steady.startCount.Load())
	}
}

// staticFetcher returns no records.
type staticFetcher struct{}

func (staticFetcher) FetchMedia(context.Context, query.Parameters) ([]models.RawMediaRecord, error) {
	return nil, nil
}

func TestSupervisorTreeRunsGeoLensServices(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}

	var fetcher mediaclient.MediaFetcher = staticFetcher{}
	orch := fetch.New(fetch.Config{}, fetcher, nil, nil)
	hub := websocket.NewHub(orch.State)
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}

	tree.AddProcessingService(orch)
	tree.AddProcessingService(services.NewCacheJanitorService(cache.New("tree-test", time.Minute), time.Second))
	tree.AddMessagingService(hub)
	tree.AddMessagingService(websocket.NewStateBridge(orch, hub))
	tree.AddAPIService(services.NewHTTPServerService(server, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	orch.FetchMedia(context.Background(), fetch.Request{View: "grid"})
	deadline := time.Now().Add(2 * time.Second)
	for orch.State().Generation != 1 || orch.State().IsFetching {
		if time.Now().After(deadline) {
			t.Fatalf("fetch did not settle: %+v", orch.State())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop")
	}

	if !orch.Disposed() {
		t.Error("orchestrator not disposed after tree shutdown")
	}
}
