// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package transform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/geolens/internal/models"
)

type panicProcessor struct{}

func (panicProcessor) Process([]models.RawMediaRecord) ([]models.MediaItem, Stats) {
	panic("corrupt batch")
}

// blockingProcessor holds each batch until release is closed.
type blockingProcessor struct {
	started chan struct{}
	release chan struct{}
}

func (p blockingProcessor) Process(raw []models.RawMediaRecord) ([]models.MediaItem, Stats) {
	p.started <- struct{}{}
	<-p.release
	return Transformer{}.Process(raw)
}

func startWorker(t *testing.T, p Processor) *Worker {
	t.Helper()
	w := NewWorker(p, 2)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		w.Stop()
		select {
		case <-errCh:
		case <-time.After(2 * time.Second):
			t.Error("worker did not exit")
		}
	})
	return w
}

func awaitResult(t *testing.T, reply <-chan Result) Result {
	t.Helper()
	select {
	case res := <-reply:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for worker reply")
		return Result{}
	}
}

func TestWorker_RoundTrip(t *testing.T) {
	w := startWorker(t, Transformer{Location: time.UTC})

	recs := decodeRecords(t, `[
		{"id":1,"capture_time":"2023-01-01T00:00:00Z","file_path":"a","lat":1,"lng":2,"image_url":"x.jpg"},
		{"id":2,"capture_time":"2023-06-01T00:00:00Z","file_path":"b","lat":3,"lng":4,"image_url":"y.mp4"}
	]`)

	reply := make(chan Result, 1)
	if err := w.Submit(context.Background(), Job{Token: 7, Ctx: context.Background(), Records: recs, Reply: reply}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	res := awaitResult(t, reply)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Token != 7 {
		t.Errorf("Token = %d, want 7", res.Token)
	}
	checkIDs(t, res.Items, "2", "1")
	if res.Stats.Kept != 2 {
		t.Errorf("Stats.Kept = %d", res.Stats.Kept)
	}
}

func TestWorker_PanicBecomesProcessingError(t *testing.T) {
	w := startWorker(t, panicProcessor{})

	reply := make(chan Result, 1)
	if err := w.Submit(context.Background(), Job{Token: 3, Ctx: context.Background(), Reply: reply}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	res := awaitResult(t, reply)
	var perr *ProcessingError
	if !errors.As(res.Err, &perr) {
		t.Fatalf("expected *ProcessingError, got %v", res.Err)
	}
	if perr.Token != 3 || perr.Cause != "corrupt batch" {
		t.Errorf("ProcessingError = %+v", perr)
	}
	if len(perr.Stack) == 0 {
		t.Error("expected a captured stack")
	}

	// The worker survives the fault and keeps serving.
	reply2 := make(chan Result, 1)
	if err := w.Submit(context.Background(), Job{Token: 4, Ctx: context.Background(), Reply: reply2}); err != nil {
		t.Fatalf("Submit after fault: %v", err)
	}
	if res := awaitResult(t, reply2); res.Token != 4 {
		t.Errorf("Token = %d, want 4", res.Token)
	}
}

func TestWorker_SkipsCanceledJobs(t *testing.T) {
	p := blockingProcessor{started: make(chan struct{}, 1), release: make(chan struct{})}
	w := startWorker(t, p)

	first := make(chan Result, 1)
	if err := w.Submit(context.Background(), Job{Token: 1, Ctx: context.Background(), Reply: first}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	<-p.started

	staleCtx, cancel := context.WithCancel(context.Background())
	stale := make(chan Result, 1)
	if err := w.Submit(context.Background(), Job{Token: 2, Ctx: staleCtx, Reply: stale}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	cancel()

	fresh := make(chan Result, 1)
	if err := w.Submit(context.Background(), Job{Token: 3, Ctx: context.Background(), Reply: fresh}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	close(p.release)
	awaitResult(t, first)
	<-p.started
	if res := awaitResult(t, fresh); res.Token != 3 {
		t.Errorf("Token = %d, want 3", res.Token)
	}

	select {
	case res := <-stale:
		t.Errorf("canceled job produced a reply: %+v", res)
	default:
	}
}

func TestWorker_StopRejectsSubmit(t *testing.T) {
	w := NewWorker(Transformer{}, 1)
	done := make(chan error, 1)
	go func() { done <- w.Serve(context.Background()) }()

	w.Stop()
	w.Stop() // idempotent

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v after Stop, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Stop")
	}
	<-w.Done()

	if !w.Stopped() {
		t.Error("Stopped() = false after Stop")
	}
	err := w.Submit(context.Background(), Job{Token: 1})
	if !errors.Is(err, ErrWorkerStopped) {
		t.Errorf("Submit after Stop = %v, want ErrWorkerStopped", err)
	}
}

func TestWorker_ServeTwice(t *testing.T) {
	w := NewWorker(Transformer{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := make(chan error, 1)
	go func() { first <- w.Serve(ctx) }()

	// Wait until the first Serve owns the loop.
	reply := make(chan Result, 1)
	if err := w.Submit(ctx, Job{Token: 1, Ctx: ctx, Reply: reply}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	awaitResult(t, reply)

	if err := w.Serve(ctx); !errors.Is(err, ErrWorkerRunning) {
		t.Errorf("second Serve = %v, want ErrWorkerRunning", err)
	}
	select {
	case <-w.Done():
		t.Fatal("Done() closed by a rejected Serve")
	default:
	}

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve after cancel = %v, want context.Canceled", err)
	}
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() not closed after Serve returned on cancellation")
	}
}

func TestWorker_SubmitHonorsContext(t *testing.T) {
	w := NewWorker(Transformer{}, 1) // never served, so the queue fills
	if err := w.Submit(context.Background(), Job{Token: 1}); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := w.Submit(ctx, Job{Token: 2}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Submit on full queue = %v, want DeadlineExceeded", err)
	}
}
