// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package transform

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/geolens/internal/logging"
	"github.com/tomtom215/geolens/internal/metrics"
	"github.com/tomtom215/geolens/internal/models"
)

// DefaultQueueSize is the job buffer used when none is configured.
const DefaultQueueSize = 4

var (
	// ErrWorkerStopped is returned by Submit after Stop.
	ErrWorkerStopped = errors.New("transform worker stopped")

	// ErrWorkerRunning is returned by a second concurrent call to Serve.
	ErrWorkerRunning = errors.New("transform worker already running")
)

// ProcessingError reports a fault inside the worker while handling a batch.
type ProcessingError struct {
	Token uint64
	Cause any
	Stack []byte
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("media processing failed for fetch %d: %v", e.Token, e.Cause)
}

// Unwrap exposes the cause when the fault was raised with an error value.
func (e *ProcessingError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Job hands a raw batch to the worker. Ownership of Records passes to the
// worker on Submit; the caller must not touch the slice afterwards.
type Job struct {
	Token   uint64
	Ctx     context.Context
	Records []models.RawMediaRecord

	// Reply receives exactly one Result unless the job is skipped because
	// Ctx was canceled before the worker reached it. It should be buffered.
	Reply chan<- Result
}

// Result is the worker's answer to one Job. Exactly one of Items or Err is
// meaningful; Err is always a *ProcessingError.
type Result struct {
	Token uint64
	Items []models.MediaItem
	Stats Stats
	Err   error
}

// Worker is the single background execution context for record
// transformation. Jobs are handled one at a time in submission order, and
// nothing is shared with the submitter beyond the job and reply channels.
type Worker struct {
	processor Processor
	jobs      chan Job
	stop      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
	doneOnce  sync.Once
	running   sync.Mutex
	logger    zerolog.Logger
}

// NewWorker creates a worker around p. queueSize <= 0 uses DefaultQueueSize.
// The worker does nothing until Serve is called.
func NewWorker(p Processor, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Worker{
		processor: p,
		jobs:      make(chan Job, queueSize),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logging.WithComponent("transform-worker"),
	}
}

// Serve runs the job loop until ctx is canceled or Stop is called.
// It implements suture.Service.
func (w *Worker) Serve(ctx context.Context) error {
	if !w.running.TryLock() {
		return ErrWorkerRunning
	}
	defer w.running.Unlock()
	defer w.markDone()

	w.logger.Debug().Int("queue_size", cap(w.jobs)).Msg("transform worker started")
	defer w.logger.Debug().Msg("transform worker stopped")

	for {
		// Stop wins over pending jobs.
		select {
		case <-w.stop:
			return nil
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case job := <-w.jobs:
			metrics.TransformQueueDepth.Set(float64(len(w.jobs)))
			w.handle(job)
		}
	}
}

// Submit queues a job. It blocks while the queue is full, and returns
// ErrWorkerStopped once the worker has been stopped.
func (w *Worker) Submit(ctx context.Context, job Job) error {
	select {
	case <-w.stop:
		return ErrWorkerStopped
	default:
	}

	select {
	case w.jobs <- job:
		metrics.TransformQueueDepth.Set(float64(len(w.jobs)))
		return nil
	case <-w.stop:
		return ErrWorkerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop terminates the worker. Queued jobs are abandoned. Safe to call more
// than once; it does not wait for an in-progress job.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

// Done is closed once Serve has returned, whether through Stop or context
// cancellation.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Stopped reports whether Stop has been called.
func (w *Worker) Stopped() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer for supervisor logging.
func (w *Worker) String() string {
	return "transform-worker"
}

func (w *Worker) markDone() {
	w.doneOnce.Do(func() { close(w.done) })
}

func (w *Worker) handle(job Job) {
	if job.Ctx != nil && job.Ctx.Err() != nil {
		metrics.TransformJobsSkipped.Inc()
		w.logger.Debug().Uint64("generation", job.Token).Msg("skipping superseded transform job")
		return
	}

	res := w.run(job)
	if job.Reply == nil {
		return
	}
	select {
	case job.Reply <- res:
	default:
		w.logger.Warn().Uint64("generation", job.Token).Msg("transform reply channel full, result dropped")
	}
}

// run executes the processor, converting a panic into a ProcessingError.
func (w *Worker) run(job Job) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.TransformFaults.Inc()
			perr := &ProcessingError{Token: job.Token, Cause: r, Stack: debug.Stack()}
			w.logger.Error().
				Uint64("generation", job.Token).
				Interface("panic", r).
				Msg("transform job panicked")
			res = Result{Token: job.Token, Err: perr}
		}
	}()

	items, stats := w.processor.Process(job.Records)

	dropped := make(map[string]int, len(stats.Dropped))
	for reason, n := range stats.Dropped {
		dropped[string(reason)] = n
	}
	metrics.RecordTransform(time.Since(start), stats.Kept, dropped)

	w.logger.Debug().
		Uint64("generation", job.Token).
		Int("received", stats.Received).
		Int("kept", stats.Kept).
		Int("dropped", stats.DroppedTotal()).
		Dur("duration", time.Since(start)).
		Msg("transform batch complete")

	return Result{Token: job.Token, Items: items, Stats: stats}
}
