// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// Package fetch owns the media fetch lifecycle: it builds the query, calls
// the media service, hands the raw records to the transform worker and
// publishes the resulting FetchState to observers.
//
// Every FetchMedia call gets a monotonically increasing token. Only the
// holder of the latest token may publish a final state; replies belonging
// to superseded fetches are dropped, and their contexts are canceled so the
// HTTP round-trip and the queued transform job are abandoned early.
package fetch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/geolens/internal/logging"
	"github.com/tomtom215/geolens/internal/mediaclient"
	"github.com/tomtom215/geolens/internal/metrics"
	"github.com/tomtom215/geolens/internal/models"
	"github.com/tomtom215/geolens/internal/query"
	"github.com/tomtom215/geolens/internal/transform"
)

// ErrDisposed is the cause recorded for fetches attempted after Dispose.
var ErrDisposed = errors.New("fetch orchestrator disposed")

// Config tunes the orchestrator.
type Config struct {
	// QueueSize is the transform worker's job buffer.
	QueueSize int
}

// Request is one fetchMedia call. Nothing is rejected up front: any View
// other than "map", or a missing viewport, builds an unbounded grid query,
// and dates are validated by the query builder so that a bad date surfaces
// as a failed fetch state.
type Request struct {
	View         query.Mode       `json:"view" validate:"-"`
	MapParams    *query.Viewport  `json:"mapParams,omitempty" validate:"-"`
	FilterParams query.DateFilter `json:"filterParams" validate:"-"`
}

// Orchestrator drives fetches and holds the published FetchState.
// All methods are safe for concurrent use.
type Orchestrator struct {
	fetcher mediaclient.MediaFetcher
	builder *query.Builder
	worker  *transform.Worker
	logger  zerolog.Logger

	workerCancel context.CancelFunc
	inflight     sync.WaitGroup

	mu         sync.Mutex
	state      models.FetchState
	latest     uint64
	cancelLast context.CancelFunc
	subs       map[uint64]*subscriber
	nextSubID  uint64
	disposed   bool
}

// New creates an orchestrator and starts its transform worker.
// Dispose must be called once the orchestrator is no longer needed.
func New(cfg Config, fetcher mediaclient.MediaFetcher, builder *query.Builder, processor transform.Processor) *Orchestrator {
	if builder == nil {
		builder = query.NewBuilder(nil)
	}
	if processor == nil {
		processor = transform.Transformer{Location: builder.Location()}
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		fetcher:      fetcher,
		builder:      builder,
		worker:       transform.NewWorker(processor, cfg.QueueSize),
		logger:       logging.WithComponent("fetch"),
		workerCancel: cancel,
		state:        models.FetchState{Items: []models.MediaItem{}},
		subs:         make(map[uint64]*subscriber),
	}

	go func() {
		if err := o.worker.Serve(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			o.logger.Error().Err(err).Msg("transform worker exited")
		}
	}()
	return o
}

// FetchMedia starts a fetch and returns its token without waiting for the
// result, which is observed through State or Subscribe. ctx supplies
// request-scoped values; its cancellation does not abort the fetch.
func (o *Orchestrator) FetchMedia(ctx context.Context, req Request) uint64 {
	start := time.Now()
	fctx, cancel := context.WithCancel(logging.ContextWithNewCorrelationID(context.WithoutCancel(ctx)))

	o.mu.Lock()
	o.latest++
	token := o.latest
	if o.cancelLast != nil {
		o.cancelLast()
	}
	o.cancelLast = cancel
	disposed := o.disposed
	if !disposed {
		o.publishLocked(models.FetchState{
			Items:      o.state.Items,
			IsFetching: true,
			Generation: token,
		})
	}
	o.mu.Unlock()

	metrics.RecordFetchStarted()
	log := logging.Ctx(fctx)
	log.Debug().
		Uint64("generation", token).
		Str("view", string(req.View)).
		Msg("media fetch started")

	if disposed {
		o.fail(fctx, token, start, ErrDisposed)
		return token
	}

	params, err := o.builder.Build(req.View, req.MapParams, req.FilterParams)
	if err != nil {
		o.fail(fctx, token, start, err)
		return token
	}

	o.inflight.Add(1)
	go o.run(fctx, token, start, params)
	return token
}

// run performs the network call and the worker round-trip for one fetch.
func (o *Orchestrator) run(ctx context.Context, token uint64, start time.Time, params query.Parameters) {
	defer o.inflight.Done()

	records, err := o.fetcher.FetchMedia(ctx, params)
	if err != nil {
		o.fail(ctx, token, start, err)
		return
	}
	if !o.isLatest(token) {
		o.drop(ctx, token, start)
		return
	}

	reply := make(chan transform.Result, 1)
	job := transform.Job{Token: token, Ctx: ctx, Records: records, Reply: reply}
	if err := o.worker.Submit(ctx, job); err != nil {
		o.fail(ctx, token, start, err)
		return
	}

	select {
	case res := <-reply:
		if res.Err != nil {
			o.fail(ctx, token, start, res.Err)
			return
		}
		o.succeed(ctx, token, start, res.Items)
	case <-ctx.Done():
		o.drop(ctx, token, start)
	}
}

func (o *Orchestrator) succeed(ctx context.Context, token uint64, start time.Time, items []models.MediaItem) {
	o.mu.Lock()
	if !o.ownsLocked(token) {
		o.mu.Unlock()
		o.drop(ctx, token, start)
		return
	}
	o.releaseLocked()
	o.publishLocked(models.FetchState{Items: items, Generation: token})
	o.mu.Unlock()

	metrics.RecordFetchFinished(metrics.OutcomeSucceeded, time.Since(start))
	metrics.SetPublishedItems(len(items))
	logging.Ctx(ctx).Info().
		Uint64("generation", token).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("media fetch succeeded")
}

// fail publishes a failed state with an empty collection.
func (o *Orchestrator) fail(ctx context.Context, token uint64, start time.Time, cause error) {
	kind := Classify(cause)
	msg := userMessage(kind, cause)

	o.mu.Lock()
	// A fetch rejected because of disposal still reports its own failure.
	afterDispose := o.disposed && token == o.latest && errors.Is(cause, ErrDisposed)
	if !o.ownsLocked(token) && !afterDispose {
		o.mu.Unlock()
		o.drop(ctx, token, start)
		return
	}
	o.releaseLocked()
	o.publishLocked(models.FetchState{
		Items:      []models.MediaItem{},
		Error:      &msg,
		ErrorKind:  string(kind),
		Generation: token,
	})
	o.mu.Unlock()

	metrics.RecordFetchFinished(outcomeLabel(kind), time.Since(start))
	metrics.SetPublishedItems(0)
	logging.Ctx(ctx).Warn().
		Err(cause).
		Uint64("generation", token).
		Str("kind", string(kind)).
		Msg("media fetch failed")
}

// drop discards the outcome of a superseded fetch.
func (o *Orchestrator) drop(ctx context.Context, token uint64, start time.Time) {
	metrics.RecordFetchFinished(metrics.OutcomeStale, time.Since(start))
	logging.Ctx(ctx).Debug().Uint64("generation", token).Msg("discarding stale media fetch result")
}

func (o *Orchestrator) isLatest(token uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ownsLocked(token)
}

// ownsLocked reports whether token may still publish. Callers hold o.mu.
func (o *Orchestrator) ownsLocked(token uint64) bool {
	return token == o.latest && !o.disposed
}

// releaseLocked frees the context of the finished latest fetch. Callers hold o.mu.
func (o *Orchestrator) releaseLocked() {
	if o.cancelLast != nil {
		o.cancelLast()
		o.cancelLast = nil
	}
}

// State returns the current FetchState.
func (o *Orchestrator) State() models.FetchState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Item returns the item at index in the current collection.
func (o *Orchestrator) Item(index int) (models.MediaItem, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if index < 0 || index >= len(o.state.Items) {
		return models.MediaItem{}, false
	}
	return o.state.Items[index], true
}

// Wait blocks until every in-flight fetch goroutine has returned.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

// Dispose cancels in-flight fetches, stops the transform worker and closes
// all subscriptions. Later calls are no-ops. Fetches started after Dispose
// publish a processing failure.
func (o *Orchestrator) Dispose() {
	o.mu.Lock()
	if o.disposed {
		o.mu.Unlock()
		return
	}
	o.disposed = true
	if o.cancelLast != nil {
		o.cancelLast()
	}
	if o.state.IsFetching {
		msg := ProcessingFailureMessage
		o.publishLocked(models.FetchState{
			Items:      []models.MediaItem{},
			Error:      &msg,
			ErrorKind:  string(KindProcessing),
			Generation: o.state.Generation,
		})
	}
	subs := o.subs
	o.subs = make(map[uint64]*subscriber)
	o.mu.Unlock()

	o.worker.Stop()
	o.workerCancel()
	o.inflight.Wait()
	<-o.worker.Done()

	for _, s := range subs {
		s.close()
	}
	o.logger.Info().Msg("fetch orchestrator disposed")
}

// Disposed reports whether Dispose has been called.
func (o *Orchestrator) Disposed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.disposed
}

// Serve blocks until ctx is canceled and then disposes the orchestrator.
// It lets the supervisor tree own the orchestrator's lifetime.
func (o *Orchestrator) Serve(ctx context.Context) error {
	<-ctx.Done()
	o.Dispose()
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (o *Orchestrator) String() string {
	return "fetch-orchestrator"
}
