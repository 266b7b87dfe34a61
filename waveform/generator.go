// SPDX-License-Identifier: EPL-2.0

// Package waveform runs background peak generation for tracks and streams
// the growing series to subscribers.
//
// A track has at most one run at a time. Requests for a track that is
// already generating attach to the existing run, and late subscribers start
// from the latest snapshot. Finished series are normalized and written to
// the cache; failed or cancelled runs are not.
package waveform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audpeaks/audio"
	"github.com/ik5/audpeaks/cache"
	"github.com/ik5/audpeaks/peaks"
)

// Resolver maps a track id to its file path.
type Resolver interface {
	ResolveTrackPath(ctx context.Context, trackID string) (path string, found bool, err error)
}

// Opener opens an audio file for decoding. *audio.Registry implements it.
type Opener interface {
	Open(path string) (audio.Source, error)
}

// Cache stores finalized series. *cache.Cache implements it.
type Cache interface {
	Get(ctx context.Context, trackID string) (cache.Entry, bool, error)
	Put(ctx context.Context, trackID string, series peaks.Series) error
}

type Generator struct {
	resolver Resolver
	opener   Opener
	cache    Cache
	log      zerolog.Logger

	publishEvery     int
	publishInterval  time.Duration
	bufferFrames     int
	subscriberBuffer int
	workers          int

	mu     sync.Mutex
	runs   map[string]*run
	states map[string]State
	closed bool
	wg     sync.WaitGroup
}

// run is one decode of one track.
type run struct {
	id      string
	trackID string
	path    string
	cancel  context.CancelCauseFunc

	mu     sync.Mutex
	state  State
	subs   map[*Subscription]struct{}
	latest *Event
	done   bool
}

func New(resolver Resolver, opener Opener, c Cache, opts ...Option) *Generator {
	g := &Generator{
		resolver:         resolver,
		opener:           opener,
		cache:            c,
		log:              zerolog.Nop(),
		publishEvery:     DefaultPublishEvery,
		publishInterval:  DefaultPublishInterval,
		bufferFrames:     DefaultBufferFrames,
		subscriberBuffer: DefaultSubscriberBuffer,
		workers:          DefaultWorkers,
		runs:             make(map[string]*run),
		states:           make(map[string]State),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Request subscribes to the waveform of trackID. A cached series comes back
// as a subscription whose only event is Finalized with FromCache set.
// Otherwise the subscription attaches to the track's run, starting one when
// none is in flight. ctx bounds the lookup, not the run.
func (g *Generator) Request(ctx context.Context, trackID string) (*Subscription, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil, ErrClosed
	}
	if r, ok := g.runs[trackID]; ok {
		sub := g.attach(r)
		g.mu.Unlock()
		return sub, nil
	}
	g.mu.Unlock()

	if entry, ok := g.lookup(ctx, trackID); ok {
		g.setState(trackID, StateComplete)
		return completed(trackID, Event{
			Kind:      Finalized,
			TrackID:   trackID,
			Progress:  Progress{Completion: 1, Count: len(entry.Peaks), Peaks: entry.Peaks},
			FromCache: true,
		}), nil
	}

	path, found, err := g.resolver.ResolveTrackPath(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", trackID, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, ErrClosed
	}
	// Another request may have started the run meanwhile.
	if r, ok := g.runs[trackID]; ok {
		return g.attach(r), nil
	}

	runCtx, cancel := context.WithCancelCause(context.Background())
	r := &run{
		id:      uuid.NewString(),
		trackID: trackID,
		path:    path,
		cancel:  cancel,
		state:   StateGenerating,
		subs:    make(map[*Subscription]struct{}),
	}
	g.runs[trackID] = r
	g.states[trackID] = StateGenerating
	sub := g.attach(r)

	g.wg.Add(1)
	go g.execute(runCtx, r)

	return sub, nil
}

// lookup reads the cache. Failures and corrupt entries count as misses.
func (g *Generator) lookup(ctx context.Context, trackID string) (cache.Entry, bool) {
	if g.cache == nil {
		return cache.Entry{}, false
	}

	entry, found, err := g.cache.Get(ctx, trackID)
	switch {
	case errors.Is(err, cache.ErrCorruptEntry):
		g.log.Warn().Err(err).Str("track_id", trackID).Msg("discarding corrupt cache entry")
		return cache.Entry{}, false
	case err != nil:
		g.log.Warn().Err(err).Str("track_id", trackID).Msg("cache lookup failed")
		return cache.Entry{}, false
	case !found:
		g.log.Debug().Str("track_id", trackID).Msg("cache miss")
		return cache.Entry{}, false
	}

	g.log.Debug().Str("track_id", trackID).Int("peaks", len(entry.Peaks)).Msg("cache hit")
	return entry, true
}

// attach adds a subscriber to r. Caller holds g.mu.
func (g *Generator) attach(r *run) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := newSubscription(g, r.trackID, r, g.subscriberBuffer)
	r.subs[sub] = struct{}{}
	if r.latest != nil {
		sub.deliver(r.latest.clone())
	}
	return sub
}

// detach removes sub and cancels its run when nobody is left.
func (g *Generator) detach(sub *Subscription) {
	r := sub.run

	g.mu.Lock()
	defer g.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.subs, sub)
	sub.close()

	if len(r.subs) > 0 || r.done {
		return
	}

	r.done = true
	r.cancel(errUnsubscribed)
	if g.runs[r.trackID] == r {
		delete(g.runs, r.trackID)
		g.states[r.trackID] = StateIdle
	}
	g.log.Debug().Str("track_id", r.trackID).Str("run_id", r.id).Msg("run cancelled, no subscribers left")
}

func (g *Generator) execute(ctx context.Context, r *run) {
	defer g.wg.Done()

	start := time.Now()
	log := g.log.With().Str("track_id", r.trackID).Str("run_id", r.id).Logger()
	log.Info().Str("path", r.path).Msg("waveform generation started")

	series, err := g.decode(ctx, r)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			err = cause
		}
		g.fail(r, series, err)
		if errors.Is(err, errUnsubscribed) {
			return
		}
		log.Error().Err(err).Int("peaks", len(series)).Dur("elapsed", time.Since(start)).Msg("waveform generation failed")
		return
	}

	if !g.transition(r, StateFinalizing) {
		return
	}
	normalized := series.Normalize()

	if g.cache != nil && ctx.Err() == nil {
		if err := g.cache.Put(context.WithoutCancel(ctx), r.trackID, normalized); err != nil {
			log.Warn().Err(fmt.Errorf("%w: %w", cache.ErrCacheUnavailable, err)).Msg("caching waveform failed")
		}
	}

	g.finish(r, Event{
		Kind:     Finalized,
		TrackID:  r.trackID,
		Progress: Progress{Completion: 1, Count: len(normalized), Peaks: normalized},
	}, StateComplete)

	log.Info().Int("peaks", len(normalized)).Dur("elapsed", time.Since(start)).Msg("waveform generation finished")
}

// decode reduces the track and publishes partial events as peaks accrue. It
// returns the raw series, which on error holds what was gathered so far.
func (g *Generator) decode(ctx context.Context, r *run) (peaks.Series, error) {
	src, err := g.opener.Open(r.path)
	if err != nil {
		return peaks.Series{}, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer src.Close()

	estimated := peaks.Count(src.Frames(), peaks.WindowSize)
	published := 0
	lastPublish := time.Now()

	series, err := peaks.Drain(ctx, src, peaks.WindowSize, g.bufferFrames, func(reducer *peaks.Reducer) {
		grown := reducer.Len() - published
		if grown >= g.publishEvery || (grown > 0 && time.Since(lastPublish) >= g.publishInterval) {
			g.publish(r, Event{
				Kind:     Partial,
				TrackID:  r.trackID,
				Progress: progressOf(reducer.Peaks(), estimated),
			})
			published = reducer.Len()
			lastPublish = time.Now()
		}
	})
	if err != nil {
		return series, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return series, nil
}

// publish delivers a partial event to every subscriber and keeps it as the
// snapshot for late ones.
func (g *Generator) publish(r *run, ev Event) {
	ev = ev.clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return
	}
	r.latest = &ev
	for sub := range r.subs {
		sub.deliver(ev.clone())
	}
}

// transition moves r to state unless it already ended.
func (g *Generator) transition(r *run, state State) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return false
	}
	r.state = state
	if g.runs[r.trackID] == r {
		g.states[r.trackID] = state
	}
	return true
}

func (g *Generator) fail(r *run, partial peaks.Series, err error) {
	r.mu.Lock()
	completion := 0.0
	if r.latest != nil {
		completion = r.latest.Completion
	}
	r.mu.Unlock()

	g.finish(r, Event{
		Kind:     Failed,
		TrackID:  r.trackID,
		Progress: Progress{Completion: completion, Count: len(partial), Peaks: partial},
		Err:      fmt.Errorf("generate %s: %w", r.trackID, err),
	}, StateFailed)
}

// finish publishes the terminal event, closes every subscription and
// retires the run.
func (g *Generator) finish(r *run, ev Event, state State) {
	ev = ev.clone()

	g.mu.Lock()
	defer g.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return
	}
	r.done = true
	r.state = state
	r.latest = nil
	for sub := range r.subs {
		sub.deliver(ev.clone())
		sub.close()
	}
	clear(r.subs)

	if g.runs[r.trackID] == r {
		delete(g.runs, r.trackID)
		g.states[r.trackID] = state
	}
	r.cancel(nil)
}

func (g *Generator) setState(trackID string, state State) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, running := g.runs[trackID]; !running {
		g.states[trackID] = state
	}
}

// State reports where trackID is in its lifecycle.
func (g *Generator) State(trackID string) State {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.runs[trackID]; ok {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.state
	}
	return g.states[trackID]
}

// Generate blocks until the waveform of trackID is final and returns it.
// Cancelling ctx leaves the run, which stops once nobody else waits on it.
func (g *Generator) Generate(ctx context.Context, trackID string) (peaks.Series, error) {
	sub, err := g.Request(ctx, trackID)
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("generate %s: %w", trackID, ctx.Err())
		case ev, ok := <-sub.C:
			if !ok {
				return nil, fmt.Errorf("generate %s: %w", trackID, ErrClosed)
			}
			switch ev.Kind {
			case Finalized:
				return ev.Peaks, nil
			case Failed:
				return ev.Peaks, ev.Err
			}
		}
	}
}

// Warm generates and caches every track in trackIDs, keeping at most the
// configured number of runs in flight. Failures do not stop the others and
// are returned joined.
func (g *Generator) Warm(ctx context.Context, trackIDs []string) error {
	var (
		eg   errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	eg.SetLimit(g.workers)

	for _, id := range trackIDs {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if _, err := g.Generate(ctx, id); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	if ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}
	return errors.Join(errs...)
}

// Close cancels every run and waits for them to stop. Their subscribers get
// a Failed event carrying ErrClosed.
func (g *Generator) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	for _, r := range g.runs {
		r.cancel(ErrClosed)
	}
	g.mu.Unlock()

	g.wg.Wait()
	return nil
}
