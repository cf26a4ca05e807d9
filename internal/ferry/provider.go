// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package ferry

import (
	"context"
	"sync"

	"github.com/apex/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/ferryctl/internal/catalog"
)

const tracerName = "github.com/staranto/ferryctl/internal/ferry"

// State is what every consumer of a Provider observes.
type State struct {
	// Requests is the number of per-season fetches in flight across all
	// batches.
	Requests int
	// Loading is true while Requests > 0 and no error has been recorded.
	Loading bool
	// Err is the first error of the session. It is never cleared.
	Err error
	// Seasons is the known season enumeration, newest first.
	Seasons []catalog.Season
	// Catalog is the store's current snapshot.
	Catalog *catalog.Snapshot
}

// Provider orchestrates season requests over a Store. The request counter and
// error log live as long as the Provider; the Store may outlive it.
type Provider struct {
	store    *catalog.Store
	seasons  []catalog.Season
	notifier Notifier
	parallel int
	tracer   trace.Tracer

	unwatch func()

	mu       sync.Mutex
	idle     *sync.Cond
	running  int
	requests int
	errs     []error
	nextSub  int
	subs     map[int]func(State)
}

// Option customizes a Provider.
type Option func(*Provider)

// WithSeasons sets the season enumeration exposed through State.
func WithSeasons(seasons []catalog.Season) Option {
	return func(p *Provider) { p.seasons = seasons }
}

// WithNotifier replaces the default LogNotifier.
func WithNotifier(n Notifier) Option {
	return func(p *Provider) { p.notifier = n }
}

// WithParallel caps concurrent fetches per batch. Zero or less means no cap.
func WithParallel(n int) Option {
	return func(p *Provider) { p.parallel = n }
}

// WithTracer overrides the tracer used for batch spans.
func WithTracer(t trace.Tracer) Option {
	return func(p *Provider) { p.tracer = t }
}

// New returns a Provider over store. Call Close to stop relaying store
// publishes to subscribers.
func New(store *catalog.Store, opts ...Option) *Provider {
	p := &Provider{
		store:    store,
		notifier: LogNotifier{},
		subs:     make(map[int]func(State)),
	}
	p.idle = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	if p.tracer == nil {
		p.tracer = otel.Tracer(tracerName)
	}
	p.unwatch = store.Subscribe(func(*catalog.Snapshot) { p.broadcast() })
	return p
}

// Close detaches the Provider from its Store. In-flight fetches still finish.
func (p *Provider) Close() {
	p.unwatch()
}

// Store returns the underlying catalog store.
func (p *Provider) Store() *catalog.Store {
	return p.store
}

// Seasons returns the season enumeration.
func (p *Provider) Seasons() []catalog.Season {
	return p.seasons
}

// RequestSeasons asks for seasons to be loaded and returns at once. Cached
// seasons are skipped and duplicates are harmless. The outcome is observed
// through State, Subscribe or a Consumer.
func (p *Provider) RequestSeasons(ctx context.Context, seasons []catalog.Season) {
	p.dispatch(ctx, seasons)
}

// Fetch is RequestSeasons that waits for the batch to settle. It returns a
// *BatchError when any season failed.
func (p *Provider) Fetch(ctx context.Context, seasons []catalog.Season) error {
	b := p.dispatch(ctx, seasons)
	<-b.done
	if b.err != nil {
		return b.err
	}
	return nil
}

// Wait blocks until no batch is running. It may be called while other
// goroutines keep requesting seasons; batches they start before Wait sees
// the provider idle are waited for too.
func (p *Provider) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.running > 0 {
		p.idle.Wait()
	}
}

// State returns the current shared state.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// Errors returns a copy of the session error log, oldest first.
func (p *Provider) Errors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]error(nil), p.errs...)
}

// Subscribe registers fn to be called after every change of the shared
// state: counter moves, recorded errors and store publishes. fn runs on the
// goroutine that made the change and must not block.
func (p *Provider) Subscribe(fn func(State)) (cancel func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

type batch struct {
	done chan struct{}
	err  *BatchError
}

// dispatch counts the uncached seasons synchronously so Loading flips before
// the caller returns, then runs the fetches in the background. The batch
// context is detached from ctx: a consumer going away never aborts a fetch
// other consumers may be waiting on.
func (p *Provider) dispatch(ctx context.Context, seasons []catalog.Season) *batch {
	b := &batch{done: make(chan struct{})}

	// Racy by nature: a season cached right after this check just costs a
	// cheap no-op populate under the lock.
	snap := p.store.Snapshot()
	var pending []catalog.Season
	for _, season := range seasons {
		if snap.Has(season) {
			continue
		}
		pending = append(pending, season)
	}

	if len(pending) == 0 {
		close(b.done)
		return b
	}

	p.diffRequests(len(pending))

	ctx = context.WithoutCancel(ctx)
	p.mu.Lock()
	p.running++
	p.mu.Unlock()
	go func() {
		defer p.settled()
		defer close(b.done)
		b.err = p.run(ctx, pending)
	}()
	return b
}

func (p *Provider) run(ctx context.Context, pending []catalog.Season) *BatchError {
	ctx, span := p.tracer.Start(ctx, "ferry.batch",
		trace.WithAttributes(attribute.Int("ferry.seasons", len(pending))))
	defer span.End()

	var g errgroup.Group
	if p.parallel > 0 {
		g.SetLimit(p.parallel)
	}

	var (
		mu       sync.Mutex
		failures []error
		notify   sync.Once
	)

	for _, season := range pending {
		g.Go(func() error {
			defer p.diffRequests(-1)

			err := p.store.Populate(ctx, season)
			if err == nil {
				return nil
			}

			mu.Lock()
			failures = append(failures, err)
			mu.Unlock()

			// Recorded right away, not when the batch ends, so every consumer
			// stops loading the moment the first failure is known.
			p.recordError(err)
			notify.Do(func() { p.notifier.Notify(ctx, err) })

			// Siblings keep going, failures never cancel the group.
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) == 0 {
		return nil
	}

	berr := &BatchError{Seasons: pending, Errors: failures}
	span.RecordError(berr)
	span.SetStatus(codes.Error, berr.Error())
	log.WithError(berr).Debugf("batch of %d seasons settled with %d failures", len(pending), len(failures))
	return berr
}

func (p *Provider) settled() {
	p.mu.Lock()
	p.running--
	if p.running == 0 {
		p.idle.Broadcast()
	}
	p.mu.Unlock()
}

func (p *Provider) diffRequests(d int) {
	p.mu.Lock()
	p.requests += d
	if p.requests < 0 {
		// Increments and decrements are paired, this can only be a bug.
		p.mu.Unlock()
		panic("ferry: request counter went negative")
	}
	p.mu.Unlock()
	p.broadcast()
}

func (p *Provider) recordError(err error) {
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
	p.broadcast()
}

func (p *Provider) stateLocked() State {
	var first error
	if len(p.errs) > 0 {
		first = p.errs[0]
	}
	return State{
		Requests: p.requests,
		Loading:  p.requests != 0 && first == nil,
		Err:      first,
		Seasons:  p.seasons,
		Catalog:  p.store.Snapshot(),
	}
}

func (p *Provider) broadcast() {
	p.mu.Lock()
	st := p.stateLocked()
	subs := make([]func(State), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}
