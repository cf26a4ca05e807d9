// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/apex/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/staranto/ferryctl/internal/keylock"
)

const tracerName = "github.com/staranto/ferryctl/internal/catalog"

// Store is the session cache. It owns the current Snapshot and the set of
// seasons whose fetch has been dispatched. Neither is ever pruned: a season
// that failed stays attempted and absent until the Store is discarded.
type Store struct {
	source     Source
	normalizer Normalizer
	lock       *keylock.Lock
	tracer     trace.Tracer

	mu        sync.RWMutex
	snap      *Snapshot
	attempted map[Season]bool
	nextSub   int
	subs      map[int]func(*Snapshot)
}

// Option customizes a Store.
type Option func(*Store)

// WithLock shares an existing keylock.Lock with the Store.
func WithLock(l *keylock.Lock) Option {
	return func(s *Store) { s.lock = l }
}

// WithTracer overrides the tracer used for populate spans. Defaults to the
// global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) { s.tracer = t }
}

// NewStore returns an empty Store that loads seasons from src and normalizes
// every record with n.
func NewStore(src Source, n Normalizer, opts ...Option) *Store {
	s := &Store{
		source:     src,
		normalizer: n,
		attempted:  make(map[Season]bool),
		subs:       make(map[int]func(*Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.lock == nil {
		s.lock = keylock.New()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Snapshot returns the current catalog. The result never changes, call again
// to observe later publishes.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Attempted reports whether a fetch for season was ever dispatched, whatever
// its outcome.
func (s *Store) Attempted(season Season) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attempted[season]
}

// Subscribe registers fn to be called with every newly published Snapshot.
// fn runs on the publishing goroutine and must not block. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(*Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Populate makes sure season has been loaded. It returns immediately when the
// season is already cached, and is a no-op when another caller already
// dispatched its fetch, even a failed one. Only the caller that claims the
// season performs the fetch and sees its error.
func (s *Store) Populate(ctx context.Context, season Season) error {
	if s.Snapshot().Has(season) {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "catalog.populate",
		trace.WithAttributes(attribute.String("ferry.season", string(season))))
	defer span.End()

	err := s.lock.Acquire(ctx, "load-"+string(season), func(ctx context.Context) error {
		// Re-check under the lock. Someone may have finished, or failed, while
		// we were queued.
		if !s.claim(season) {
			log.WithField("season", season).Debug("already loaded or attempted")
			span.SetAttributes(attribute.Bool("ferry.skipped", true))
			return nil
		}

		listings, err := s.load(ctx, season)
		if err != nil {
			return err
		}

		s.publish(season, listings)
		span.SetAttributes(attribute.Int("ferry.records", len(listings)))
		log.WithField("season", season).Debugf("published %d records", len(listings))
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WithField("season", season).WithError(err).Debug("populate failed")
	}
	return err
}

// claim marks season as attempted unless it is loaded or already claimed.
// The mark is set before the fetch so a failure is never retried this session.
func (s *Store) claim(season Season) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.Has(season) || s.attempted[season] {
		return false
	}
	s.attempted[season] = true
	return true
}

func (s *Store) load(ctx context.Context, season Season) (Listings, error) {
	raws, err := s.source.Fetch(ctx, season)
	if err != nil {
		return nil, err
	}

	listings := make(Listings, len(raws))
	for i, raw := range raws {
		rec, err := s.normalizer.Normalize(season, raw)
		if err != nil {
			// Normalizers see one record at a time and cannot know its
			// offset, so whatever Offset they set is replaced by i.
			var perr *ParseError
			if errors.As(err, &perr) {
				return nil, &ParseError{Season: season, Offset: i, Reason: perr.Reason, Err: perr.Err}
			}
			return nil, &ParseError{Season: season, Offset: i, Err: err}
		}
		listings[rec.ID] = rec
	}
	return listings, nil
}

// publish swaps in a new Snapshot that includes season and tells subscribers.
func (s *Store) publish(season Season, l Listings) {
	s.mu.Lock()
	s.snap = s.snap.with(season, l)
	snap := s.snap
	subs := make([]func(*Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
