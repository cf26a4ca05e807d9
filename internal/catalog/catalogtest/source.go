// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package catalogtest provides a scripted catalog.Source for tests.
package catalogtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/staranto/ferryctl/internal/catalog"
)

// Source serves canned payloads and counts fetches per season. A season with
// a gate blocks its fetch until the gate is closed.
type Source struct {
	mu      sync.Mutex
	records map[catalog.Season][]catalog.RawRecord
	errs    map[catalog.Season]error
	gates   map[catalog.Season]chan struct{}
	started map[catalog.Season]chan struct{}
	calls   map[catalog.Season]int
}

// NewSource returns a Source that knows no seasons. Unknown seasons fail with
// a 404 NetworkError.
func NewSource() *Source {
	return &Source{
		records: make(map[catalog.Season][]catalog.RawRecord),
		errs:    make(map[catalog.Season]error),
		gates:   make(map[catalog.Season]chan struct{}),
		started: make(map[catalog.Season]chan struct{}),
		calls:   make(map[catalog.Season]int),
	}
}

// With serves the given JSON objects for season.
func (s *Source) With(season catalog.Season, records ...string) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	raws := make([]catalog.RawRecord, 0, len(records))
	for _, r := range records {
		raws = append(raws, catalog.RawRecord(r))
	}
	s.records[season] = raws
	return s
}

// Fail makes season fail with err.
func (s *Source) Fail(season catalog.Season, err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[season] = err
	return s
}

// Gate blocks fetches of season until the returned function is called.
func (s *Source) Gate(season catalog.Season) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[season] = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Started returns a channel closed once a fetch of season has begun.
func (s *Source) Started(season catalog.Season) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedLocked(season)
}

func (s *Source) startedLocked(season catalog.Season) chan struct{} {
	ch, ok := s.started[season]
	if !ok {
		ch = make(chan struct{})
		s.started[season] = ch
	}
	return ch
}

// Calls returns how many times season was fetched.
func (s *Source) Calls(season catalog.Season) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[season]
}

// Fetch implements catalog.Source.
func (s *Source) Fetch(ctx context.Context, season catalog.Season) ([]catalog.RawRecord, error) {
	s.mu.Lock()
	s.calls[season]++
	started := s.startedLocked(season)
	select {
	case <-started:
	default:
		close(started)
	}
	gate := s.gates[season]
	records, known := s.records[season]
	err := s.errs[season]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	if !known {
		return nil, &catalog.NetworkError{
			Season:     season,
			URL:        fmt.Sprintf("memory://%s.json", season),
			StatusCode: 404,
		}
	}
	return records, nil
}
