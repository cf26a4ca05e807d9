// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"sort"
)

// Snapshot is an immutable view of every loaded season. A publish never
// touches an existing Snapshot, it derives a new one with Version+1. All
// methods are safe on a nil Snapshot, which is the empty catalog.
type Snapshot struct {
	version uint64
	seasons map[Season]Listings
}

// Version increases by one with every published season.
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Has reports whether season has been loaded successfully.
func (s *Snapshot) Has(season Season) bool {
	if s == nil {
		return false
	}
	_, ok := s.seasons[season]
	return ok
}

// Listings returns the records of season.
func (s *Snapshot) Listings(season Season) (Listings, bool) {
	if s == nil {
		return nil, false
	}
	l, ok := s.seasons[season]
	return l, ok
}

// Seasons returns the loaded seasons in lexical order.
func (s *Snapshot) Seasons() []Season {
	if s == nil {
		return nil
	}
	out := make([]Season, 0, len(s.seasons))
	for season := range s.seasons {
		out = append(out, season)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of loaded seasons.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.seasons)
}

// Records returns the records of the given seasons ordered by season, in the
// order given, then by id. Seasons that are not loaded are skipped.
func (s *Snapshot) Records(seasons ...Season) []Record {
	var out []Record
	for _, season := range seasons {
		l, ok := s.Listings(season)
		if !ok {
			continue
		}
		ids := make([]string, 0, len(l))
		for id := range l {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			out = append(out, l[id])
		}
	}
	return out
}

// with returns a copy of s that also maps season to l. The outer map is
// copied, the Listings values are shared since they are never mutated after
// publish.
func (s *Snapshot) with(season Season, l Listings) *Snapshot {
	next := &Snapshot{
		version: s.Version() + 1,
		seasons: make(map[Season]Listings, s.Len()+1),
	}
	if s != nil {
		for k, v := range s.seasons {
			next.seasons[k] = v
		}
	}
	next.seasons[season] = l
	return next
}
