// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"encoding/json"
)

// Season identifies one catalog partition, e.g. "202301". It is opaque to the
// cache.
type Season string

// RawRecord is the undecoded JSON of one catalog entry as delivered by a
// Source.
type RawRecord []byte

// Record is one normalized catalog entry. ID is unique within Season.
type Record struct {
	ID     string
	Season Season
	Fields map[string]any
}

// Get returns the named field or nil.
func (r Record) Get(key string) any {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[key]
}

// MarshalJSON emits the normalized fields as a flat JSON object.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Fields)
}

// Listings maps record id to Record for a single season. Listings reachable
// from a Snapshot are shared and must be treated as read-only.
type Listings map[string]Record

// Source fetches the raw records of one season. A non-success response or
// transport failure is reported as a *NetworkError, an undecodable payload as
// a *ParseError.
type Source interface {
	Fetch(ctx context.Context, season Season) ([]RawRecord, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, season Season) ([]RawRecord, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, season Season) ([]RawRecord, error) {
	return f(ctx, season)
}

// Normalizer turns one raw record into a Record. Implementations must be pure:
// the same input always produces an equal Record and nothing else changes.
type Normalizer interface {
	Normalize(season Season, raw RawRecord) (Record, error)
}

// NormalizerFunc adapts a function to Normalizer.
type NormalizerFunc func(season Season, raw RawRecord) (Record, error)

// Normalize implements Normalizer.
func (f NormalizerFunc) Normalize(season Season, raw RawRecord) (Record, error) {
	return f(season, raw)
}
