// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/staranto/ferryctl/internal/catalog"
	"github.com/staranto/ferryctl/internal/catalog/catalogtest"
	"github.com/staranto/ferryctl/internal/normalize"
)

func newStore(src catalog.Source, opts ...catalog.Option) *catalog.Store {
	return catalog.NewStore(src, normalize.Course{}, opts...)
}

func TestPopulate_StoresOneEntryPerRecord(t *testing.T) {
	src := catalogtest.NewSource().With("202301",
		`{"crn": "10001", "title": "Intro"}`,
		`{"crn": "10002", "title": "Advanced"}`,
	)
	s := newStore(src)

	require.NoError(t, s.Populate(context.Background(), "202301"))

	l, ok := s.Snapshot().Listings("202301")
	require.True(t, ok)
	assert.Len(t, l, 2)
	assert.Equal(t, "Intro", l["10001"].Get("title"))
	assert.Equal(t, "Advanced", l["10002"].Get("title"))
	assert.True(t, s.Attempted("202301"))
}

func TestPopulate_CachedSeasonIsNotFetchedAgain(t *testing.T) {
	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`)
	s := newStore(src)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Populate(context.Background(), "202301"))
	}
	assert.Equal(t, 1, src.Calls("202301"))
}

func TestPopulate_ConcurrentCallersShareOneFetch(t *testing.T) {
	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`)
	release := src.Gate("202301")
	s := newStore(src)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Populate(context.Background(), "202301")
		}()
	}

	<-src.Started("202301")
	release()
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, src.Calls("202301"))
	assert.True(t, s.Snapshot().Has("202301"))
}

func TestPopulate_FailureIsNeverRetried(t *testing.T) {
	boom := &catalog.NetworkError{Season: "202302", StatusCode: 500}
	src := catalogtest.NewSource().Fail("202302", boom)
	s := newStore(src)

	err := s.Populate(context.Background(), "202302")
	var nerr *catalog.NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, 500, nerr.StatusCode)

	assert.True(t, s.Attempted("202302"))
	assert.False(t, s.Snapshot().Has("202302"))

	// A later request is a no-op: no second fetch and no error.
	assert.NoError(t, s.Populate(context.Background(), "202302"))
	assert.Equal(t, 1, src.Calls("202302"))
	assert.False(t, s.Snapshot().Has("202302"))
}

func TestPopulate_MalformedRecordIsParseError(t *testing.T) {
	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`, `{"title": "no id"}`)
	s := newStore(src)

	err := s.Populate(context.Background(), "202301")
	var perr *catalog.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Offset)
	assert.False(t, s.Snapshot().Has("202301"))
	assert.True(t, s.Attempted("202301"))
}

func TestPopulate_NonParseNormalizerErrorIsWrapped(t *testing.T) {
	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`)
	boom := errors.New("boom")
	s := catalog.NewStore(src, catalog.NormalizerFunc(func(catalog.Season, catalog.RawRecord) (catalog.Record, error) {
		return catalog.Record{}, boom
	}))

	err := s.Populate(context.Background(), "202301")
	var perr *catalog.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 0, perr.Offset)
	assert.ErrorIs(t, err, boom)
}

func TestPopulate_ParseErrorOffsetIsRecordIndex(t *testing.T) {
	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`, `{"crn": "2"}`, `{"crn": "3"}`)
	s := catalog.NewStore(src, catalog.NormalizerFunc(func(season catalog.Season, raw catalog.RawRecord) (catalog.Record, error) {
		if string(raw) == `{"crn": "3"}` {
			// Zero Offset, as a normalizer that never set it would return.
			return catalog.Record{}, &catalog.ParseError{Season: season, Reason: "rejected"}
		}
		return catalog.Record{ID: string(raw), Season: season}, nil
	}))

	err := s.Populate(context.Background(), "202301")
	var perr *catalog.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Offset)
	assert.Equal(t, "rejected", perr.Reason)
	assert.Contains(t, err.Error(), "record 2")
}

func TestPublish_CopyOnWrite(t *testing.T) {
	src := catalogtest.NewSource().
		With("202301", `{"crn": "1"}`).
		With("202302", `{"crn": "2"}`)
	s := newStore(src)

	empty := s.Snapshot()
	assert.Equal(t, uint64(0), empty.Version())

	require.NoError(t, s.Populate(context.Background(), "202301"))
	first := s.Snapshot()
	require.NoError(t, s.Populate(context.Background(), "202302"))
	second := s.Snapshot()

	assert.NotSame(t, first, second)
	assert.Equal(t, uint64(1), first.Version())
	assert.Equal(t, uint64(2), second.Version())
	assert.Equal(t, []catalog.Season{"202301"}, first.Seasons())
	assert.Equal(t, []catalog.Season{"202301", "202302"}, second.Seasons())
	assert.Equal(t, 0, empty.Len())
}

func TestSubscribe_NotifiedOnPublish(t *testing.T) {
	src := catalogtest.NewSource().
		With("202301", `{"crn": "1"}`).
		With("202302", `{"crn": "2"}`)
	s := newStore(src)

	var got []uint64
	cancel := s.Subscribe(func(snap *catalog.Snapshot) { got = append(got, snap.Version()) })

	require.NoError(t, s.Populate(context.Background(), "202301"))
	cancel()
	require.NoError(t, s.Populate(context.Background(), "202302"))

	assert.Equal(t, []uint64{1}, got)
}

func TestSnapshot_RecordsOrder(t *testing.T) {
	src := catalogtest.NewSource().
		With("202301", `{"crn": "b"}`, `{"crn": "a"}`).
		With("202302", `{"crn": "c"}`)
	s := newStore(src)
	require.NoError(t, s.Populate(context.Background(), "202301"))
	require.NoError(t, s.Populate(context.Background(), "202302"))

	var ids []string
	for _, r := range s.Snapshot().Records("202302", "202301", "209901") {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestPopulate_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`)
	s := newStore(src, catalog.WithTracer(tp.Tracer("test")))

	require.NoError(t, s.Populate(context.Background(), "202301"))
	// Cached path does not open a span.
	require.NoError(t, s.Populate(context.Background(), "202301"))

	require.Eventually(t, func() bool { return len(sr.Ended()) == 1 }, time.Second, time.Millisecond)
	span := sr.Ended()[0]
	assert.Equal(t, "catalog.populate", span.Name())
}
