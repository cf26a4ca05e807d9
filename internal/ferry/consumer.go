// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package ferry

import (
	"context"
	"slices"
	"sync"

	"github.com/staranto/ferryctl/internal/catalog"
)

// View is one consumer's derived picture of the shared state.
type View struct {
	Seasons []catalog.Season
	// Loading is true while no error is recorded and either a fetch is in
	// flight anywhere or one of Seasons is not cached yet.
	Loading bool
	Err     error
	Catalog *catalog.Snapshot
	// Ready is true once every one of Seasons is cached.
	Ready bool
}

// Records returns the consumer's records, season order then id.
func (v View) Records() []catalog.Record {
	return v.Catalog.Records(v.Seasons...)
}

// Present counts the consumer's seasons that are cached.
func (v View) Present() int {
	n := 0
	for _, s := range v.Seasons {
		if v.Catalog.Has(s) {
			n++
		}
	}
	return n
}

type viewKey struct {
	loading, failed bool
	present         int
}

func (v View) key() viewKey {
	return viewKey{loading: v.Loading, failed: v.Err != nil, present: v.Present()}
}

// Consumer is a view-layer handle on a Provider for a selection of seasons.
// Updates delivers the latest View whenever its loading flag, its error or
// the number of its seasons present changes.
type Consumer struct {
	p   *Provider
	ctx context.Context

	mu      sync.Mutex
	seasons []catalog.Season
	last    viewKey
	started bool
	closed  bool
	updates chan View
	cancel  func()
}

// Consume mounts a Consumer for seasons and requests them.
func (p *Provider) Consume(ctx context.Context, seasons []catalog.Season) *Consumer {
	c := &Consumer{
		p:       p,
		ctx:     ctx,
		seasons: slices.Clone(seasons),
		updates: make(chan View, 1),
	}
	c.cancel = p.Subscribe(func(State) { c.refresh() })
	p.RequestSeasons(ctx, c.seasons)
	c.refresh()
	return c
}

// SetSeasons changes the selection. Nothing is requested when the new list
// equals the current one element by element.
func (c *Consumer) SetSeasons(seasons []catalog.Season) {
	c.mu.Lock()
	if c.closed || slices.Equal(c.seasons, seasons) {
		c.mu.Unlock()
		return
	}
	c.seasons = slices.Clone(seasons)
	cur := c.seasons
	// A new selection always produces an update.
	c.started = false
	c.mu.Unlock()

	c.p.RequestSeasons(c.ctx, cur)
	c.refresh()
}

// View computes the consumer's current View.
func (c *Consumer) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Updates returns a channel holding the latest View. It has room for a single
// value, a slow reader only ever sees the newest one. The channel is closed by
// Close.
func (c *Consumer) Updates() <-chan View {
	return c.updates
}

// Close unmounts the Consumer. Fetches it started keep running for others.
func (c *Consumer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	close(c.updates)
}

func (c *Consumer) viewLocked() View {
	return derive(c.p.State(), c.seasons)
}

// refresh recomputes the view from the provider's current state rather than
// the state a notification carried, so notifications racing on different
// goroutines can never publish an older view last.
func (c *Consumer) refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	v := c.viewLocked()
	k := v.key()
	if c.started && k == c.last {
		return
	}
	c.started = true
	c.last = k

	select {
	case <-c.updates:
	default:
	}
	c.updates <- v
}

func derive(st State, seasons []catalog.Season) View {
	missing := false
	for _, s := range seasons {
		if !st.Catalog.Has(s) {
			missing = true
			break
		}
	}
	return View{
		Seasons: slices.Clone(seasons),
		Loading: st.Err == nil && (st.Requests > 0 || missing),
		Err:     st.Err,
		Catalog: st.Catalog,
		Ready:   !missing,
	}
}
