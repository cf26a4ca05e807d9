// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package ferry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/ferryctl/internal/catalog"
	"github.com/staranto/ferryctl/internal/catalog/catalogtest"
)

func TestConsume_SharedSeasonFetchedOnce(t *testing.T) {
	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`)
	release := src.Gate("202301")
	p, _ := newProvider(t, src)

	ctx := context.Background()
	a := p.Consume(ctx, []catalog.Season{"202301"})
	b := p.Consume(ctx, []catalog.Season{"202301"})
	c := p.Consume(ctx, []catalog.Season{"202301"})
	defer a.Close()
	defer b.Close()
	defer c.Close()

	assert.True(t, a.View().Loading)
	assert.False(t, a.View().Ready)

	release()
	p.Wait()

	for _, v := range []bool{a.View().Ready, b.View().Ready, c.View().Ready} {
		assert.True(t, v)
	}
	assert.False(t, a.View().Loading)
	assert.Equal(t, 1, src.Calls("202301"))
}

func TestConsume_LateConsumerSeesCachedData(t *testing.T) {
	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`, `{"crn": "2"}`)
	p, _ := newProvider(t, src)
	require.NoError(t, p.Fetch(context.Background(), []catalog.Season{"202301"}))

	c := p.Consume(context.Background(), []catalog.Season{"202301"})
	defer c.Close()

	v := c.View()
	assert.True(t, v.Ready)
	assert.False(t, v.Loading)
	assert.Len(t, v.Records(), 2)
	assert.Equal(t, 1, src.Calls("202301"))
}

func TestConsume_LoadingWhileSeasonMissingAndIdle(t *testing.T) {
	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`)
	p, _ := newProvider(t, src)

	c := p.Consume(context.Background(), nil)
	defer c.Close()
	assert.False(t, c.View().Loading)
	assert.True(t, c.View().Ready)

	release := src.Gate("202301")
	c.SetSeasons([]catalog.Season{"202301"})
	assert.True(t, c.View().Loading)

	release()
	p.Wait()
	assert.False(t, c.View().Loading)
	assert.True(t, c.View().Ready)
}

func TestConsume_ErrorStopsLoadingForEveryone(t *testing.T) {
	src := catalogtest.NewSource().
		With("202301", `{"crn": "1"}`).
		Fail("202302", errors.New("boom"))
	release := src.Gate("202301")
	p, _ := newProvider(t, src)

	ctx := context.Background()
	a := p.Consume(ctx, []catalog.Season{"202301"})
	b := p.Consume(ctx, []catalog.Season{"202302"})
	defer a.Close()
	defer b.Close()

	require.Eventually(t, func() bool { return b.View().Err != nil }, waitFor, tick)
	assert.False(t, a.View().Loading)
	assert.False(t, b.View().Loading)
	assert.Error(t, a.View().Err)

	release()
	p.Wait()
	assert.True(t, a.View().Ready)
	assert.False(t, b.View().Ready)
}

func TestSetSeasons_EqualListDoesNotRedispatch(t *testing.T) {
	src := catalogtest.NewSource().Fail("202301", errors.New("down"))
	p, n := newProvider(t, src)

	c := p.Consume(context.Background(), []catalog.Season{"202301"})
	defer c.Close()
	p.Wait()

	c.SetSeasons([]catalog.Season{"202301"})
	p.Wait()

	assert.Equal(t, 1, src.Calls("202301"))
	assert.Equal(t, 1, n.count())
}

func TestUpdates_DeliversLatestView(t *testing.T) {
	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`)
	release := src.Gate("202301")
	p, _ := newProvider(t, src)

	c := p.Consume(context.Background(), []catalog.Season{"202301"})
	first := <-c.Updates()
	assert.True(t, first.Loading)

	release()
	p.Wait()

	require.Eventually(t, func() bool {
		select {
		case v := <-c.Updates():
			return v.Ready && !v.Loading
		default:
			return false
		}
	}, waitFor, tick)

	c.Close()
	c.Close()
	_, open := <-c.Updates()
	assert.False(t, open)
}

func TestClose_FetchKeepsRunningForOthers(t *testing.T) {
	src := catalogtest.NewSource().With("202301", `{"crn": "1"}`)
	release := src.Gate("202301")
	p, _ := newProvider(t, src)

	a := p.Consume(context.Background(), []catalog.Season{"202301"})
	b := p.Consume(context.Background(), []catalog.Season{"202301"})
	defer b.Close()
	a.Close()

	release()
	p.Wait()
	assert.True(t, b.View().Ready)
	assert.NoError(t, b.View().Err)
}
