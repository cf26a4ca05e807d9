// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package keylock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_ReturnsOpError(t *testing.T) {
	l := New()
	want := errors.New("boom")

	err := l.Acquire(context.Background(), "k", func(context.Context) error { return want })
	assert.ErrorIs(t, err, want)
	assert.Equal(t, 0, l.Len())
}

func TestAcquire_SameKeySerializes(t *testing.T) {
	l := New()

	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Acquire(context.Background(), "season", func(context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak)
	assert.Equal(t, 0, l.Len(), "slots are discarded once nobody waits")
}

func TestAcquire_DifferentKeysRunInParallel(t *testing.T) {
	l := New()

	aIn := make(chan struct{})
	bIn := make(chan struct{})
	errs := make(chan error, 2)

	go func() {
		errs <- l.Acquire(context.Background(), "a", func(context.Context) error {
			close(aIn)
			select {
			case <-bIn:
				return nil
			case <-time.After(2 * time.Second):
				return errors.New("b never entered while a was held")
			}
		})
	}()
	go func() {
		errs <- l.Acquire(context.Background(), "b", func(context.Context) error {
			close(bIn)
			select {
			case <-aIn:
				return nil
			case <-time.After(2 * time.Second):
				return errors.New("a never entered while b was held")
			}
		})
	}()

	assert.NoError(t, <-errs)
	assert.NoError(t, <-errs)
}

func TestAcquire_ArrivalOrder(t *testing.T) {
	l := New()

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = l.Acquire(context.Background(), "k", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Acquire(context.Background(), "k", func(context.Context) error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
		// Wait until this waiter is registered and parked before starting the
		// next one.
		require.Eventually(t, func() bool { return l.waiters("k") == i+2 }, time.Second, time.Millisecond)
		time.Sleep(10 * time.Millisecond)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestAcquire_ContextBoundsTheWait(t *testing.T) {
	l := New()

	release := make(chan struct{})
	held := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- l.Acquire(context.Background(), "k", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ran := false
	err := l.Acquire(ctx, "k", func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, 0, l.Len())
}
