// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package keylock

import (
	"context"
	"fmt"
	"sync"

	"github.com/apex/log"
	"golang.org/x/sync/semaphore"
)

// Lock serializes operations per key. The zero value is not usable, use New.
//
// There is no timeout. An operation that never returns keeps its key locked
// forever and every later caller for that key waits behind it.
type Lock struct {
	mu   sync.Mutex
	keys map[string]*slot
}

// slot is the per-key primitive. It lives only while somebody holds or waits
// for the key.
type slot struct {
	sem  *semaphore.Weighted
	refs int
}

// New returns an empty Lock.
func New() *Lock {
	return &Lock{keys: make(map[string]*slot)}
}

// Acquire runs op while holding the lock for key and returns op's error.
// Callers for the same key are admitted in FIFO order; the underlying
// semaphore never lets a newcomer jump ahead of a queued waiter.
//
// ctx only bounds the wait. Once op is running it is never interrupted by
// Acquire, op decides what to do with ctx itself.
func (l *Lock) Acquire(ctx context.Context, key string, op func(context.Context) error) error {
	s := l.ref(key)
	defer l.unref(key, s)

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed waiting for lock %s: %w", key, err)
	}
	defer s.sem.Release(1)

	log.Debugf("keylock: acquired %s", key)
	return op(ctx)
}

// Len returns the number of keys currently held or waited on.
func (l *Lock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

// waiters returns how many callers hold or wait for key.
func (l *Lock) waiters(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.keys[key]; ok {
		return s.refs
	}
	return 0
}

func (l *Lock) ref(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.keys[key]
	if !ok {
		s = &slot{sem: semaphore.NewWeighted(1)}
		l.keys[key] = s
	}
	s.refs++
	return s
}

// unref drops the slot once the last holder or waiter is gone so the map does
// not grow with every key ever seen.
func (l *Lock) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.keys, key)
	}
}
