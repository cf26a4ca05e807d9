// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package ferry

import (
	"context"

	"github.com/apex/log"
)

// FailureMessage is the user-facing text for a failed batch.
const FailureMessage = "Failed to fetch course information"

// Notifier is the user-visible side channel for failures. It is called once
// per failing batch, with the first failure of that batch, on the goroutine
// that observed it.
type Notifier interface {
	Notify(ctx context.Context, err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, err error)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, err error) {
	f(ctx, err)
}

// LogNotifier reports failures through the logger.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(_ context.Context, err error) {
	log.WithError(err).Error(FailureMessage)
}
