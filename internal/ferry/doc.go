// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package ferry coordinates season requests from many consumers over one
// catalog.Store. A Provider counts in-flight fetches, keeps the session
// error log and notifies subscribers; a Consumer derives its own loading and
// error view from that shared state.
package ferry
