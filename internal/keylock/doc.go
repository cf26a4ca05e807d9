// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package keylock provides mutual exclusion scoped to an arbitrary string
// key. Operations sharing a key run one at a time in arrival order while
// operations on different keys run in parallel.
package keylock
