// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package source implements catalog.Source over HTTP, S3 and a local
// directory. Every implementation returns the season payload as an array of
// raw listings.
package source
