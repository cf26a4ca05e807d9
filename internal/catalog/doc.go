// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the season-partitioned listing cache. A Store fetches
// each season at most once per session, normalizes its records and publishes
// them as an immutable Snapshot so readers can detect change by comparing
// pointers or versions.
package catalog
