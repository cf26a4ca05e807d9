// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package output filters, sorts, projects and renders catalog records as
// text tables, JSON or YAML.
package output
