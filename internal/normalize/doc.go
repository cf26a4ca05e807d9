// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package normalize turns raw catalog listings into catalog.Records.
package normalize
