// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package ferry

import (
	"fmt"

	"github.com/staranto/ferryctl/internal/catalog"
)

// BatchError aggregates the per-season failures of one RequestSeasons call.
// Seasons lists every season the batch dispatched, failed or not.
type BatchError struct {
	Seasons []catalog.Season
	Errors  []error
}

func (e *BatchError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "batch failed"
	case 1:
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d of %d seasons failed, first: %v", len(e.Errors), len(e.Seasons), e.Errors[0])
}

// Unwrap exposes the member errors to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	return e.Errors
}
