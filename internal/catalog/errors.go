// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
)

// NetworkError reports a transport failure or a non-success response while
// fetching a season. StatusCode is zero when no response was received.
type NetworkError struct {
	Season     Season
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e == nil {
		return "network error"
	}
	msg := fmt.Sprintf("failed to fetch season %s", e.Season)
	if e.URL != "" {
		msg += " from " + e.URL
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError reports a malformed payload or record. Offset is the index of
// the offending record, or -1 when the payload as a whole is unusable.
type ParseError struct {
	Season Season
	Offset int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "parse error"
	}
	msg := fmt.Sprintf("failed to parse season %s", e.Season)
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" record %d", e.Offset)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
