// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/staranto/ferryctl/internal/catalog"
	"github.com/staranto/ferryctl/internal/ferry"
)

// settle waits until c stops loading, then until every batch of p has
// finished, and returns the final view. Loading stops at the first error, the
// wait for p lets the remaining seasons land before anything is reported.
func settle(ctx context.Context, p *ferry.Provider, c *ferry.Consumer) (ferry.View, error) {
	if err := awaitIdle(ctx, c); err != nil {
		return ferry.View{}, err
	}

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ferry.View{}, ctx.Err()
	}
	return c.View(), nil
}

func awaitIdle(ctx context.Context, c *ferry.Consumer) error {
	if !c.View().Loading {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-c.Updates():
			if !ok || !v.Loading {
				return nil
			}
		}
	}
}

// failedSeason reports the season a fetch or parse error belongs to.
func failedSeason(err error) (catalog.Season, bool) {
	var nerr *catalog.NetworkError
	if errors.As(err, &nerr) {
		return nerr.Season, true
	}
	var perr *catalog.ParseError
	if errors.As(err, &perr) {
		return perr.Season, true
	}
	return "", false
}
