// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/staranto/ferryctl/internal/catalog"
)

// Dir reads <Root>/<season>.json. It is meant for fixtures and offline use.
type Dir struct {
	Root string
}

// Fetch implements catalog.Source. A missing file is reported as a 404
// NetworkError so callers see the same shape as the HTTP source.
func (d Dir) Fetch(ctx context.Context, season catalog.Season) ([]catalog.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := filepath.Join(d.Root, filepath.Base(string(season))+".json")
	log.Debugf("reading %s", p)

	body, err := os.ReadFile(p)
	if err != nil {
		nerr := &catalog.NetworkError{Season: season, URL: "file://" + p, Err: err}
		if os.IsNotExist(err) {
			nerr.StatusCode = 404
		}
		return nil, nerr
	}

	return Decode(season, body)
}
