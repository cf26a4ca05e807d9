// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ferryctl/internal/attrs"
	"github.com/staranto/ferryctl/internal/catalog"
	"github.com/staranto/ferryctl/internal/ferry"
	"github.com/staranto/ferryctl/internal/meta"
	"github.com/staranto/ferryctl/internal/output"
	"github.com/staranto/ferryctl/internal/tui"
)

// Per-season outcomes reported by load.
const (
	seasonLoaded  = "loaded"
	seasonFailed  = "failed"
	seasonSkipped = "skipped"
)

// LoadCommandAction mounts --consumers consumers on the same seasons, shows
// their progress and prints a per-season summary. Every consumer shares one
// fetch per season.
func LoadCommandAction(ctx context.Context, cmd *cli.Command) error {
	known, err := KnownSeasons(cmd)
	if err != nil {
		return err
	}
	want, err := ResolveSeasons(cmd.Args().Slice(), known)
	if err != nil {
		return err
	}

	p, err := NewProvider(ctx, cmd, known)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	n := cmd.Int("consumers")
	consumers := make([]*ferry.Consumer, 0, n)
	for i := 0; i < n; i++ {
		consumers = append(consumers, p.Consume(ctx, want))
	}
	defer func() {
		for _, c := range consumers {
			c.Close()
		}
	}()
	log.Debugf("mounted %d consumers on %v", n, want)

	display := tui.NewDisplay(tui.Options{
		Writer:     errWriter(cmd),
		ForcePlain: !cmd.Bool("progress"),
		Seasons:    want,
		Abort:      cancel,
	})
	if err := display.Run(ctx, consumers[0].Updates()); err != nil && ctx.Err() == nil {
		log.WithError(err).Debug("display stopped")
	}

	v, err := settle(ctx, p, consumers[0])
	if err != nil {
		return err
	}

	rows := summarize(v, p.Errors())
	opts := OutputOptions(cmd)
	opts.Titles = true
	al := loadSummaryAttrs()
	if err := output.SliceDiceSpit(rows, al, opts, writer(cmd)); err != nil {
		return err
	}

	total := 0
	for _, r := range rows {
		if n, ok := r.Get("records").(int); ok {
			total += n
		}
	}
	fmt.Fprintf(errWriter(cmd), "%s of %s seasons, %s records, %d consumers, %s\n",
		humanize.Comma(int64(v.Present())), humanize.Comma(int64(len(want))),
		humanize.Comma(int64(total)), n, time.Since(start).Round(time.Millisecond))

	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("%s: %w", ferry.FailureMessage, &ferry.BatchError{Seasons: want, Errors: errs})
	}
	return nil
}

func loadSummaryAttrs() attrs.AttrList {
	return attrs.AttrList{
		{Key: "season", OutputKey: "season", Include: true},
		{Key: "status", OutputKey: "status", Include: true},
		{Key: "records", OutputKey: "records", Include: true},
		{Key: "error", OutputKey: "error", Include: true},
	}
}

// summarize builds one row per requested season. A season the session error
// log names is failed, one neither loaded nor failed was never fetched because
// the display was aborted.
func summarize(v ferry.View, errs []error) []catalog.Record {
	failed := make(map[catalog.Season]error)
	for _, err := range errs {
		if s, ok := failedSeason(err); ok {
			if _, seen := failed[s]; !seen {
				failed[s] = err
			}
		}
	}

	rows := make([]catalog.Record, 0, len(v.Seasons))
	for _, s := range v.Seasons {
		fields := map[string]any{"season": string(s), "records": 0}
		switch l, ok := v.Catalog.Listings(s); {
		case ok:
			fields["status"] = seasonLoaded
			fields["records"] = len(l)
		case failed[s] != nil:
			fields["status"] = seasonFailed
			fields["error"] = failed[s].Error()
		default:
			fields["status"] = seasonSkipped
		}
		rows = append(rows, catalog.Record{ID: string(s), Season: s, Fields: fields})
	}
	return rows
}

// errWriter is where progress and summaries go.
func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// LoadCommandBuilder constructs the cli.Command definition for "load".
func LoadCommandBuilder(meta meta.Meta) *cli.Command {
	path := meta.Config.Source
	return (&QueryCommandBuilder{
		Name:      "load",
		Usage:     "load seasons through several consumers and summarize",
		UsageText: `ferryctl load SEASON... [options]`,
		Output:    true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "consumers",
				Aliases: []string{"n"},
				Usage:   "number of consumers mounted on the same seasons",
				Sources: configSources("load", "consumers", path, false),
				Value:   1,
				Validator: func(value int) error {
					return FlagValidators(value, PositiveValidator)
				},
			},
			&cli.BoolFlag{
				Name:    "progress",
				Usage:   "show a spinner per season on a terminal",
				Sources: configSources("load", "progress", path, true),
			},
			NewParallelFlag("load", path),
		},
		Action: LoadCommandAction,
		Meta:   meta,
	}).Build()
}
