// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ferryctl/internal/ferry"
	"github.com/staranto/ferryctl/internal/meta"
	"github.com/staranto/ferryctl/internal/output"
)

// CqExamples are shown by cq --examples and in the generated docs.
var CqExamples = [][2]string{
	{"ferryctl cq 202303", "every course of the fall 2023 season"},
	{"ferryctl cq latest -a course_code,title", "course code and title of the newest season"},
	{"ferryctl cq 202301,202303 -f 'professors@Smith'", "courses taught by a Smith in either season"},
	{"ferryctl cq 202303 -f 'areas@QR' --sort=-course", "quantitative reasoning courses, course descending"},
	{"ferryctl cq 202303 -o json -a '*::U'", "json output, every value upper cased"},
	{"ferryctl cq 202303 -o raw", "the normalized listings as a json array"},
}

// CqCommandAction loads the requested seasons and queries their courses.
func CqCommandAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("examples") {
		output.DumpExamples(writer(cmd), CqExamples)
		return nil
	}

	known, err := KnownSeasons(cmd)
	if err != nil {
		return err
	}
	want, err := ResolveSeasons(cmd.Args().Slice(), known)
	if err != nil {
		return err
	}

	// The failure is returned to main, which prints it.
	quiet := ferry.NotifierFunc(func(context.Context, error) {})
	p, err := NewProvider(ctx, cmd, known, ferry.WithNotifier(quiet))
	if err != nil {
		return err
	}
	defer p.Close()

	c := p.Consume(ctx, want)
	defer c.Close()

	v, err := settle(ctx, p, c)
	if err != nil {
		return err
	}
	if v.Err != nil {
		return fmt.Errorf("%s: %w", ferry.FailureMessage, v.Err)
	}
	log.Debugf("cq loaded %d records from %v", len(v.Records()), want)

	al, err := BuildAttrs(cmd, cmd.String("id-key"))
	if err != nil {
		return err
	}

	return output.SliceDiceSpit(v.Records(), al, OutputOptions(cmd), writer(cmd))
}

// CqCommandBuilder constructs the cli.Command definition for "cq".
func CqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "cq",
		Usage:     "course query",
		UsageText: `ferryctl cq SEASON... [options]`,
		Output:    true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "examples",
				Usage: "show usage examples",
			},
			NewParallelFlag("cq", meta.Config.Source),
		},
		Action: CqCommandAction,
		Meta:   meta,
	}).Build()
}
