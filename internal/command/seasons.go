// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ferryctl/internal/attrs"
	"github.com/staranto/ferryctl/internal/catalog"
	"github.com/staranto/ferryctl/internal/meta"
	"github.com/staranto/ferryctl/internal/output"
)

// SeasonsCommandAction lists the known seasons, newest first.
func SeasonsCommandAction(ctx context.Context, cmd *cli.Command) error {
	known, err := KnownSeasons(cmd)
	if err != nil {
		return err
	}
	if len(known) == 0 {
		return errors.New("no seasons known, pass --seasons-file")
	}
	log.Debugf("known seasons: %v", known)

	records := make([]catalog.Record, 0, len(known))
	for i, s := range known {
		records = append(records, catalog.Record{
			ID:     string(s),
			Season: s,
			Fields: map[string]any{"season": string(s), "newest": i == 0},
		})
	}

	al := attrs.AttrList{{Key: "season", OutputKey: "season", Include: true}}
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return err
		}
	}

	return output.SliceDiceSpit(records, al, OutputOptions(cmd), writer(cmd))
}

// SeasonsCommandBuilder constructs the cli.Command definition for "seasons".
func SeasonsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "seasons",
		Usage:     "list known seasons",
		UsageText: `ferryctl seasons --seasons-file FILE [options]`,
		Output:    true,
		Action:    SeasonsCommandAction,
		Meta:      meta,
	}).Build()
}
