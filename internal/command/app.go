// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ferryctl/internal/config"
	"github.com/staranto/ferryctl/internal/meta"
)

// InitApp builds the root command. A missing config file is fine unless
// FERRY_CFG names one explicitly.
func InitApp(ctx context.Context, args []string, env config.Env) (*cli.Command, error) {

	// The arg[1] immediately following the binary (arg[0]) is the ferryctl
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	config.Config.Namespace = ns
	cfg, err := config.Load()
	if err != nil {
		if env.Cfg != "" {
			return nil, err
		}
		log.WithError(err).Debug("running without a config file")
		cfg = config.Type{Namespace: ns}
	}

	meta := meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
		Env:     env,
	}

	app := &cli.Command{
		Name:  "ferryctl",
		Usage: "season catalog fetch and query",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "ferryctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		CqCommandBuilder(meta),
		LoadCommandBuilder(meta),
		SeasonsCommandBuilder(meta),
		CompletionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
