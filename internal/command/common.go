// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ferryctl/internal/attrs"
	"github.com/staranto/ferryctl/internal/catalog"
	"github.com/staranto/ferryctl/internal/ferry"
	"github.com/staranto/ferryctl/internal/meta"
	"github.com/staranto/ferryctl/internal/normalize"
	"github.com/staranto/ferryctl/internal/output"
	"github.com/staranto/ferryctl/internal/seasons"
	"github.com/staranto/ferryctl/internal/source"
)

// LatestSeason may be given instead of a season code to mean the newest known
// season.
const LatestSeason = "latest"

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// writer is where command output goes.
func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// BuildAttrs starts from the default columns and merges --attrs into them.
func BuildAttrs(cmd *cli.Command, idKey string) (attrs.AttrList, error) {
	al := attrs.Default(idKey)
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, err
		}
	}
	return al, nil
}

// OutputOptions collects the output flags.
func OutputOptions(cmd *cli.Command) output.Options {
	m := GetMeta(cmd)
	return output.Options{
		Format:      cmd.String("output"),
		Filter:      cmd.String("filter"),
		FilterDelim: m.Env.FilterDelim,
		Sort:        cmd.String("sort"),
		Titles:      cmd.Bool("titles"),
		Color:       cmd.Bool("color"),
	}
}

// SourceOptions collects the source flags.
func SourceOptions(cmd *cli.Command) source.Options {
	return source.Options{
		Type:       cmd.String("source"),
		URL:        cmd.String("url"),
		PathFormat: cmd.String("path-format"),
		Dir:        cmd.String("dir"),
		Bucket:     cmd.String("bucket"),
		Prefix:     cmd.String("prefix"),
		Region:     cmd.String("region"),
		Profile:    cmd.String("profile"),
		Endpoint:   cmd.String("endpoint"),
	}
}

// KnownSeasons loads the --seasons-file enumeration, if one was given.
func KnownSeasons(cmd *cli.Command) ([]catalog.Season, error) {
	path := cmd.String("seasons-file")
	if path == "" {
		return nil, nil
	}
	return seasons.Load(path)
}

// NewProvider wires a Provider over a fresh store reading from the source the
// flags describe.
func NewProvider(ctx context.Context, cmd *cli.Command, known []catalog.Season, opts ...ferry.Option) (*ferry.Provider, error) {
	src, err := source.New(ctx, SourceOptions(cmd))
	if err != nil {
		return nil, err
	}
	store := catalog.NewStore(src, normalize.Course{IDKey: cmd.String("id-key")})

	opts = append([]ferry.Option{ferry.WithSeasons(known)}, opts...)
	if n := cmd.Int("parallel"); n > 0 {
		opts = append(opts, ferry.WithParallel(n))
	}
	return ferry.New(store, opts...), nil
}

// ResolveSeasons turns season arguments into seasons. "latest" names the
// newest known season, duplicates are kept in order of first use.
func ResolveSeasons(args []string, known []catalog.Season) ([]catalog.Season, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one SEASON is required")
	}

	var out []catalog.Season
	for _, a := range args {
		for _, s := range strings.Split(a, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if s == LatestSeason {
				if len(known) == 0 {
					return nil, fmt.Errorf("%q needs --seasons-file", LatestSeason)
				}
				s = string(known[0])
			}
			if len(known) > 0 && !slices.Contains(known, catalog.Season(s)) {
				log.Warnf("season %s is not in the seasons file", s)
			}
			if !slices.Contains(out, catalog.Season(s)) {
				out = append(out, catalog.Season(s))
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one SEASON is required")
	}
	return out, nil
}

// QueryCommandBuilder constructs the ferryctl subcommands with a consistent
// set of source and, optionally, output flags.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Output    bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	path := qcb.Meta.Config.Source

	flags := append([]cli.Flag{}, qcb.Flags...)
	flags = append(flags, NewSourceFlags(qcb.Name, path)...)
	if qcb.Output {
		flags = append(flags, NewOutputFlags(qcb.Name, path)...)
	}

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags:  flags,
		Action: qcb.Action,
	}
}
