// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ferryctl/internal/normalize"
	"github.com/staranto/ferryctl/internal/output"
	"github.com/staranto/ferryctl/internal/source"
)

// NewOutputFlags returns the flags shared by commands that emit records. ns is
// the command name, used as the config file namespace, and path the config
// file.
func NewOutputFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Sources: configSources(ns, "attrs", path, false),
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: configSources(ns, "color", path, true),
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: configSources(ns, "output", path, true),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OneOfValidator(output.Formats...))
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: configSources(ns, "sort", path, false),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: configSources(ns, "titles", path, true),
			Value:   false,
		},
	}
}

// NewSourceFlags returns the flags that select where catalogs come from.
func NewSourceFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "source",
			Usage: "catalog source type, one of http, s3 or dir",
			Sources: withEnv("FERRY_SOURCE",
				configSources(ns, "source", path, true)),
			Value: source.TypeHTTP,
			Validator: func(value string) error {
				return FlagValidators(value, OneOfValidator(source.Types...))
			},
		},
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Usage:   "base url of the catalog api",
			Sources: withEnv("FERRY_URL", configSources(ns, "url", path, true)),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "path-format",
			Usage:   "catalog path below --url, %s is the season",
			Sources: configSources(ns, "path_format", path, true),
			Value:   source.DefaultCatalogPath,
		},
		&cli.StringFlag{
			Name:    "dir",
			Usage:   "directory holding SEASON.json catalogs",
			Sources: withEnv("FERRY_DIR", configSources(ns, "dir", path, true)),
		},
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "s3 bucket holding SEASON.json catalogs",
			Sources: withEnv("FERRY_BUCKET", configSources(ns, "bucket", path, true)),
		},
		&cli.StringFlag{
			Name:    "prefix",
			Usage:   "s3 key prefix",
			Sources: configSources(ns, "prefix", path, true),
		},
		&cli.StringFlag{
			Name:    "region",
			Usage:   "s3 region",
			Sources: withEnv("AWS_REGION", configSources(ns, "region", path, true)),
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "aws shared config profile",
			Sources: withEnv("AWS_PROFILE", configSources(ns, "profile", path, true)),
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "s3 endpoint override, for s3 compatible stores",
			Sources: configSources(ns, "endpoint", path, true),
		},
		&cli.StringFlag{
			Name:    "seasons-file",
			Usage:   "json or yaml list of season codes, oldest first",
			Sources: withEnv("FERRY_SEASONS_FILE", configSources(ns, "seasons_file", path, true)),
		},
		&cli.StringFlag{
			Name:    "id-key",
			Usage:   "listing field that identifies a record within a season",
			Sources: configSources(ns, "id_key", path, true),
			Value:   normalize.DefaultIDKey,
		},
	}
}

// NewParallelFlag caps concurrent fetches per request batch.
func NewParallelFlag(ns, path string) *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "parallel",
		Aliases: []string{"p"},
		Usage:   "maximum concurrent season fetches, 0 for no limit",
		Sources: configSources(ns, "parallel", path, true),
		Value:   0,
		Validator: func(value int) error {
			return FlagValidators(value, NonNegativeValidator)
		},
	}
}

// configSources looks the key up under the command namespace and, when
// global is set, at the top level of the config file too.
func configSources(ns, key, path string, global bool) cli.ValueSourceChain {
	chain := cli.NewValueSourceChain(
		yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)),
	)
	if global {
		chain.Chain = append(chain.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
	}
	return chain
}

// withEnv puts an environment variable in front of a config chain.
func withEnv(env string, chain cli.ValueSourceChain) cli.ValueSourceChain {
	chain.Chain = append([]cli.ValueSource{cli.EnvVar(env)}, chain.Chain...)
	return chain
}
