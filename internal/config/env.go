// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment variable ferryctl reads.
const EnvPrefix = "FERRY"

// Env holds the settings that only come from the environment.
type Env struct {
	Log          string `envconfig:"LOG" default:"ERROR"`
	Cfg          string `envconfig:"CFG"`
	OtelEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OtelEndpoint string `envconfig:"OTEL_ENDPOINT"`
	FilterDelim  string `envconfig:"FILTER_DELIM" default:","`
}

// LoadEnv reads dotenv files, if any exist, then parses the FERRY_* variables.
// Variables already set in the environment are never overridden by a file.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return env, nil
}
