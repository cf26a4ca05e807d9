// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package seasons

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/staranto/ferryctl/internal/catalog"
)

// Load reads a list of season codes from path. YAML is used for .yaml/.yml
// files, JSON otherwise. The generated seasons file is oldest first, so the
// result is reversed to put the newest season first.
func Load(path string) ([]catalog.Season, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seasons: %w", err)
	}

	var codes []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &codes)
	default:
		err = json.Unmarshal(raw, &codes)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse seasons %s: %w", path, err)
	}

	log.Debugf("loaded %d seasons from %s", len(codes), path)
	return NewestFirst(codes), nil
}

// NewestFirst converts codes, given oldest first, into seasons newest first.
// Blank entries are dropped.
func NewestFirst(codes []string) []catalog.Season {
	out := make([]catalog.Season, 0, len(codes))
	for i := len(codes) - 1; i >= 0; i-- {
		c := strings.TrimSpace(codes[i])
		if c == "" {
			continue
		}
		out = append(out, catalog.Season(c))
	}
	return out
}
