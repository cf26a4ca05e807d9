// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/ferryctl/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name string
		env  config.Env
	}{
		{name: "no endpoint", env: config.Env{OtelEnabled: true}},
		{name: "disabled", env: config.Env{OtelEnabled: false, OtelEndpoint: "http://localhost:4318"}},
		// Non-routable, nothing is exported before shutdown.
		{name: "enabled", env: config.Env{OtelEnabled: true, OtelEndpoint: "http://192.0.2.1:4318"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shutdown, err := Setup(context.Background(), tt.env)
			require.NoError(t, err)
			assert.NoError(t, shutdown(context.Background()))
		})
	}
}
