// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/ferryctl/internal/config"
)

func TestMangleArguments(t *testing.T) {
	config.Config.Namespace = "cq"
	_, err := config.Load("testdata/ferryctl.yaml")
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults inserted after command",
			args: []string{"ferryctl", "cq", "202301"},
			want: []string{"ferryctl", "cq", "--source", "dir", "202301"},
		},
		{
			name: "named set replaces defaults",
			args: []string{"ferryctl", "cq", "202301", "@wide"},
			want: []string{"ferryctl", "cq", "202301", "-a", "title:::U", "-t"},
		},
		{
			name: "unknown set inserts nothing",
			args: []string{"ferryctl", "cq", "@nope", "202301"},
			want: []string{"ferryctl", "cq", "202301"},
		},
		{
			name: "help short circuits",
			args: []string{"ferryctl", "cq", "202301", "-h"},
			want: []string{"ferryctl", "cq", "--help"},
		},
		{
			name: "root flag untouched",
			args: []string{"ferryctl", "--help"},
			want: []string{"ferryctl", "--help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mangleArguments(tt.args))
		})
	}
}
