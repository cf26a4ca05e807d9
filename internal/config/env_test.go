// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyFile(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, b, 0o600)
}

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("FERRY_LOG", "")
	os.Unsetenv("FERRY_LOG")
	t.Setenv("FERRY_OTEL_ENABLED", "")
	os.Unsetenv("FERRY_OTEL_ENABLED")

	env, err := LoadEnv("testdata/does-not-exist.env")
	require.NoError(t, err)
	assert.Equal(t, "ERROR", env.Log)
	assert.True(t, env.OtelEnabled)
	assert.Equal(t, ",", env.FilterDelim)
}

func TestLoadEnv_DotenvDoesNotOverride(t *testing.T) {
	t.Setenv("FERRY_LOG", "warn")
	t.Setenv("FERRY_OTEL_ENDPOINT", "")
	os.Unsetenv("FERRY_OTEL_ENDPOINT")

	env, err := LoadEnv("testdata/dotenv")
	require.NoError(t, err)
	assert.Equal(t, "warn", env.Log)
	assert.Equal(t, "localhost:4318", env.OtelEndpoint)
}

func TestLoadEnv_BadBool(t *testing.T) {
	t.Setenv("FERRY_OTEL_ENABLED", "maybe")

	_, err := LoadEnv("testdata/does-not-exist.env")
	assert.Error(t, err)
}
