// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestHandleLog_SortsFields(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf)
	h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	l := &log.Logger{Handler: h, Level: log.DebugLevel}
	l.WithField("season", "202301").WithError(errors.New("boom")).Warn("fetch failed")

	assert.Equal(t, "2026-01-02 03:04:05 W fetch failed error=boom season=202301\n", buf.String())
}

func TestInitLogger_Level(t *testing.T) {
	t.Setenv("FERRY_LOG", "debug")
	InitLogger()
	assert.Equal(t, log.DebugLevel, log.Log.(*log.Logger).Level)

	InitLogger("warn")
	assert.Equal(t, log.WarnLevel, log.Log.(*log.Logger).Level)

	InitLogger("nonsense")
	assert.Equal(t, log.ErrorLevel, log.Log.(*log.Logger).Level)
}
