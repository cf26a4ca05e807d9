// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// InitLogger sets up Apex with a custom handler. The level comes from the
// argument, falling back to FERRY_LOG and then ERROR.
func InitLogger(level ...string) {
	lvl := ""
	if len(level) > 0 {
		lvl = level[0]
	}
	if lvl == "" {
		lvl = os.Getenv("FERRY_LOG")
	}
	if lvl == "" {
		lvl = "ERROR"
	}
	log.SetHandler(NewHandler(os.Stderr))
	parsed, err := log.ParseLevel(strings.ToLower(lvl))
	if err != nil {
		parsed = log.ErrorLevel
	}
	log.SetLevel(parsed)
}

// CustomHandler formats log messages as one line each. Stdout belongs to
// command output, so the default writer is stderr.
type CustomHandler struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewHandler returns a CustomHandler writing to w.
func NewHandler(w io.Writer) *CustomHandler {
	return &CustomHandler{w: w, now: time.Now}
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := h.now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())

	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s", timestamp, level, e.Message)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields[name])
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}
