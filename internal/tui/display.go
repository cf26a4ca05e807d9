// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/staranto/ferryctl/internal/catalog"
	"github.com/staranto/ferryctl/internal/ferry"
)

// Display renders consumer views until the channel closes or a view stops
// loading.
type Display interface {
	Run(ctx context.Context, updates <-chan ferry.View) error
}

// Options configures NewDisplay.
type Options struct {
	Writer     io.Writer
	ForcePlain bool
	Seasons    []catalog.Season
	// Abort is called when the user quits the TUI early.
	Abort func()
}

// NewDisplay returns a TUI display when the writer is a terminal, or a plain
// text display otherwise.
func NewDisplay(opts Options) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.ForcePlain || !isTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer, now: time.Now}
	}
	return &TUIDisplay{opts: opts}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// PlainDisplay prints a timestamped line per view.
type PlainDisplay struct {
	w   io.Writer
	now func() time.Time
}

// Run implements Display.
func (d *PlainDisplay) Run(ctx context.Context, updates <-chan ferry.View) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-updates:
			if !ok {
				return nil
			}
			d.render(v)
			if !v.Loading {
				return nil
			}
		}
	}
}

func (d *PlainDisplay) render(v ferry.View) {
	ts := d.now().Format("15:04:05")
	loaded := 0
	for _, s := range States(v) {
		if s.Status == StatusLoaded {
			loaded++
		}
	}
	switch {
	case v.Err != nil:
		_, _ = fmt.Fprintf(d.w, "[%s] %d/%d seasons loaded, %s: %v\n", ts, loaded, len(v.Seasons), ferry.FailureMessage, v.Err)
	case v.Loading:
		_, _ = fmt.Fprintf(d.w, "[%s] %d/%d seasons loaded, loading\n", ts, loaded, len(v.Seasons))
	default:
		_, _ = fmt.Fprintf(d.w, "[%s] %d/%d seasons loaded\n", ts, loaded, len(v.Seasons))
	}
}

// TUIDisplay renders a spinner per season with Bubble Tea. It falls back to
// PlainDisplay if the program cannot start.
type TUIDisplay struct {
	opts Options
}

// Run implements Display.
func (d *TUIDisplay) Run(ctx context.Context, updates <-chan ferry.View) error {
	var mopts []ModelOption
	if d.opts.Abort != nil {
		mopts = append(mopts, WithAbort(d.opts.Abort))
	}
	p := tea.NewProgram(NewModel(d.opts.Seasons, mopts...),
		tea.WithOutput(d.opts.Writer),
		tea.WithContext(ctx),
	)

	stop := make(chan struct{})
	go func() {
		defer p.Send(DoneMsg{})
		for {
			select {
			case <-stop:
				return
			case v, ok := <-updates:
				if !ok {
					return
				}
				p.Send(ViewMsg{View: v})
			}
		}
	}()

	_, err := p.Run()
	close(stop)
	if err != nil && ctx.Err() == nil {
		plain := &PlainDisplay{w: d.opts.Writer, now: time.Now}
		return plain.Run(ctx, updates)
	}
	return ctx.Err()
}
