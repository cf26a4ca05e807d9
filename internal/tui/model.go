// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package tui renders season loading progress, as a Bubble Tea spinner on a
// terminal or as plain lines otherwise.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/staranto/ferryctl/internal/catalog"
	"github.com/staranto/ferryctl/internal/ferry"
)

// Status is the display state of one season.
type Status string

const (
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusStopped Status = "stopped"
)

var (
	loadedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// SeasonState is one line of the display.
type SeasonState struct {
	Season  catalog.Season
	Status  Status
	Records int
}

// States derives the per-season lines from a consumer view. Once an error is
// recorded, seasons not cached yet are shown as stopped.
func States(v ferry.View) []SeasonState {
	out := make([]SeasonState, 0, len(v.Seasons))
	for _, s := range v.Seasons {
		st := SeasonState{Season: s, Status: StatusLoading}
		if l, ok := v.Catalog.Listings(s); ok {
			st.Status = StatusLoaded
			st.Records = len(l)
		} else if v.Err != nil {
			st.Status = StatusStopped
		}
		out = append(out, st)
	}
	return out
}

// ViewMsg carries a new consumer view into the model.
type ViewMsg struct {
	View ferry.View
}

// DoneMsg ends the program.
type DoneMsg struct{}

// Model is the Bubble Tea model for the load progress display.
type Model struct {
	seasons []SeasonState
	spinner spinner.Model
	err     error
	done    bool
	abort   func()
}

// ModelOption customizes a Model.
type ModelOption func(*Model)

// WithAbort sets the function called when the user quits early.
func WithAbort(fn func()) ModelOption {
	return func(m *Model) { m.abort = fn }
}

// NewModel returns a Model showing seasons as loading.
func NewModel(seasons []catalog.Season, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	states := make([]SeasonState, len(seasons))
	for i, season := range seasons {
		states[i] = SeasonState{Season: season, Status: StatusLoading}
	}

	m := Model{seasons: states, spinner: s}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ViewMsg:
		m.seasons = States(msg.View)
		m.err = msg.View.Err
		if !msg.View.Loading {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case DoneMsg:
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.done = true
			if m.abort != nil {
				m.abort()
			}
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders one line per season.
func (m Model) View() string {
	var b strings.Builder
	for _, s := range m.seasons {
		switch s.Status {
		case StatusLoaded:
			fmt.Fprintf(&b, "  %s %s %s\n", loadedStyle.Render("✓"), s.Season, dimStyle.Render(fmt.Sprintf("%d records", s.Records)))
		case StatusStopped:
			fmt.Fprintf(&b, "  %s %s\n", failedStyle.Render("✗"), s.Season)
		default:
			fmt.Fprintf(&b, "  %s %s\n", m.spinner.View(), s.Season)
		}
	}
	if m.done && m.err != nil {
		fmt.Fprintf(&b, "\n  %s: %s\n", ferry.FailureMessage, m.err)
	}
	return b.String()
}
