// Package chat provides test utilities for TUI testing.
package chat

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chatsim/cmd/chatsim/ui"
	"chatsim/internal/config"
	"chatsim/internal/scheduler"
	"chatsim/internal/session"
)

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// NewTestModel creates a sized model on a manual clock with a fixed light
// theme and sequential ids.
func NewTestModel(t *testing.T) (Model, *scheduler.Manual) {
	t.Helper()
	clock := scheduler.NewManual(testEpoch)
	m := New(clock, config.DefaultConfig(),
		WithStyles(ui.NewStyles(ui.LightTheme())),
		WithLocation(time.UTC),
		WithSessionOptions(session.WithIDGenerator(session.NewSequenceGenerator("m"))),
	)
	t.Cleanup(m.Shutdown)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model), clock
}

// update feeds msgs through Update in order.
func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyPress(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// tick advances the clock and redraws, the way a timer callback would.
func tick(t *testing.T, m Model, clock *scheduler.Manual, d time.Duration) Model {
	t.Helper()
	clock.Advance(d)
	return update(t, m, callbackMsg{})
}
