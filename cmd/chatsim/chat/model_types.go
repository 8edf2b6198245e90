// Package chat provides the interactive chat TUI: a bubbletea Model that
// drives a session.Session and draws it through render.Build.
package chat

import (
	"github.com/charmbracelet/bubbles/key"

	"chatsim/internal/config"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ConfigReloadedMsg delivers a hot-reloaded config to the model.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ConfigErrorMsg reports a failed hot reload. The previous config stays active.
type ConfigErrorMsg struct {
	Err error
}

// =============================================================================
// FOCUS
// =============================================================================

// Focus is where key presses go. The composer holding focus is the terminal
// analogue of the on-screen keyboard being up.
type Focus int

const (
	FocusInput Focus = iota
	FocusMessages
)

func (f Focus) String() string {
	if f == FocusMessages {
		return "messages"
	}
	return "input"
}

// =============================================================================
// KEY BINDINGS
// =============================================================================

// KeyMap holds the chat key bindings.
type KeyMap struct {
	Quit       key.Binding
	Send       key.Binding
	SwitchPane key.Binding
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Close      key.Binding
	React      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "reactions"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		React: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-6", "react"),
		),
	}
}

// ShortHelp returns the bindings shown in the help line for a focus.
func (k KeyMap) ShortHelp(f Focus) []key.Binding {
	if f == FocusMessages {
		return []key.Binding{k.Up, k.Down, k.Toggle, k.React, k.Close, k.SwitchPane, k.Quit}
	}
	return []key.Binding{k.Send, k.SwitchPane, k.Quit}
}
