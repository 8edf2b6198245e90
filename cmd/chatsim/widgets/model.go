// Package widgets is the TUI for the counter and color switcher toys.
package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatsim/cmd/chatsim/ui"
	toys "chatsim/internal/widgets"
)

type keyMap struct {
	Increment key.Binding
	Decrement key.Binding
	Next      key.Binding
	Pick      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Increment: key.NewBinding(key.WithKeys("+", "=", "up", "k")),
	Decrement: key.NewBinding(key.WithKeys("-", "down", "j")),
	Next:      key.NewBinding(key.WithKeys("tab", "c")),
	Pick:      key.NewBinding(key.WithKeys("1", "2", "3")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// Model shows the counter on a panel tinted by the color switcher.
type Model struct {
	counter toys.Counter
	colors  toys.ColorSwitcher
	styles  ui.Styles
	width   int
}

// New creates the widgets model.
func New(styles ui.Styles) Model {
	return Model{styles: styles}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Increment):
			m.counter.Increment()
		case key.Matches(msg, keys.Decrement):
			m.counter.Decrement()
		case key.Matches(msg, keys.Next):
			m.colors.Next()
		case key.Matches(msg, keys.Pick):
			_ = m.colors.SetIndex(int(msg.String()[0] - '1'))
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	current := m.colors.Current()

	counter := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Title.Render("Counter"),
		m.styles.Value.Render(fmt.Sprintf("%d", m.counter.Value)),
		m.styles.Help.Render("[-]  [+]"),
	)

	buttons := make([]string, len(toys.Colors))
	for i, c := range toys.Colors {
		label := fmt.Sprintf("%d %s", i+1, c.Label)
		if c.Name == current.Name {
			label = "[" + label + "]"
		}
		buttons[i] = label
	}

	panel := lipgloss.NewStyle().
		Background(lipgloss.Color(current.Hex)).
		Foreground(lipgloss.Color("#222222")).
		Padding(1, 4).
		Render(counter)

	return lipgloss.JoinVertical(lipgloss.Left,
		panel,
		"",
		strings.Join(buttons, "   "),
		m.styles.Help.Render("+/- count · tab next color · 1-3 pick color · q quit"),
	)
}

// Value returns the counter value.
func (m Model) Value() int { return m.counter.Value }

// Color returns the selected color.
func (m Model) Color() toys.Color { return m.colors.Current() }
