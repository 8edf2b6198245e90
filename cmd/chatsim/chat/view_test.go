package chat

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatsim/internal/render"
	"chatsim/internal/session"
)

func TestView_NotReady(t *testing.T) {
	m := Model{}
	assert.Equal(t, "Loading...", m.View())
}

func TestView_Chrome(t *testing.T) {
	m, _ := NewTestModel(t)

	out := m.View()

	assert.Contains(t, out, "Messenger ni?")
	assert.Contains(t, out, "Messenger Bot")
	assert.Contains(t, out, "Online")
	assert.NotContains(t, out, "Messenger gyud d i", "footer is hidden while the keyboard is up")

	m = update(t, m, keyPress(tea.KeyTab))
	assert.Contains(t, m.View(), "Messenger gyud d i")
}

func TestView_MessagesAndTyping(t *testing.T) {
	m, clock := NewTestModel(t)
	m = update(t, m, typeText("tell me a joke"), keyPress(tea.KeyEnter))

	out := m.View()
	assert.Contains(t, out, "tell me a joke")
	assert.Contains(t, out, "9:00 AM")
	assert.Contains(t, out, "●", "typing dots are drawn")

	m = tick(t, m, clock, 1300*time.Millisecond)
	out = m.View()
	assert.Contains(t, out, "atoms")
}

func TestView_PickerAndBadges(t *testing.T) {
	m, clock := NewTestModel(t)
	m = update(t, m, typeText("yo"), keyPress(tea.KeyEnter), keyPress(tea.KeyTab), keyPress(tea.KeyEnter))
	m = tick(t, m, clock, 180*time.Millisecond)

	out := m.View()
	assert.Contains(t, out, "1 👍")
	assert.Contains(t, out, "6 😡")

	m = update(t, m, typeText("1"))
	assert.Contains(t, m.View(), "👍 1")
}

func TestRenderBubble_WrapsWithoutLosingText(t *testing.T) {
	m, _ := NewTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 30})
	require.Equal(t, 20, m.bubbleWidth())

	tests := []struct {
		name string
		text string
	}{
		{"long url", "see https://example.com/a/very/long/path/that/exceeds"},
		{"emoji run", strings.Repeat("😂", 14)},
		{"short", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ansi.Strip(m.renderBubble(render.Bubble{Text: tt.text, Sender: session.SenderBot}))

			var joined strings.Builder
			for _, line := range strings.Split(out, "\n") {
				assert.LessOrEqual(t, lipgloss.Width(line), 30)
				joined.WriteString(strings.ReplaceAll(line, " ", ""))
			}
			assert.Contains(t, joined.String(), strings.ReplaceAll(tt.text, " ", ""))
		})
	}
}

func TestRenderBubble_HugsShortText(t *testing.T) {
	m, _ := NewTestModel(t)

	out := ansi.Strip(m.renderBubble(render.Bubble{Text: "hi", Sender: session.SenderUser, Align: render.AlignRight}))
	first := strings.Split(out, "\n")[0]
	assert.Equal(t, 80, lipgloss.Width(first))
	assert.True(t, strings.HasSuffix(first, "  hi "), "right-aligned bubble is only as wide as its text: %q", first)
	assert.False(t, strings.HasSuffix(first, "hi  "), first)
}
