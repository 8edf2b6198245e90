package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatsim/internal/render"
	"chatsim/internal/session"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	frame := m.Frame()

	sections := []string{
		m.renderHeader(frame.Header),
		m.viewport.View(),
	}
	if m.status != "" {
		sections = append(sections, m.styles.Hint.Render(m.status))
	}
	sections = append(sections, m.renderInput())
	if frame.FooterVisible {
		sections = append(sections, m.styles.Footer.Width(m.width).Render(frame.Footer))
	}
	sections = append(sections, m.help.ShortHelpView(m.keys.ShortHelp(m.focus)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(h render.Header) string {
	top := m.styles.TopBar.Width(m.width).Render(h.Title)
	status := m.styles.Status.Render("● " + h.Status)
	info := m.styles.Header.Width(m.width).Render(
		m.styles.BotName.Render(h.BotName) + "\n" + status,
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, info)
}

func (m Model) renderInput() string {
	box := m.styles.InputBlur
	if m.focus == FocusInput {
		box = m.styles.InputBox
	}
	return box.Render(m.textarea.View())
}

// bubbleWidth is the widest a message bubble may grow.
func (m Model) bubbleWidth() int {
	w := m.width * 2 / 3
	if w < 16 {
		w = max(m.width-2, 1)
	}
	return w
}

// renderMessages draws every bubble plus the typing indicator.
func (m Model) renderMessages(f render.Frame) string {
	if len(f.Bubbles) == 0 && f.Typing == nil {
		return m.styles.Hint.Render("Say hello to " + f.Header.BotName + ".")
	}

	var b strings.Builder
	for i, bubble := range f.Bubbles {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderBubble(bubble))
	}
	if f.Typing != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderTyping(*f.Typing))
	}
	return b.String()
}

func (m Model) renderBubble(bubble render.Bubble) string {
	style := m.styles.BotBubble
	if bubble.Sender == session.SenderUser {
		style = m.styles.UserBubble
	}
	// Short messages get a bubble that hugs the text; longer ones wrap at
	// the bubble width, breaking words that do not fit on a line.
	width := min(lipgloss.Width(bubble.Text)+style.GetHorizontalPadding(), m.bubbleWidth())
	body := style.Width(width).Render(bubble.Text)
	if bubble.Selected {
		body = m.styles.Selected.Render(body)
	}

	lines := []string{body}
	meta := m.styles.Timestamp.Render(bubble.Time)
	if badges := m.renderBadges(bubble.Badges); badges != "" {
		meta = badges + "  " + meta
	}
	lines = append(lines, meta)
	if bubble.Picker != nil {
		lines = append(lines, m.renderPicker(*bubble.Picker))
	}

	pos := lipgloss.Left
	if bubble.Align == render.AlignRight {
		pos = lipgloss.Right
	}
	block := lipgloss.JoinVertical(pos, lines...)
	return lipgloss.PlaceHorizontal(m.width, pos, block)
}

func (m Model) renderBadges(badges []render.Badge) string {
	if len(badges) == 0 {
		return ""
	}
	parts := make([]string, len(badges))
	for i, b := range badges {
		parts[i] = fmt.Sprintf("%s %d", b.Symbol, b.Count)
	}
	return m.styles.Badge.Render(strings.Join(parts, " "))
}

// renderPicker numbers each option so it can be chosen with a digit key. The
// border fades with the picker's opacity.
func (m Model) renderPicker(p render.PickerView) string {
	parts := make([]string, len(p.Options))
	for i, r := range p.Options {
		parts[i] = fmt.Sprintf("%d %s", i+1, r)
	}
	fade := m.styles.Fade(p.Opacity)
	return m.styles.Picker.
		BorderForeground(fade).
		Foreground(fade).
		Render(strings.Join(parts, "  "))
}

func (m Model) renderTyping(t render.TypingView) string {
	dots := make([]string, len(t.Dots))
	for i, op := range t.Dots {
		dots[i] = m.styles.Dot(op)
	}
	return m.styles.Typing.Render(strings.Join(dots, " "))
}
