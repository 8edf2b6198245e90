package chat

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"chatsim/cmd/chatsim/ui"
	"chatsim/internal/config"
	"chatsim/internal/session"
)

// chromeRows is the height of everything above the message list.
const chromeRows = 4

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 0)
		m.height = max(msg.Height, 0)
		m.ready = true

	case callbackMsg:
		if msg.fn != nil {
			msg.fn()
		}

	case ConfigReloadedMsg:
		m.applyConfig(msg)

	case ConfigErrorMsg:
		m.status = fmt.Sprintf("config reload failed: %v", msg.Err)
		m.log.Warn("config reload failed", zap.Error(msg.Err))

	case tea.KeyMsg:
		var quit bool
		m, cmd, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
	}

	m.layout()
	m.refresh()
	return m, cmd
}

func (m *Model) applyConfig(msg ConfigReloadedMsg) {
	if msg.Config == nil {
		return
	}
	prev := m.cfg
	m.cfg = msg.Config
	m.sess.SetResponder(m.cfg.Replies)
	m.sess.SetReplyDelay(m.cfg.GetReplyDelay())
	m.opts = chromeOptions(m.cfg, m.sess.Reactions(), m.loc)
	m.styles = ui.NewStyles(ui.ThemeFor(m.cfg.UI.Theme))
	m.textarea.Placeholder = m.cfg.UI.Placeholder
	m.textarea.CharLimit = m.cfg.UI.MaxInputLength
	if m.focus == FocusInput {
		m.sess.SetKeyboardVisibility(true, m.cfg.UI.InputHeight)
	}
	m.status = "config reloaded"
	if stale := restartSections(prev, m.cfg); len(stale) > 0 {
		m.status = "config reloaded; restart to apply " + strings.Join(stale, ", ")
		m.log.Warn("config changes need a restart", zap.Strings("sections", stale))
	}
	m.log.Info("config applied", zap.Int("rules", len(m.cfg.Replies.Rules)))
}

// restartSections names the settings a running session was built with and
// cannot change in place.
func restartSections(prev, next *config.Config) []string {
	if prev == nil {
		return nil
	}
	var out []string
	if prev.GetTiming() != next.GetTiming() || prev.GetFrameInterval() != next.GetFrameInterval() {
		out = append(out, "animation")
	}
	if !slices.Equal(prev.GetReactions(), next.GetReactions()) {
		out = append(out, "session.reactions")
	}
	return out
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sess.Close()
		return m, nil, true
	case key.Matches(msg, m.keys.SwitchPane):
		m.toggleFocus()
		return m, nil, false
	}

	if m.focus == FocusMessages {
		m.handleListKey(msg)
		return m, nil, false
	}

	if key.Matches(msg, m.keys.Send) {
		m.sess.SetComposingText(m.textarea.Value())
		if _, ok := m.sess.SubmitDraft(); ok {
			m.textarea.Reset()
			m.status = ""
		}
		return m, nil, false
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.sess.SetComposingText(m.textarea.Value())
	return m, cmd, false
}

// toggleFocus moves between the composer and the message list. Leaving the
// composer hides the keyboard.
func (m *Model) toggleFocus() {
	if m.focus == FocusInput {
		m.focus = FocusMessages
		m.textarea.Blur()
		m.sess.SetKeyboardVisibility(false, 0)
		m.selected = len(m.sess.State().Messages) - 1
		return
	}
	m.focus = FocusInput
	m.textarea.Focus()
	m.sess.SetKeyboardVisibility(true, m.cfg.UI.InputHeight)
}

func (m *Model) handleListKey(msg tea.KeyMsg) {
	count := len(m.sess.State().Messages)
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Toggle):
		id := m.selectedID()
		if id == "" {
			return
		}
		m.report(m.sess.OpenReactionPicker(id))
	case key.Matches(msg, m.keys.Close):
		m.sess.CloseReactionPicker()
	case key.Matches(msg, m.keys.React):
		m.react(msg.String())
	}
}

// react applies the n-th reaction to the message whose picker is open, or to
// the selected message when no picker is showing.
func (m *Model) react(digit string) {
	n, err := strconv.Atoi(digit)
	if err != nil {
		return
	}
	set := m.sess.Reactions()
	if n < 1 || n > len(set) {
		m.status = fmt.Sprintf("no reaction %d (1-%d)", n, len(set))
		return
	}
	id := m.sess.State().Picker.OpenFor
	if id == "" {
		id = m.selectedID()
	}
	if id == "" {
		return
	}
	m.report(m.sess.ApplyReaction(id, set[n-1]))
}

func (m *Model) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, session.ErrClosed) {
		m.status = "session closed"
		return
	}
	m.status = err.Error()
	m.log.Debug("session call rejected", zap.Error(err))
}

// layout sizes the composer and the message list. With the keyboard up the
// composer takes the keyboard's height; otherwise it collapses to one row and
// the footer is shown.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	st := m.sess.State()

	inputRows := 1
	if st.Keyboard.Visible && st.Keyboard.Height > 0 {
		inputRows = st.Keyboard.Height
	}
	m.textarea.SetHeight(inputRows)
	m.textarea.SetWidth(max(m.width-2, 1))

	used := chromeRows + inputRows + 2 + 1 // input border, help line
	if !st.Keyboard.Visible {
		used++ // footer
	}
	if m.status != "" {
		used++
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-used, 1)
}

// refresh redraws the message list and honours a pending scroll request.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderMessages(m.Frame()))
	if m.scroll.pending {
		m.scroll.pending = false
		m.viewport.GotoBottom()
	}
}
