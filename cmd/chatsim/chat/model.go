package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"chatsim/cmd/chatsim/ui"
	"chatsim/internal/config"
	"chatsim/internal/logging"
	"chatsim/internal/render"
	"chatsim/internal/scheduler"
	"chatsim/internal/session"
)

// scrollRequest is shared by every copy of the Model so the session's
// presenter can flag a scroll from inside Update.
type scrollRequest struct {
	pending bool
}

// Model is the chat TUI. It owns the session: every session call happens
// inside Update, and timer callbacks arrive as callbackMsg.
type Model struct {
	sess   *session.Session
	sched  scheduler.Scheduler
	cfg    *config.Config
	styles ui.Styles
	keys   KeyMap
	help   help.Model

	textarea textarea.Model
	viewport viewport.Model

	focus    Focus
	selected int // index into the message list, -1 for none
	scroll   *scrollRequest

	width  int
	height int
	ready  bool
	status string

	opts     render.Options
	loc      *time.Location
	sessOpts []session.Option
	log      *zap.Logger
}

// Option customises a Model.
type Option func(*Model)

// WithStyles overrides the theme picked from ui.theme.
func WithStyles(s ui.Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithLocation renders timestamps in loc.
func WithLocation(loc *time.Location) Option {
	return func(m *Model) { m.loc = loc }
}

// WithSessionOptions forwards extra options to session.New.
func WithSessionOptions(opts ...session.Option) Option {
	return func(m *Model) { m.sessOpts = append(m.sessOpts, opts...) }
}

// New builds the chat model on sched. The composer starts focused, so the
// session starts with the keyboard up.
func New(sched scheduler.Scheduler, cfg *config.Config, opts ...Option) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	m := Model{
		sched:    sched,
		cfg:      cfg,
		styles:   ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		focus:    FocusInput,
		selected: -1,
		scroll:   &scrollRequest{},
		log:      logging.Get(logging.CategoryUI),
	}

	for _, opt := range opts {
		opt(&m)
	}

	ta := textarea.New()
	ta.Placeholder = cfg.UI.Placeholder
	ta.CharLimit = cfg.UI.MaxInputLength
	ta.ShowLineNumbers = false
	ta.SetHeight(cfg.UI.InputHeight)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()
	m.textarea = ta

	m.viewport = viewport.New(0, 0)

	scroll := m.scroll
	sessOpts := []session.Option{
		session.WithResponder(cfg.Replies),
		session.WithPresenter(session.PresenterFunc(func() { scroll.pending = true })),
		session.WithReplyDelay(cfg.GetReplyDelay()),
		session.WithTiming(cfg.GetTiming()),
		session.WithFrameInterval(cfg.GetFrameInterval()),
		session.WithReactions(cfg.GetReactions()),
	}
	m.sess = session.New(sched, append(sessOpts, m.sessOpts...)...)
	m.sessOpts = nil

	m.opts = chromeOptions(cfg, m.sess.Reactions(), m.loc)
	m.sess.SetKeyboardVisibility(true, cfg.UI.InputHeight)
	return m
}

func chromeOptions(cfg *config.Config, reactions []session.Reaction, loc *time.Location) render.Options {
	return render.Options{
		Title:      cfg.Session.Title,
		BotName:    cfg.Session.BotName,
		Status:     cfg.Session.Status,
		Footer:     cfg.Session.Footer,
		TimeFormat: cfg.Session.TimeFormat,
		Location:   loc,
		Reactions:  reactions,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Session exposes the underlying session, mainly for tests and shutdown.
func (m Model) Session() *session.Session {
	return m.sess
}

// Focus returns the pane holding focus.
func (m Model) Focus() Focus {
	return m.focus
}

// Frame builds the current render frame.
func (m Model) Frame() render.Frame {
	opts := m.opts
	opts.Selected = m.selectedID()
	return render.Build(m.sess.State(), opts)
}

// Shutdown closes the session. Safe to call more than once.
func (m Model) Shutdown() {
	m.sess.Close()
}

func (m Model) selectedID() session.MessageID {
	if m.focus != FocusMessages || m.selected < 0 {
		return ""
	}
	msgs := m.sess.State().Messages
	if m.selected >= len(msgs) {
		return ""
	}
	return msgs[m.selected].ID
}
