package session

import (
	"errors"
	"time"
)

// Errors returned by session operations. They never leave the session in a
// partially mutated state.
var (
	ErrUnknownMessage  = errors.New("session: unknown message")
	ErrUnknownReaction = errors.New("session: unknown reaction")
	ErrClosed          = errors.New("session: closed")
)

// MessageID identifies a message. IDs sort in creation order.
type MessageID string

// Sender is who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is immutable once appended.
type Message struct {
	ID     MessageID
	Text   string
	Sender Sender
	SentAt time.Time
}

// Reaction is one symbol from the session's reaction set.
type Reaction string

// DefaultReactions is the picker's symbol set, in display order.
var DefaultReactions = []Reaction{"👍", "❤️", "😂", "😢", "😮", "😡"}

// ReactionCount is the tally for one symbol on one message. Count is at least 1.
type ReactionCount struct {
	Symbol Reaction
	Count  int
}

// Picker is the reaction picker's state. OpenFor is empty when no picker is
// shown. Closing is set while the fade-out runs; OpenFor stays set until it ends.
type Picker struct {
	OpenFor MessageID
	Opacity float64
	Closing bool
}

// IsOpen reports whether a picker is shown, including during its fade-out.
func (p Picker) IsOpen() bool {
	return p.OpenFor != ""
}

// Keyboard is the on-screen keyboard (or input focus) state.
type Keyboard struct {
	Visible bool
	Height  int
}

// State is a snapshot of a session. It shares no memory with the session.
type State struct {
	Messages      []Message
	Reactions     map[MessageID][]ReactionCount
	ComposingText string
	BotTyping     bool
	Picker        Picker
	Keyboard      Keyboard
	TypingDots    [3]float64
}

// Message returns the message with the given id.
func (s State) Message(id MessageID) (Message, bool) {
	for _, m := range s.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// ReactionCount returns the tally for symbol on message id, or 0.
func (s State) ReactionCount(id MessageID, symbol Reaction) int {
	for _, rc := range s.Reactions[id] {
		if rc.Symbol == symbol {
			return rc.Count
		}
	}
	return 0
}

// Timing holds the animation choreography parameters.
type Timing struct {
	PulseUp       time.Duration
	PulseDown     time.Duration
	PulsePause    time.Duration
	PulseStagger  time.Duration
	RestOpacity   float64
	PeakOpacity   float64
	PickerFadeIn  time.Duration
	PickerFadeOut time.Duration
}

// DefaultTiming returns the stock typing pulse and picker fade.
func DefaultTiming() Timing {
	return Timing{
		PulseUp:       300 * time.Millisecond,
		PulseDown:     300 * time.Millisecond,
		PulsePause:    150 * time.Millisecond,
		PulseStagger:  120 * time.Millisecond,
		RestOpacity:   0.3,
		PeakOpacity:   1,
		PickerFadeIn:  180 * time.Millisecond,
		PickerFadeOut: 160 * time.Millisecond,
	}
}

// DefaultReplyDelay is how long the bot "thinks" before answering.
const DefaultReplyDelay = 1300 * time.Millisecond

// EventKind classifies session events.
type EventKind int

const (
	EventMessageAppended EventKind = iota + 1
	EventTypingChanged
	EventPickerChanged
	EventReactionApplied
	EventKeyboardChanged
	EventFrame
)

func (k EventKind) String() string {
	switch k {
	case EventMessageAppended:
		return "message_appended"
	case EventTypingChanged:
		return "typing_changed"
	case EventPickerChanged:
		return "picker_changed"
	case EventReactionApplied:
		return "reaction_applied"
	case EventKeyboardChanged:
		return "keyboard_changed"
	case EventFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// Event describes one change. Only the fields relevant to Kind are set.
type Event struct {
	Kind      EventKind
	MessageID MessageID
	Message   Message
	Reaction  Reaction
	Count     int
	Typing    bool
	Picker    Picker
	Keyboard  Keyboard
}

// Presenter receives side-effect commands for the view.
type Presenter interface {
	ScrollToEnd()
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func()

// ScrollToEnd implements Presenter.
func (f PresenterFunc) ScrollToEnd() { f() }

type nopPresenter struct{}

func (nopPresenter) ScrollToEnd() {}
