// Package render maps a session.State to a render-ready Frame. Build is pure:
// it reads nothing but its arguments, so the TUI, the REPL and the script
// runner all draw from the same snapshot.
package render

import (
	"time"

	"chatsim/internal/session"
)

// DefaultTimeFormat renders times like "3:04 PM".
const DefaultTimeFormat = "3:04 PM"

// Align is the horizontal placement of a bubble.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Options carries the static chrome and the cursor.
type Options struct {
	Title      string
	BotName    string
	Status     string
	Footer     string
	TimeFormat string
	Location   *time.Location
	Reactions  []session.Reaction
	Selected   session.MessageID
}

// Header is the top of the chat.
type Header struct {
	Title   string
	BotName string
	Status  string
}

// Badge is one reaction tally under a bubble.
type Badge struct {
	Symbol session.Reaction
	Count  int
}

// PickerView is the reaction picker attached to a bubble.
type PickerView struct {
	Options []session.Reaction
	Opacity float64
	Closing bool
}

// Bubble is one message as drawn.
type Bubble struct {
	ID       session.MessageID
	Text     string
	Sender   session.Sender
	Align    Align
	Time     string
	Badges   []Badge
	Picker   *PickerView
	Selected bool
}

// TypingView is the bot's typing indicator.
type TypingView struct {
	Dots [3]float64
}

// Frame is everything a view needs for one draw.
type Frame struct {
	Header        Header
	Bubbles       []Bubble
	Typing        *TypingView
	SpacerHeight  int
	FooterVisible bool
	Footer        string
	Draft         string
}

// Build produces the frame for st.
func Build(st session.State, opts Options) Frame {
	layout := opts.TimeFormat
	if layout == "" {
		layout = DefaultTimeFormat
	}
	reactions := opts.Reactions
	if len(reactions) == 0 {
		reactions = session.DefaultReactions
	}

	f := Frame{
		Header: Header{
			Title:   opts.Title,
			BotName: opts.BotName,
			Status:  opts.Status,
		},
		Bubbles:       make([]Bubble, 0, len(st.Messages)),
		SpacerHeight:  st.Keyboard.Height,
		FooterVisible: !st.Keyboard.Visible,
		Footer:        opts.Footer,
		Draft:         st.ComposingText,
	}

	for _, m := range st.Messages {
		b := Bubble{
			ID:       m.ID,
			Text:     m.Text,
			Sender:   m.Sender,
			Align:    AlignLeft,
			Time:     formatTime(m.SentAt, opts.Location, layout),
			Selected: opts.Selected != "" && opts.Selected == m.ID,
		}
		if m.Sender == session.SenderUser {
			b.Align = AlignRight
		}
		for _, rc := range st.Reactions[m.ID] {
			b.Badges = append(b.Badges, Badge{Symbol: rc.Symbol, Count: rc.Count})
		}
		if st.Picker.OpenFor == m.ID {
			b.Picker = &PickerView{
				Options: append([]session.Reaction(nil), reactions...),
				Opacity: st.Picker.Opacity,
				Closing: st.Picker.Closing,
			}
		}
		f.Bubbles = append(f.Bubbles, b)
	}

	if st.BotTyping {
		f.Typing = &TypingView{Dots: st.TypingDots}
	}
	return f
}

func formatTime(t time.Time, loc *time.Location, layout string) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(layout)
}
