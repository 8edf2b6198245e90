package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"chatsim/internal/config"
	"chatsim/internal/render"
	"chatsim/internal/session"
)

// sessionOptions builds the session settings shared by repl and script.
func sessionOptions(c *config.Config) []session.Option {
	return []session.Option{
		session.WithResponder(c.Replies),
		session.WithReplyDelay(c.GetReplyDelay()),
		session.WithTiming(c.GetTiming()),
		session.WithFrameInterval(c.GetFrameInterval()),
		session.WithReactions(c.GetReactions()),
	}
}

func renderOptions(c *config.Config, loc *time.Location) render.Options {
	return render.Options{
		Title:      c.Session.Title,
		BotName:    c.Session.BotName,
		Status:     c.Session.Status,
		Footer:     c.Session.Footer,
		TimeFormat: c.Session.TimeFormat,
		Location:   loc,
		Reactions:  c.GetReactions(),
	}
}

// transcript prints a session as plain text lines. Messages are numbered
// from 1 in the order they were appended.
type transcript struct {
	out     io.Writer
	opts    render.Options
	numbers map[session.MessageID]int
	ids     []session.MessageID

	// clock, when set, prefixes event lines with the offset from start.
	clock func() time.Time
	start time.Time
}

func newTranscript(out io.Writer, opts render.Options) *transcript {
	return &transcript{
		out:     out,
		opts:    opts,
		numbers: make(map[session.MessageID]int),
	}
}

// messageID resolves a 1-based message number.
func (t *transcript) messageID(n int) (session.MessageID, error) {
	if n < 1 || n > len(t.ids) {
		return "", fmt.Errorf("message #%d: %w", n, session.ErrUnknownMessage)
	}
	return t.ids[n-1], nil
}

func (t *transcript) sender(s session.Sender) string {
	if s == session.SenderBot {
		return t.opts.BotName
	}
	return "You"
}

func (t *transcript) printf(format string, args ...any) {
	if t.clock != nil {
		fmt.Fprintf(t.out, "%8s  ", "+"+formatOffset(t.clock().Sub(t.start)))
	}
	fmt.Fprintf(t.out, format+"\n", args...)
}

func formatOffset(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// event prints one session event. Animation frames are skipped.
func (t *transcript) event(ev session.Event) {
	switch ev.Kind {
	case session.EventMessageAppended:
		t.ids = append(t.ids, ev.MessageID)
		t.numbers[ev.MessageID] = len(t.ids)
		layout := t.opts.TimeFormat
		if layout == "" {
			layout = render.DefaultTimeFormat
		}
		sent := ev.Message.SentAt
		if t.opts.Location != nil {
			sent = sent.In(t.opts.Location)
		}
		t.printf("#%d [%s] %s: %s", len(t.ids), sent.Format(layout), t.sender(ev.Message.Sender), ev.Message.Text)

	case session.EventTypingChanged:
		if ev.Typing {
			t.printf("%s is typing...", t.opts.BotName)
		}

	case session.EventReactionApplied:
		t.printf("#%d reacted %s (%d)", t.numbers[ev.MessageID], ev.Reaction, ev.Count)

	case session.EventPickerChanged:
		switch {
		case !ev.Picker.IsOpen():
			t.printf("reactions closed")
		case !ev.Picker.Closing:
			t.printf("#%d reactions: %s", t.numbers[ev.MessageID], pickerLine(t.opts.Reactions))
		}

	case session.EventKeyboardChanged:
		if ev.Keyboard.Visible {
			t.printf("keyboard up (height %d)", ev.Keyboard.Height)
		} else {
			t.printf("keyboard down")
		}
	}
}

// hint prints a rejected command.
func (t *transcript) hint(err error) {
	fmt.Fprintf(t.out, "! %v\n", err)
}

// frame prints the whole chat as it would be drawn.
func (t *transcript) frame(f render.Frame) {
	fmt.Fprintf(t.out, "== %s ==\n", f.Header.Title)
	fmt.Fprintf(t.out, "%s · %s\n", f.Header.BotName, f.Header.Status)
	for i, b := range f.Bubbles {
		line := fmt.Sprintf("#%d [%s] %s: %s", i+1, b.Time, t.sender(b.Sender), b.Text)
		if len(b.Badges) > 0 {
			parts := make([]string, len(b.Badges))
			for j, badge := range b.Badges {
				parts[j] = fmt.Sprintf("%s %d", badge.Symbol, badge.Count)
			}
			line += "  [" + strings.Join(parts, " ") + "]"
		}
		fmt.Fprintln(t.out, line)
		if b.Picker != nil {
			state := "open"
			if b.Picker.Closing {
				state = "closing"
			}
			fmt.Fprintf(t.out, "   reactions %s (%.2f): %s\n", state, b.Picker.Opacity, pickerLine(b.Picker.Options))
		}
	}
	if f.Typing != nil {
		fmt.Fprintf(t.out, "%s is typing... [%.2f %.2f %.2f]\n",
			f.Header.BotName, f.Typing.Dots[0], f.Typing.Dots[1], f.Typing.Dots[2])
	}
	if f.FooterVisible {
		fmt.Fprintf(t.out, "-- %s --\n", f.Footer)
	} else {
		fmt.Fprintf(t.out, "-- keyboard (%d) --\n", f.SpacerHeight)
	}
}

func pickerLine(set []session.Reaction) string {
	parts := make([]string, len(set))
	for i, r := range set {
		parts[i] = fmt.Sprintf("%d %s", i+1, r)
	}
	return strings.Join(parts, "  ")
}
