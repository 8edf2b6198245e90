package session

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatsim/internal/replies"
	"chatsim/internal/scheduler"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type scrollCounter struct{ n int }

func (c *scrollCounter) ScrollToEnd() { c.n++ }

func newTestSession(t *testing.T, opts ...Option) (*Session, *scheduler.Manual) {
	t.Helper()
	m := scheduler.NewManual(epoch)
	base := []Option{WithIDGenerator(NewSequenceGenerator("m"))}
	s := New(m, append(base, opts...)...)
	t.Cleanup(s.Close)
	return s, m
}

func TestSubmit_EmptyIsDropped(t *testing.T) {
	s, m := newTestSession(t)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, ok := s.Submit(text)
		assert.False(t, ok, "text %q", text)
	}

	st := s.State()
	assert.Empty(t, st.Messages)
	assert.False(t, st.BotTyping)
	assert.Equal(t, 0, m.Pending())
}

func TestSubmit_ReplyTiming(t *testing.T) {
	s, m := newTestSession(t)
	s.SetComposingText("Hi there")

	assert.False(t, s.State().BotTyping)

	msg, ok := s.SubmitDraft()
	require.True(t, ok)
	assert.Equal(t, "Hi there", msg.Text)
	assert.Equal(t, SenderUser, msg.Sender)
	assert.Equal(t, epoch, msg.SentAt)

	st := s.State()
	assert.Empty(t, st.ComposingText)
	assert.True(t, st.BotTyping)
	require.Len(t, st.Messages, 1)

	m.Advance(DefaultReplyDelay - time.Millisecond)
	st = s.State()
	assert.True(t, st.BotTyping)
	assert.Len(t, st.Messages, 1)

	m.Advance(time.Millisecond)
	st = s.State()
	assert.False(t, st.BotTyping)
	require.Len(t, st.Messages, 2)

	reply := st.Messages[1]
	assert.Equal(t, SenderBot, reply.Sender)
	assert.Equal(t, "Hello there! 👋 How can I help?", reply.Text)
	assert.Equal(t, epoch.Add(DefaultReplyDelay), reply.SentAt)
	assert.Greater(t, string(reply.ID), string(msg.ID))
}

func TestSubmit_TextStoredAsTyped(t *testing.T) {
	s, _ := newTestSession(t)

	msg, ok := s.Submit("  hello  ")
	require.True(t, ok)
	assert.Equal(t, "  hello  ", msg.Text)
}

func TestSubmit_ReplyScenarios(t *testing.T) {
	table := replies.Default()
	tests := []struct {
		text string
		want string
	}{
		{"Hi there", table.Rules[0].Response},
		{"tell me a joke please", table.Rules[4].Response},
		{"asdkjf", table.Fallback},
		{"Hi, tell me a joke", table.Rules[0].Response},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s, m := newTestSession(t)
			s.Submit(tt.text)
			m.Advance(DefaultReplyDelay)

			st := s.State()
			require.Len(t, st.Messages, 2)
			assert.Equal(t, tt.want, st.Messages[1].Text)
		})
	}
}

func TestSubmit_OverlappingReplies(t *testing.T) {
	s, m := newTestSession(t)

	s.Submit("hello")
	m.Advance(500 * time.Millisecond)
	s.Submit("joke")

	m.Advance(800 * time.Millisecond) // first reply due
	st := s.State()
	require.Len(t, st.Messages, 3)
	assert.True(t, st.BotTyping, "second reply still pending")
	assert.Equal(t, 1, s.PendingReplies())

	m.Advance(500 * time.Millisecond)
	st = s.State()
	require.Len(t, st.Messages, 4)
	assert.False(t, st.BotTyping)
	assert.Equal(t, replies.Default().Rules[4].Response, st.Messages[3].Text)
}

func TestSubmit_ExactlyOneReplyEach(t *testing.T) {
	s, m := newTestSession(t)

	for i := 0; i < 5; i++ {
		s.Submit("message")
		m.Advance(100 * time.Millisecond)
	}
	m.Advance(10 * time.Second)

	var user, bot int
	for _, msg := range s.State().Messages {
		if msg.Sender == SenderUser {
			user++
		} else {
			bot++
		}
	}
	assert.Equal(t, 5, user)
	assert.Equal(t, 5, bot)
	assert.Equal(t, 0, m.Pending())
}

func TestMessageIDsIncrease(t *testing.T) {
	s := New(scheduler.NewManual(epoch))
	defer s.Close()

	var prev MessageID
	for i := 0; i < 200; i++ {
		msg, ok := s.Submit("same instant")
		require.True(t, ok)
		assert.Greater(t, string(msg.ID), string(prev))
		prev = msg.ID
	}
}

func TestClose_CancelsPendingWork(t *testing.T) {
	s, m := newTestSession(t)
	s.Submit("hello")
	require.NoError(t, s.OpenReactionPicker(s.State().Messages[0].ID))

	s.Close()
	m.Advance(10 * time.Second)

	st := s.State()
	assert.Len(t, st.Messages, 1)
	assert.False(t, st.BotTyping)
	assert.Equal(t, 0, m.Pending())

	_, ok := s.Submit("again")
	assert.False(t, ok)
	assert.ErrorIs(t, s.ApplyReaction(st.Messages[0].ID, "👍"), ErrClosed)
	assert.ErrorIs(t, s.OpenReactionPicker(st.Messages[0].ID), ErrClosed)
}

func TestTypingDots(t *testing.T) {
	s, m := newTestSession(t)
	rest := [3]float64{0.3, 0.3, 0.3}

	assert.Equal(t, rest, s.State().TypingDots)

	s.Submit("hello")
	m.Advance(300 * time.Millisecond)
	dots := s.State().TypingDots
	assert.Equal(t, 1.0, dots[0])
	assert.Less(t, dots[1], 1.0)
	assert.Greater(t, dots[1], 0.3)

	m.Advance(DefaultReplyDelay - 300*time.Millisecond)
	st := s.State()
	assert.False(t, st.BotTyping)
	assert.Equal(t, rest, st.TypingDots)
	assert.Equal(t, 0, m.Pending(), "pulse loops must be cancelled")
}

func TestPicker_OpenSwitchClose(t *testing.T) {
	s, m := newTestSession(t)
	s.Submit("hello")
	m.Advance(DefaultReplyDelay)
	msgs := s.State().Messages
	a, b := msgs[0].ID, msgs[1].ID

	require.NoError(t, s.OpenReactionPicker(a))
	assert.Equal(t, a, s.State().Picker.OpenFor)

	require.NoError(t, s.OpenReactionPicker(b))
	p := s.State().Picker
	assert.Equal(t, b, p.OpenFor)
	assert.False(t, p.Closing)

	m.Advance(time.Second)
	assert.Equal(t, b, s.State().Picker.OpenFor)
	assert.Equal(t, 1.0, s.State().Picker.Opacity)

	// Toggle B closes it after the fade.
	require.NoError(t, s.OpenReactionPicker(b))
	p = s.State().Picker
	assert.Equal(t, b, p.OpenFor)
	assert.True(t, p.Closing)

	m.Advance(159 * time.Millisecond)
	assert.Equal(t, b, s.State().Picker.OpenFor)

	m.Advance(time.Millisecond)
	assert.Equal(t, Picker{}, s.State().Picker)
}

func TestPicker_ReopenDuringFadeOut(t *testing.T) {
	s, m := newTestSession(t)
	msg, _ := s.Submit("hello")

	require.NoError(t, s.OpenReactionPicker(msg.ID))
	m.Advance(200 * time.Millisecond)
	s.CloseReactionPicker()
	m.Advance(80 * time.Millisecond)

	require.NoError(t, s.OpenReactionPicker(msg.ID))
	m.Advance(time.Second)

	p := s.State().Picker
	assert.Equal(t, msg.ID, p.OpenFor)
	assert.False(t, p.Closing)
	assert.Equal(t, 1.0, p.Opacity)
}

func TestPicker_CancelledFadeOutNeverClearsNewerPicker(t *testing.T) {
	s, m := newTestSession(t)
	s.Submit("hello")
	m.Advance(DefaultReplyDelay)
	msgs := s.State().Messages

	require.NoError(t, s.OpenReactionPicker(msgs[0].ID))
	s.CloseReactionPicker()
	require.NoError(t, s.OpenReactionPicker(msgs[1].ID))

	m.Advance(time.Second)
	assert.Equal(t, msgs[1].ID, s.State().Picker.OpenFor)
}

func TestPicker_UnknownMessage(t *testing.T) {
	s, _ := newTestSession(t)

	err := s.OpenReactionPicker("nope")
	assert.ErrorIs(t, err, ErrUnknownMessage)
	assert.False(t, s.State().Picker.IsOpen())
}

func TestCloseReactionPicker_NoneOpen(t *testing.T) {
	s, m := newTestSession(t)
	s.CloseReactionPicker()
	assert.Equal(t, 0, m.Pending())
}

func TestApplyReaction(t *testing.T) {
	s, m := newTestSession(t)
	msg, _ := s.Submit("hello")
	require.NoError(t, s.OpenReactionPicker(msg.ID))

	require.NoError(t, s.ApplyReaction(msg.ID, "👍"))
	assert.True(t, s.State().Picker.Closing)
	require.NoError(t, s.ApplyReaction(msg.ID, "👍"))
	require.NoError(t, s.ApplyReaction(msg.ID, "❤️"))

	m.Advance(time.Second)
	st := s.State()
	assert.Equal(t, 2, st.ReactionCount(msg.ID, "👍"))
	if diff := cmp.Diff([]ReactionCount{{"👍", 2}, {"❤️", 1}}, st.Reactions[msg.ID]); diff != "" {
		t.Errorf("reactions mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, st.Picker.IsOpen())
}

func TestApplyReaction_Rejected(t *testing.T) {
	s, _ := newTestSession(t)
	msg, _ := s.Submit("hello")
	require.NoError(t, s.OpenReactionPicker(msg.ID))
	before := s.State()

	assert.ErrorIs(t, s.ApplyReaction("missing", "👍"), ErrUnknownMessage)
	assert.ErrorIs(t, s.ApplyReaction(msg.ID, "🦀"), ErrUnknownReaction)

	after := s.State()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("rejected reaction mutated state (-before +after):\n%s", diff)
	}
}

func TestApplyReaction_CountsNeverDecrease(t *testing.T) {
	s, _ := newTestSession(t)
	msg, _ := s.Submit("hello")

	prev := 0
	for i := 0; i < 10; i++ {
		sym := DefaultReactions[i%2]
		require.NoError(t, s.ApplyReaction(msg.ID, sym))
		n := s.State().ReactionCount(msg.ID, DefaultReactions[0])
		assert.GreaterOrEqual(t, n, prev)
		prev = n
	}
	assert.Equal(t, 5, prev)
}

func TestWithReactions(t *testing.T) {
	s, _ := newTestSession(t, WithReactions([]Reaction{"+1"}))
	msg, _ := s.Submit("hello")

	assert.NoError(t, s.ApplyReaction(msg.ID, "+1"))
	assert.ErrorIs(t, s.ApplyReaction(msg.ID, "👍"), ErrUnknownReaction)
	assert.Equal(t, []Reaction{"+1"}, s.Reactions())
}

func TestKeyboardVisibility(t *testing.T) {
	sc := &scrollCounter{}
	s, _ := newTestSession(t, WithPresenter(sc))

	s.SetKeyboardVisibility(true, 12)
	assert.Equal(t, Keyboard{Visible: true, Height: 12}, s.State().Keyboard)
	assert.Equal(t, 1, sc.n)

	s.SetKeyboardVisibility(false, 12)
	assert.Equal(t, Keyboard{}, s.State().Keyboard)
	assert.Equal(t, 1, sc.n)

	s.SetKeyboardVisibility(true, -4)
	assert.Equal(t, Keyboard{Visible: true}, s.State().Keyboard)
}

func TestPresenterScrolls(t *testing.T) {
	sc := &scrollCounter{}
	s, m := newTestSession(t, WithPresenter(sc))

	s.Submit("hello")
	assert.Equal(t, 2, sc.n, "append and typing start")

	m.Advance(DefaultReplyDelay)
	assert.Equal(t, 3, sc.n)
}

func TestListenerEvents(t *testing.T) {
	var kinds []EventKind
	s, m := newTestSession(t, WithListener(func(ev Event) {
		if ev.Kind != EventFrame {
			kinds = append(kinds, ev.Kind)
		}
	}))

	s.Submit("hello")
	m.Advance(DefaultReplyDelay)

	assert.Equal(t, []EventKind{
		EventMessageAppended,
		EventTypingChanged,
		EventMessageAppended,
		EventTypingChanged,
	}, kinds)
}

func TestSetResponder(t *testing.T) {
	s, m := newTestSession(t)
	s.Submit("hello")

	s.SetResponder(replies.Table{Fallback: "swapped"})
	m.Advance(DefaultReplyDelay)

	st := s.State()
	assert.Equal(t, "swapped", st.Messages[1].Text)
}

func TestStateIsACopy(t *testing.T) {
	s, _ := newTestSession(t)
	msg, _ := s.Submit("hello")
	require.NoError(t, s.ApplyReaction(msg.ID, "👍"))

	st := s.State()
	st.Messages[0].Text = "mutated"
	st.Reactions[msg.ID][0].Count = 99

	fresh := s.State()
	assert.Equal(t, "hello", fresh.Messages[0].Text)
	assert.Equal(t, 1, fresh.ReactionCount(msg.ID, "👍"))
}

func TestWithReplyDelay(t *testing.T) {
	s, m := newTestSession(t, WithReplyDelay(50*time.Millisecond))
	s.Submit("hello")

	m.Advance(50 * time.Millisecond)
	assert.Len(t, s.State().Messages, 2)
}

func TestSetReplyDelay(t *testing.T) {
	s, m := newTestSession(t)
	s.Submit("hello")

	s.SetReplyDelay(100 * time.Millisecond)
	s.Submit("thanks")

	m.Advance(100 * time.Millisecond)
	st := s.State()
	require.Len(t, st.Messages, 3, "only the second submission is due")
	assert.Equal(t, "You’re welcome! 👍", st.Messages[2].Text)

	m.Advance(DefaultReplyDelay)
	assert.Len(t, s.State().Messages, 4)

	s.SetReplyDelay(-time.Second)
	s.Submit("again")
	m.Advance(100 * time.Millisecond)
	assert.Len(t, s.State().Messages, 6, "negative delay is ignored")
}

func TestPicker_ZeroLengthFades(t *testing.T) {
	timing := DefaultTiming()
	timing.PickerFadeIn = 0
	timing.PickerFadeOut = 0

	var events []Picker
	s, m := newTestSession(t, WithTiming(timing), WithListener(func(ev Event) {
		if ev.Kind == EventPickerChanged {
			events = append(events, ev.Picker)
		}
	}))
	msg, _ := s.Submit("hello")

	require.NoError(t, s.OpenReactionPicker(msg.ID))
	assert.Equal(t, 1.0, s.State().Picker.Opacity)

	s.CloseReactionPicker()
	assert.Equal(t, Picker{}, s.State().Picker)
	require.Len(t, events, 2, "open, then closed; no trailing closing event")
	assert.Equal(t, msg.ID, events[0].OpenFor)
	assert.Equal(t, Picker{}, events[1])

	require.NoError(t, s.OpenReactionPicker(msg.ID))
	assert.Equal(t, msg.ID, s.State().Picker.OpenFor)
	m.Advance(time.Second)
	assert.Equal(t, msg.ID, s.State().Picker.OpenFor)
}
