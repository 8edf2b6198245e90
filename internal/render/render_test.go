package render

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"chatsim/internal/session"
)

var (
	morning = time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	evening = time.Date(2024, 3, 1, 21, 30, 0, 0, time.UTC)
)

func baseOptions() Options {
	return Options{
		Title:   "Messenger ni?",
		BotName: "Messenger Bot",
		Status:  "Online",
		Footer:  "Messenger gyud d i",
	}
}

func TestBuild_Empty(t *testing.T) {
	got := Build(session.State{}, baseOptions())

	want := Frame{
		Header:        Header{Title: "Messenger ni?", BotName: "Messenger Bot", Status: "Online"},
		Bubbles:       []Bubble{},
		FooterVisible: true,
		Footer:        "Messenger gyud d i",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Conversation(t *testing.T) {
	st := session.State{
		Messages: []session.Message{
			{ID: "m-1", Text: "hi", Sender: session.SenderUser, SentAt: morning},
			{ID: "m-2", Text: "Hello there!", Sender: session.SenderBot, SentAt: evening},
		},
		Reactions: map[session.MessageID][]session.ReactionCount{
			"m-2": {{Symbol: "👍", Count: 2}, {Symbol: "😂", Count: 1}},
		},
		ComposingText: "draft",
		BotTyping:     true,
		Picker:        session.Picker{OpenFor: "m-2", Opacity: 0.5},
		Keyboard:      session.Keyboard{Visible: true, Height: 6},
		TypingDots:    [3]float64{1, 0.5, 0.3},
	}
	opts := baseOptions()
	opts.Selected = "m-2"
	opts.Reactions = []session.Reaction{"👍", "😂"}

	got := Build(st, opts)

	want := Frame{
		Header: Header{Title: "Messenger ni?", BotName: "Messenger Bot", Status: "Online"},
		Bubbles: []Bubble{
			{ID: "m-1", Text: "hi", Sender: session.SenderUser, Align: AlignRight, Time: "9:05 AM"},
			{
				ID: "m-2", Text: "Hello there!", Sender: session.SenderBot, Align: AlignLeft, Time: "9:30 PM",
				Badges:   []Badge{{Symbol: "👍", Count: 2}, {Symbol: "😂", Count: 1}},
				Picker:   &PickerView{Options: []session.Reaction{"👍", "😂"}, Opacity: 0.5},
				Selected: true,
			},
		},
		Typing:        &TypingView{Dots: [3]float64{1, 0.5, 0.3}},
		SpacerHeight:  6,
		FooterVisible: false,
		Footer:        "Messenger gyud d i",
		Draft:         "draft",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DefaultsPickerOptions(t *testing.T) {
	st := session.State{
		Messages: []session.Message{{ID: "a", Text: "x", Sender: session.SenderBot, SentAt: morning}},
		Picker:   session.Picker{OpenFor: "a", Closing: true},
	}

	got := Build(st, Options{})

	p := got.Bubbles[0].Picker
	if p == nil {
		t.Fatal("expected picker on bubble")
	}
	if diff := cmp.Diff(session.DefaultReactions, p.Options); diff != "" {
		t.Errorf("picker options (-want +got):\n%s", diff)
	}
	if !p.Closing {
		t.Error("expected closing picker")
	}
}

func TestBuild_TimeFormatAndLocation(t *testing.T) {
	st := session.State{
		Messages: []session.Message{{ID: "a", Text: "x", Sender: session.SenderBot, SentAt: morning}},
	}
	loc := time.FixedZone("UTC+8", 8*3600)

	got := Build(st, Options{TimeFormat: "15:04", Location: loc})

	if got.Bubbles[0].Time != "17:05" {
		t.Errorf("Time = %q, want 17:05", got.Bubbles[0].Time)
	}
}

func TestBuild_DoesNotAliasState(t *testing.T) {
	reactions := []session.Reaction{"👍"}
	st := session.State{
		Messages: []session.Message{{ID: "a", Sender: session.SenderBot}},
		Picker:   session.Picker{OpenFor: "a"},
	}

	got := Build(st, Options{Reactions: reactions})
	got.Bubbles[0].Picker.Options[0] = "changed"

	if reactions[0] != "👍" {
		t.Error("Build leaked the reactions slice")
	}
	if got.Bubbles[0].Time != "" {
		t.Errorf("zero time should render empty, got %q", got.Bubbles[0].Time)
	}
}
