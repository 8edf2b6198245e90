package replies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	table := Default()

	tests := []struct {
		name string
		text string
		rule string
	}{
		{"greeting", "Hi there", "greeting"},
		{"hello uppercase", "HELLO bot", "greeting"},
		{"joke", "tell me a joke please", "joke"},
		{"fallback", "asdkjf", FallbackRule},
		{"priority greeting over joke", "Hi, tell me a joke", "greeting"},
		{"wellbeing", "how are you?", "wellbeing"},
		{"name", "what is your NAME", "name"},
		{"thanks", "Thanks a lot", "thanks"},
		{"substring inside a word", "this is fine", "greeting"},
		{"empty", "", FallbackRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := table.Select(tt.text)
			assert.Equal(t, tt.rule, m.Rule)
		})
	}
}

func TestSelect_Responses(t *testing.T) {
	table := Default()

	assert.Equal(t, "Hello there! 👋 How can I help?", table.Respond("Hi there"))
	assert.Equal(t, "Why don’t scientists trust atoms? Because they make up everything! 😂", table.Respond("tell me a joke please"))
	assert.Equal(t, "Sorry, I didn't get that — could you rephrase?", table.Respond("asdkjf"))
	assert.Equal(t, "Hello there! 👋 How can I help?", table.Respond("Hi, tell me a joke"))
}

func TestSelect_TriggerOrderWithinRule(t *testing.T) {
	table := Table{
		Rules: []Rule{
			{Name: "r", Triggers: []string{"hello", "hi"}, Response: "x"},
		},
		Fallback: "f",
	}

	m := table.Select("hi, hello")
	assert.Equal(t, "hello", m.Trigger)
	assert.False(t, m.Fallback())
}

func TestSelect_RuleOrderIsPriority(t *testing.T) {
	table := Table{
		Rules: []Rule{
			{Name: "joke", Triggers: []string{"joke"}, Response: "j"},
			{Name: "greeting", Triggers: []string{"hi"}, Response: "g"},
		},
		Fallback: "f",
	}

	assert.Equal(t, "j", table.Respond("Hi, tell me a joke"))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	tests := []struct {
		name  string
		table Table
		want  error
	}{
		{"no triggers", Table{Rules: []Rule{{Name: "a", Response: "r"}}, Fallback: "f"}, ErrNoTriggers},
		{"blank trigger", Table{Rules: []Rule{{Name: "a", Triggers: []string{" "}, Response: "r"}}, Fallback: "f"}, ErrEmptyTrigger},
		{"empty response", Table{Rules: []Rule{{Name: "a", Triggers: []string{"x"}}}, Fallback: "f"}, ErrEmptyResponse},
		{"empty fallback", Table{}, ErrEmptyFallback},
		{"duplicate", Table{Rules: []Rule{
			{Name: "a", Triggers: []string{"x"}, Response: "r"},
			{Name: "a", Triggers: []string{"y"}, Response: "r"},
		}, Fallback: "f"}, ErrDuplicateRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.table.Validate(), tt.want)
		})
	}
}

func TestNormalize(t *testing.T) {
	table := Table{
		Rules:    []Rule{{Triggers: []string{"  HeLLo "}, Response: "r"}},
		Fallback: "f",
	}
	table.Normalize()

	assert.Equal(t, "rule-1", table.Rules[0].Name)
	assert.Equal(t, []string{"hello"}, table.Rules[0].Triggers)
}
