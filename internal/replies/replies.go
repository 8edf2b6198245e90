// Package replies selects the bot's canned response for a user message.
//
// A Table is an explicit priority list: rules are scanned in order, and
// within a rule the triggers are scanned in order. The first trigger that
// occurs as a substring of the lower-cased text wins, so "hi, tell me a joke"
// gets the greeting and never reaches the joke rule.
package replies

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Validate.
var (
	ErrNoTriggers    = errors.New("replies: rule has no triggers")
	ErrEmptyTrigger  = errors.New("replies: rule has an empty trigger")
	ErrEmptyResponse = errors.New("replies: rule has an empty response")
	ErrEmptyFallback = errors.New("replies: fallback response is empty")
	ErrDuplicateRule = errors.New("replies: duplicate rule name")
)

// FallbackRule is the rule name reported when nothing matched.
const FallbackRule = "fallback"

// Rule maps trigger phrases to one response.
type Rule struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
	Response string   `yaml:"response"`
}

// Table is a priority-ordered list of rules plus the fallback response.
type Table struct {
	Rules    []Rule `yaml:"rules"`
	Fallback string `yaml:"fallback"`
}

// Match is the outcome of Select.
type Match struct {
	Rule     string
	Trigger  string
	Response string
}

// Fallback reports whether no rule matched.
func (m Match) Fallback() bool {
	return m.Rule == FallbackRule
}

// Responder picks the reply text for a submitted message.
type Responder interface {
	Respond(text string) string
}

// Default returns the built-in rule table.
func Default() Table {
	return Table{
		Rules: []Rule{
			{Name: "greeting", Triggers: []string{"hello", "hi"}, Response: "Hello there! 👋 How can I help?"},
			{Name: "wellbeing", Triggers: []string{"how are you"}, Response: "I’m fine — thanks! 😊"},
			{Name: "name", Triggers: []string{"name"}, Response: "I’m a simple Messenger Bot 🤖"},
			{Name: "thanks", Triggers: []string{"thank"}, Response: "You’re welcome! 👍"},
			{Name: "joke", Triggers: []string{"joke"}, Response: "Why don’t scientists trust atoms? Because they make up everything! 😂"},
		},
		Fallback: "Sorry, I didn't get that — could you rephrase?",
	}
}

// Select returns the first rule whose trigger occurs in text, or the fallback.
func (t Table) Select(text string) Match {
	lower := strings.ToLower(text)
	for _, r := range t.Rules {
		for _, trig := range r.Triggers {
			if trig != "" && strings.Contains(lower, strings.ToLower(trig)) {
				return Match{Rule: r.Name, Trigger: trig, Response: r.Response}
			}
		}
	}
	return Match{Rule: FallbackRule, Response: t.Fallback}
}

// Respond implements Responder.
func (t Table) Respond(text string) string {
	return t.Select(text).Response
}

// Normalize lower-cases and trims every trigger in place and names unnamed
// rules after their position.
func (t *Table) Normalize() {
	for i := range t.Rules {
		r := &t.Rules[i]
		if r.Name == "" {
			r.Name = fmt.Sprintf("rule-%d", i+1)
		}
		for j, trig := range r.Triggers {
			r.Triggers[j] = strings.ToLower(strings.TrimSpace(trig))
		}
	}
}

// Validate checks the table. Rule order is not validated; it is the priority.
func (t Table) Validate() error {
	seen := make(map[string]bool, len(t.Rules))
	for i, r := range t.Rules {
		label := r.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if r.Name != "" {
			if seen[r.Name] {
				return fmt.Errorf("%w: %s", ErrDuplicateRule, r.Name)
			}
			seen[r.Name] = true
		}
		if len(r.Triggers) == 0 {
			return fmt.Errorf("rule %s: %w", label, ErrNoTriggers)
		}
		for _, trig := range r.Triggers {
			if strings.TrimSpace(trig) == "" {
				return fmt.Errorf("rule %s: %w", label, ErrEmptyTrigger)
			}
		}
		if strings.TrimSpace(r.Response) == "" {
			return fmt.Errorf("rule %s: %w", label, ErrEmptyResponse)
		}
	}
	if strings.TrimSpace(t.Fallback) == "" {
		return ErrEmptyFallback
	}
	return nil
}
