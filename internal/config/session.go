package config

import (
	"fmt"
	"time"

	"chatsim/internal/session"
)

// SessionConfig configures the chat session and the chrome around it.
type SessionConfig struct {
	ReplyDelay string   `yaml:"reply_delay"` // e.g. "1.3s"
	Reactions  []string `yaml:"reactions"`   // picker symbols, in order
	Title      string   `yaml:"title"`
	BotName    string   `yaml:"bot_name"`
	Status     string   `yaml:"status"`
	Footer     string   `yaml:"footer"`
	TimeFormat string   `yaml:"time_format"` // Go layout
}

// DefaultSessionConfig returns the stock Messenger-style session.
func DefaultSessionConfig() SessionConfig {
	reactions := make([]string, len(session.DefaultReactions))
	for i, r := range session.DefaultReactions {
		reactions[i] = string(r)
	}
	return SessionConfig{
		ReplyDelay: session.DefaultReplyDelay.String(),
		Reactions:  reactions,
		Title:      "Messenger ni?",
		BotName:    "Messenger Bot",
		Status:     "Online",
		Footer:     "Messenger gyud d i",
		TimeFormat: "3:04 PM",
	}
}

// GetReplyDelay returns the reply delay as a duration.
func (c *Config) GetReplyDelay() time.Duration {
	return durationOr(c.Session.ReplyDelay, session.DefaultReplyDelay)
}

// GetReactions returns the reaction set.
func (c *Config) GetReactions() []session.Reaction {
	if len(c.Session.Reactions) == 0 {
		return append([]session.Reaction(nil), session.DefaultReactions...)
	}
	out := make([]session.Reaction, len(c.Session.Reactions))
	for i, r := range c.Session.Reactions {
		out[i] = session.Reaction(r)
	}
	return out
}

func (s SessionConfig) validate() error {
	if _, err := parseDuration("session.reply_delay", s.ReplyDelay); err != nil {
		return err
	}
	if len(s.Reactions) == 0 {
		return fmt.Errorf("%w: session.reactions is empty", ErrInvalid)
	}
	seen := make(map[string]bool, len(s.Reactions))
	for _, r := range s.Reactions {
		if r == "" {
			return fmt.Errorf("%w: session.reactions has an empty symbol", ErrInvalid)
		}
		if seen[r] {
			return fmt.Errorf("%w: session.reactions repeats %q", ErrInvalid, r)
		}
		seen[r] = true
	}
	return nil
}
