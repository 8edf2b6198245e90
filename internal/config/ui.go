package config

import "fmt"

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"auto", "light", "dark"}

// UIConfig holds terminal UI configuration.
type UIConfig struct {
	// Theme selects the palette: auto follows the terminal background.
	Theme string `yaml:"theme"`

	// InputHeight is the composer's height in rows. It doubles as the
	// keyboard height reported to the session while the composer has focus.
	InputHeight int `yaml:"input_height"`

	// MaxInputLength caps the composer, in characters.
	MaxInputLength int `yaml:"max_input_length"`

	// Placeholder is shown in the empty composer.
	Placeholder string `yaml:"placeholder"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() UIConfig {
	return UIConfig{
		Theme:          "auto",
		InputHeight:    3,
		MaxInputLength: 2000,
		Placeholder:    "Type a message...",
	}
}

func (u UIConfig) validate() error {
	valid := false
	for _, t := range ValidThemes {
		if u.Theme == t {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: ui.theme %q (valid: %v)", ErrInvalid, u.Theme, ValidThemes)
	}
	if u.InputHeight < 1 {
		return fmt.Errorf("%w: ui.input_height must be at least 1", ErrInvalid)
	}
	if u.MaxInputLength < 0 {
		return fmt.Errorf("%w: ui.max_input_length must not be negative", ErrInvalid)
	}
	return nil
}
