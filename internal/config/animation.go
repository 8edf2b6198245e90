package config

import (
	"fmt"
	"time"

	"chatsim/internal/motion"
	"chatsim/internal/session"
)

// AnimationConfig configures the typing pulse and the reaction picker fade.
type AnimationConfig struct {
	FrameInterval string       `yaml:"frame_interval"`
	Typing        TypingConfig `yaml:"typing"`
	Picker        PickerConfig `yaml:"picker"`
}

// TypingConfig is one dot's pulse: rise, fall, pause; dots start staggered.
type TypingConfig struct {
	PulseUp     string  `yaml:"pulse_up"`
	PulseDown   string  `yaml:"pulse_down"`
	Pause       string  `yaml:"pause"`
	Stagger     string  `yaml:"stagger"`
	RestOpacity float64 `yaml:"rest_opacity"`
	PeakOpacity float64 `yaml:"peak_opacity"`
}

// PickerConfig is the reaction picker fade.
type PickerConfig struct {
	FadeIn  string `yaml:"fade_in"`
	FadeOut string `yaml:"fade_out"`
}

// DefaultAnimationConfig returns the stock choreography.
func DefaultAnimationConfig() AnimationConfig {
	t := session.DefaultTiming()
	return AnimationConfig{
		FrameInterval: motion.DefaultFrameInterval.String(),
		Typing: TypingConfig{
			PulseUp:     t.PulseUp.String(),
			PulseDown:   t.PulseDown.String(),
			Pause:       t.PulsePause.String(),
			Stagger:     t.PulseStagger.String(),
			RestOpacity: t.RestOpacity,
			PeakOpacity: t.PeakOpacity,
		},
		Picker: PickerConfig{
			FadeIn:  t.PickerFadeIn.String(),
			FadeOut: t.PickerFadeOut.String(),
		},
	}
}

// GetFrameInterval returns the animation frame interval.
func (c *Config) GetFrameInterval() time.Duration {
	d := durationOr(c.Animation.FrameInterval, motion.DefaultFrameInterval)
	if d == 0 {
		return motion.DefaultFrameInterval
	}
	return d
}

// GetTiming converts the animation section to session timing, falling back
// to the defaults field by field.
func (c *Config) GetTiming() session.Timing {
	def := session.DefaultTiming()
	a := c.Animation
	return session.Timing{
		PulseUp:       durationOr(a.Typing.PulseUp, def.PulseUp),
		PulseDown:     durationOr(a.Typing.PulseDown, def.PulseDown),
		PulsePause:    durationOr(a.Typing.Pause, def.PulsePause),
		PulseStagger:  durationOr(a.Typing.Stagger, def.PulseStagger),
		RestOpacity:   a.Typing.RestOpacity,
		PeakOpacity:   a.Typing.PeakOpacity,
		PickerFadeIn:  durationOr(a.Picker.FadeIn, def.PickerFadeIn),
		PickerFadeOut: durationOr(a.Picker.FadeOut, def.PickerFadeOut),
	}
}

func (a AnimationConfig) validate() error {
	fields := []struct{ name, value string }{
		{"animation.frame_interval", a.FrameInterval},
		{"animation.typing.pulse_up", a.Typing.PulseUp},
		{"animation.typing.pulse_down", a.Typing.PulseDown},
		{"animation.typing.pause", a.Typing.Pause},
		{"animation.typing.stagger", a.Typing.Stagger},
		{"animation.picker.fade_in", a.Picker.FadeIn},
		{"animation.picker.fade_out", a.Picker.FadeOut},
	}
	for _, f := range fields {
		if _, err := parseDuration(f.name, f.value); err != nil {
			return err
		}
	}

	if d, _ := time.ParseDuration(a.FrameInterval); d == 0 {
		return fmt.Errorf("%w: animation.frame_interval must be positive", ErrInvalid)
	}
	up, _ := time.ParseDuration(a.Typing.PulseUp)
	down, _ := time.ParseDuration(a.Typing.PulseDown)
	pause, _ := time.ParseDuration(a.Typing.Pause)
	if up+down+pause == 0 {
		return fmt.Errorf("%w: typing pulse has zero duration", ErrInvalid)
	}

	for _, o := range []struct {
		name string
		v    float64
	}{
		{"animation.typing.rest_opacity", a.Typing.RestOpacity},
		{"animation.typing.peak_opacity", a.Typing.PeakOpacity},
	} {
		if o.v < 0 || o.v > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalid, o.name, o.v)
		}
	}
	return nil
}
