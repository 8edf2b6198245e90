package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"chatsim/internal/replies"
)

// DefaultPath is where the CLI looks for its config file.
const DefaultPath = "chatsim.yaml"

// Config holds all chatsim configuration.
type Config struct {
	// Chat session behaviour and chrome
	Session SessionConfig `yaml:"session"`

	// Priority-ordered bot reply rules
	Replies replies.Table `yaml:"replies"`

	// Typing pulse and picker fade
	Animation AnimationConfig `yaml:"animation"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Session:   DefaultSessionConfig(),
		Replies:   replies.Default(),
		Animation: DefaultAnimationConfig(),
		UI:        DefaultUIConfig(),
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			File:      filepath.Join(".chatsim", "chatsim.log"),
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides, including those from a .env file next to
// path, are applied and the result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.Replies.Normalize()

	// A .env beside the config file supplies variables the environment lacks.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	// Override with environment variables
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHATSIM_REPLY_DELAY"); v != "" {
		c.Session.ReplyDelay = v
	}
	if v := os.Getenv("CHATSIM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CHATSIM_DEBUG"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = on
		}
	}
	if v := os.Getenv("CHATSIM_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Session.validate(); err != nil {
		return err
	}
	if err := c.Replies.Validate(); err != nil {
		return fmt.Errorf("replies: %w", err)
	}
	if err := c.Animation.validate(); err != nil {
		return err
	}
	if err := c.UI.validate(); err != nil {
		return err
	}
	return c.Logging.validate()
}

// parseDuration parses a config duration, rejecting negative values.
func parseDuration(field, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, field, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalid, field)
	}
	return d, nil
}

// durationOr returns s as a duration, or fallback if it does not parse.
func durationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
