// Package logging provides config-driven categorized logging for chatsim.
// Loggers are zap loggers named after their category. Logging is controlled by
// debug_mode in the logging config: when it is off, every logger is a no-op,
// so the TUI never writes to the terminal behind the user's back.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config loading
	CategorySession   Category = "session"   // Chat session transitions
	CategoryScheduler Category = "scheduler" // Deferred tasks and event loop
	CategoryMotion    Category = "motion"    // Animation runs
	CategoryUI        Category = "ui"        // Presentation layer
	CategoryConfig    Category = "config"    // Config reload and validation
)

// Options mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports
type Options struct {
	DebugMode  bool
	Level      string          // debug, info, warn, error
	Format     string          // json, console
	File       string          // empty = stderr
	Categories map[string]bool // nil = all enabled
}

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	opts    Options
	loggers = make(map[Category]*zap.Logger)
	closer  func() error
)

// Initialize builds the root logger from opts. It may be called again to
// reconfigure logging; previously returned loggers keep their old core.
func Initialize(o Options) error {
	if !o.DebugMode {
		setRoot(zap.NewNop(), o, nil)
		return nil
	}

	level, err := parseLevel(o.Level)
	if err != nil {
		return err
	}

	var encCfg zapcore.EncoderConfig
	if strings.EqualFold(o.Format, "json") {
		encCfg = zap.NewProductionEncoderConfig()
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(o.Format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	var (
		sink    zapcore.WriteSyncer
		closeFn func() error
	)
	if o.File == "" {
		sink = zapcore.Lock(os.Stderr)
	} else {
		if dir := filepath.Dir(o.File); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", o.File, err)
		}
		sink = zapcore.AddSync(f)
		closeFn = f.Close
	}

	core := zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(level))
	setRoot(zap.New(core), o, closeFn)

	Get(CategoryBoot).Info("logging initialized",
		zap.String("level", level.String()),
		zap.String("format", o.Format),
		zap.String("file", o.File),
	)
	return nil
}

// UseLogger installs l as the root logger with every category enabled.
// Tests use it with zaptest/observer.
func UseLogger(l *zap.Logger) {
	setRoot(l, Options{DebugMode: true}, nil)
}

func setRoot(l *zap.Logger, o Options, closeFn func() error) {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = root.Sync()
		_ = closer()
	}
	root = l
	opts = o
	closer = closeFn
	loggers = make(map[Category]*zap.Logger)
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return opts.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if !opts.DebugMode {
		return false
	}
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true // Enable by default if not specified
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if !categoryEnabled(category) {
		mu.RUnlock()
		return zap.NewNop()
	}
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := root.Named(string(category))
	loggers[category] = l
	return l
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

// CloseAll flushes and closes the log file (call at shutdown)
func CloseAll() {
	setRoot(zap.NewNop(), Options{}, nil)
}
