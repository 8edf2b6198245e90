package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chatsim/internal/config"
	"chatsim/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	replyDelay time.Duration

	// Loaded by PersistentPreRunE
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chatsim",
	Short: "chatsim - a Messenger-style chat simulator",
	Long: `chatsim simulates a one-on-one chat with a keyword-driven bot.

Messages you send get a canned reply after a short typing delay. Any message
can be given emoji reactions through a fading reaction picker.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		c, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		// The TUIs own the terminal, so they never log to stderr.
		opts := c.Logging.Options()
		if ownsTerminal(cmd) && opts.File == "" {
			opts.File = filepath.Join(".chatsim", "chatsim.log")
		}
		if err := logging.Initialize(opts); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		cfg = c
		logger = logging.Get(logging.CategoryBoot)
		logger.Debug("config loaded",
			zap.String("path", configPath),
			zap.String("reply_delay", cfg.GetReplyDelay().String()),
			zap.Int("rules", len(cfg.Replies.Rules)),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
		logging.CloseAll()
	},
	RunE: runChat,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the chatsim version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chatsim %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&replyDelay, "reply-delay", 0, "Override session.reply_delay (e.g. 500ms)")

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(widgetsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads path and applies the command-line overrides.
func loadConfig(path string) (*config.Config, error) {
	c, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if replyDelay > 0 {
		c.Session.ReplyDelay = replyDelay.String()
	}
	if verbose {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
	return c, nil
}

// ownsTerminal reports whether cmd runs a full-screen TUI: the root command
// or widgets.
func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "widgets"
}
