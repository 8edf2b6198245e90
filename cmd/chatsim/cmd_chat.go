package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chatsim/cmd/chatsim/chat"
	"chatsim/internal/config"
	"chatsim/internal/logging"
	"chatsim/internal/scheduler"
)

// runChat launches the interactive chat TUI. Timers fire on their own
// goroutines and are funnelled into the program as messages, so the model's
// Update is the only code that touches the session.
func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	dispatcher := chat.NewDispatcher()
	sched := scheduler.NewRealtime(dispatcher.Dispatch)
	model := chat.New(sched, cfg)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	dispatcher.Attach(p)

	watcher := watchConfig(ctx, configPath,
		func(c *config.Config) { p.Send(chat.ConfigReloadedMsg{Config: c}) },
		func(err error) { p.Send(chat.ConfigErrorMsg{Err: err}) },
	)
	if watcher != nil {
		defer watcher.Stop()
	}

	final, err := p.Run()
	if m, ok := final.(chat.Model); ok {
		m.Shutdown()
	} else {
		model.Shutdown()
	}
	return err
}

// watchConfig starts hot reload for path. A watcher that cannot start is
// logged and skipped; the chat runs on the config it already has.
func watchConfig(ctx context.Context, path string, onReload func(*config.Config), onError func(error)) *config.Watcher {
	log := logging.Get(logging.CategoryConfig)

	w, err := config.NewWatcher(path, func(c *config.Config) {
		// Command-line overrides survive a reload.
		if replyDelay > 0 {
			c.Session.ReplyDelay = replyDelay.String()
		}
		onReload(c)
	}, config.WithErrorHandler(onError))
	if err != nil {
		log.Warn("config watcher unavailable", zap.Error(err))
		return nil
	}
	if err := w.Start(ctx); err != nil {
		log.Warn("config watcher not started", zap.String("path", path), zap.Error(err))
		w.Stop()
		return nil
	}
	return w
}
