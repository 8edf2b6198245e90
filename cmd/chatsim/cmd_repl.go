package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chatsim/internal/config"
	"chatsim/internal/logging"
	"chatsim/internal/metrics"
	"chatsim/internal/render"
	"chatsim/internal/scheduler"
	"chatsim/internal/session"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Chat line by line on a real-time event loop",
	Long: `Reads chat lines from stdin and prints session events as they happen.

Plain lines are sent as messages. Commands:
  /react N SYMBOL        react to message N (SYMBOL may be an emoji or 1-6)
  /pick N                toggle the reaction picker on message N
  /close                 close the reaction picker
  /keyboard on|off [H]   report the keyboard shown with height H, or hidden
  /state                 print the whole chat
  /quit                  leave immediately

At end of input the repl waits for outstanding bot replies, then exits.
With --metrics-addr, session counters are served at /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg, replMetricsAddr)
	},
}

var replMetricsAddr string

func init() {
	replCmd.Flags().StringVar(&replMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}

// repl drives a session from text lines. All fields are owned by the loop
// goroutine.
type repl struct {
	sess    *session.Session
	out     *transcript
	metrics *metrics.Collector
	opts    render.Options
	eof     bool

	done     chan struct{}
	doneOnce sync.Once
}

func (r *repl) finish() {
	r.doneOnce.Do(func() { close(r.done) })
}

// runREPL runs until /quit, end of input once replies have landed, or ctx is
// cancelled.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, c *config.Config, metricsAddr string) error {
	log := logging.Get(logging.CategorySession)
	loop := scheduler.NewLoop(0)
	reg := prometheus.NewRegistry()

	r := &repl{
		opts:    renderOptions(c, time.Local),
		metrics: metrics.New(reg),
		done:    make(chan struct{}),
	}
	r.out = newTranscript(out, r.opts)
	r.sess = session.New(scheduler.NewRealtime(loop.Dispatch),
		append(sessionOptions(c), session.WithListener(r.onEvent))...,
	)

	// The reader may sit in a blocking Read after we return; stop unblocks
	// its send.
	stop := make(chan struct{})
	defer close(stop)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Warn("repl input failed", zap.Error(err))
		}
	}()

	var srv *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		srv = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	if srv != nil {
		g.Go(func() error {
			log.Info("serving metrics", zap.String("addr", metricsAddr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer func() {
			loop.Stop()
			if srv != nil {
				_ = srv.Close()
			}
		}()
		input := lines
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-r.done:
				return nil
			case line, ok := <-input:
				if !ok {
					input = nil
					if err := loop.Do(r.markEOF); err != nil {
						return nil
					}
					continue
				}
				if err := loop.Do(func() { r.exec(line) }); err != nil {
					return nil
				}
			}
		}
	})

	err := g.Wait()
	// The loop has exited, so this goroutine owns the session now.
	r.sess.Close()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *repl) markEOF() {
	r.eof = true
	if r.sess.PendingReplies() == 0 {
		r.finish()
	}
}

func (r *repl) onEvent(ev session.Event) {
	r.metrics.Observe(ev)
	r.out.event(ev)
	if r.eof && ev.Kind == session.EventMessageAppended && r.sess.PendingReplies() == 0 {
		r.finish()
	}
}

// exec runs one input line.
func (r *repl) exec(line string) {
	if !strings.HasPrefix(strings.TrimSpace(line), "/") {
		// Blank lines are dropped by the session.
		r.sess.Submit(line)
		return
	}

	fields := strings.Fields(line)
	var err error
	switch fields[0] {
	case "/react":
		err = r.react(fields[1:])
	case "/pick":
		err = r.pick(fields[1:])
	case "/close":
		r.sess.CloseReactionPicker()
	case "/keyboard":
		err = r.keyboard(fields[1:])
	case "/state":
		r.out.frame(render.Build(r.sess.State(), r.opts))
	case "/quit":
		r.finish()
	default:
		err = fmt.Errorf("unknown command %s (try /react, /pick, /close, /keyboard, /state, /quit)", fields[0])
	}
	if err != nil {
		r.out.hint(err)
	}
}

func (r *repl) react(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: /react N SYMBOL")
	}
	id, err := r.messageArg(args[0])
	if err != nil {
		return err
	}
	return r.sess.ApplyReaction(id, reactionArg(r.sess.Reactions(), args[1]))
}

func (r *repl) pick(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: /pick N")
	}
	id, err := r.messageArg(args[0])
	if err != nil {
		return err
	}
	return r.sess.OpenReactionPicker(id)
}

func (r *repl) keyboard(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("usage: /keyboard on|off [HEIGHT]")
	}
	height := 0
	if len(args) == 2 {
		h, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("keyboard height %q: %w", args[1], err)
		}
		height = h
	}
	switch args[0] {
	case "on":
		r.sess.SetKeyboardVisibility(true, height)
	case "off":
		r.sess.SetKeyboardVisibility(false, 0)
	default:
		return fmt.Errorf("keyboard state %q: want on or off", args[0])
	}
	return nil
}

func (r *repl) messageArg(s string) (session.MessageID, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil {
		return "", fmt.Errorf("message number %q: %w", s, err)
	}
	return r.out.messageID(n)
}

// reactionArg maps "1".."N" onto the reaction set; anything else is taken
// as the symbol itself.
func reactionArg(set []session.Reaction, s string) session.Reaction {
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(set) {
		return set[n-1]
	}
	return session.Reaction(s)
}
