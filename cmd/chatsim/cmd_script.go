package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"chatsim/internal/config"
	"chatsim/internal/render"
	"chatsim/internal/scheduler"
	"chatsim/internal/session"
)

var scriptSettle bool

var scriptCmd = &cobra.Command{
	Use:   "script FILE",
	Short: "Replay a YAML chat script on a simulated clock",
	Long: `Replays a scripted conversation against a simulated clock and prints the
events and the final chat. Nothing waits on real time.

Example script:

  start: 2024-03-01T09:00:00Z
  steps:
    - submit: "Hi there"
    - wait: 1.3s
    - pick: 2
    - react: {message: 2, symbol: "👍"}
    - keyboard: {visible: true, height: 300}

Messages are numbered from 1 in the order they appear. With --settle (the
default) the clock runs on after the last step until every reply has landed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		sc, err := parseScript(data)
		if err != nil {
			return fmt.Errorf("script %s: %w", args[0], err)
		}
		return runScript(sc, cmd.OutOrStdout(), cfg, scriptSettle)
	},
}

func init() {
	scriptCmd.Flags().BoolVar(&scriptSettle, "settle", true, "Run the clock until pending replies land")
}

// Script is a scripted conversation.
type Script struct {
	Start time.Time    `yaml:"start"`
	Steps []ScriptStep `yaml:"steps"`
}

// ScriptStep is one action. Exactly one field is set.
type ScriptStep struct {
	Submit   *string         `yaml:"submit,omitempty"`
	Wait     string          `yaml:"wait,omitempty"`
	Pick     int             `yaml:"pick,omitempty"`
	Close    bool            `yaml:"close,omitempty"`
	React    *ScriptReaction `yaml:"react,omitempty"`
	Keyboard *ScriptKeyboard `yaml:"keyboard,omitempty"`
}

// ScriptReaction reacts to a message by number.
type ScriptReaction struct {
	Message int    `yaml:"message"`
	Symbol  string `yaml:"symbol"`
}

// ScriptKeyboard reports a keyboard change.
type ScriptKeyboard struct {
	Visible bool `yaml:"visible"`
	Height  int  `yaml:"height"`
}

var errBadStep = errors.New("invalid step")

func (s ScriptStep) actions() int {
	n := 0
	for _, set := range []bool{s.Submit != nil, s.Wait != "", s.Pick != 0, s.Close, s.React != nil, s.Keyboard != nil} {
		if set {
			n++
		}
	}
	return n
}

func parseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, step := range sc.Steps {
		if n := step.actions(); n != 1 {
			return nil, fmt.Errorf("step %d: %w: has %d actions, want 1", i+1, errBadStep, n)
		}
		if step.Wait != "" {
			d, err := time.ParseDuration(step.Wait)
			if err != nil || d < 0 {
				return nil, fmt.Errorf("step %d: %w: wait %q", i+1, errBadStep, step.Wait)
			}
		}
	}
	return &sc, nil
}

// runScript plays sc on a manual clock, printing events as they happen and
// the final chat at the end. Rejected steps are reported and skipped.
func runScript(sc *Script, out io.Writer, c *config.Config, settle bool) error {
	start := sc.Start
	if start.IsZero() {
		start = time.Now()
	}
	clock := scheduler.NewManual(start)

	opts := renderOptions(c, start.Location())
	tr := newTranscript(out, opts)
	tr.clock = clock.Now
	tr.start = start

	sess := session.New(clock, append(sessionOptions(c),
		session.WithIDGenerator(session.NewSequenceGenerator("m")),
		session.WithListener(tr.event),
	)...)
	defer sess.Close()

	for i, step := range sc.Steps {
		if err := playStep(sess, clock, tr, step); err != nil {
			tr.hint(fmt.Errorf("step %d: %w", i+1, err))
		}
	}
	if settle {
		settleClock(sess, clock)
	}

	fmt.Fprintln(out)
	tr.frame(render.Build(sess.State(), opts))
	return nil
}

func playStep(sess *session.Session, clock *scheduler.Manual, tr *transcript, step ScriptStep) error {
	switch {
	case step.Submit != nil:
		sess.Submit(*step.Submit)
	case step.Wait != "":
		d, _ := time.ParseDuration(step.Wait)
		clock.Advance(d)
	case step.Pick != 0:
		id, err := tr.messageID(step.Pick)
		if err != nil {
			return err
		}
		return sess.OpenReactionPicker(id)
	case step.Close:
		sess.CloseReactionPicker()
	case step.React != nil:
		id, err := tr.messageID(step.React.Message)
		if err != nil {
			return err
		}
		return sess.ApplyReaction(id, reactionArg(sess.Reactions(), step.React.Symbol))
	case step.Keyboard != nil:
		sess.SetKeyboardVisibility(step.Keyboard.Visible, step.Keyboard.Height)
	}
	return nil
}

// settleClock advances to each next deadline until no reply is pending and
// no picker is mid-fade. The typing pulse never ends on its own, so waiting
// for an empty queue would not terminate.
func settleClock(sess *session.Session, clock *scheduler.Manual) {
	for {
		st := sess.State()
		if sess.PendingReplies() == 0 && !st.Picker.Closing && (st.Picker.Opacity >= 1 || !st.Picker.IsOpen()) {
			return
		}
		due, ok := clock.NextDue()
		if !ok {
			return
		}
		clock.AdvanceTo(due)
	}
}
