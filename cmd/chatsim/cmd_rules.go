package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"chatsim/cmd/chatsim/ui"
	"chatsim/internal/replies"
)

var rulesRaw bool

var rulesCmd = &cobra.Command{
	Use:   "rules [TEXT]",
	Short: "Show the bot's reply rules",
	Long: `Prints the reply rules in priority order. The first rule with a trigger
contained in a message (case-insensitively) supplies the reply; the fallback
answers everything else.

With TEXT, also shows which rule would answer it.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		md := rulesMarkdown(cfg.Replies, strings.Join(args, " "), len(args) > 0)
		if rulesRaw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		out, err := renderMarkdown(md, ui.ThemeFor(cfg.UI.Theme).IsDark)
		if err != nil {
			logger.Debug("markdown rendering failed, printing raw")
			out = md
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rulesCmd.Flags().BoolVar(&rulesRaw, "raw", false, "Print Markdown without terminal styling")
}

func renderMarkdown(md string, dark bool) (string, error) {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// rulesMarkdown renders t as a Markdown table. When withMatch is set, the match
// for text is appended.
func rulesMarkdown(t replies.Table, text string, withMatch bool) string {
	var b strings.Builder
	b.WriteString("# Reply rules\n\n")
	b.WriteString("| # | Rule | Triggers | Reply |\n")
	b.WriteString("|---|------|----------|-------|\n")
	for i, r := range t.Rules {
		triggers := make([]string, len(r.Triggers))
		for j, trig := range r.Triggers {
			triggers[j] = "`" + trig + "`"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, r.Name, strings.Join(triggers, ", "), escapeCell(r.Response))
	}
	fmt.Fprintf(&b, "\n**Fallback:** %s\n", t.Fallback)

	if withMatch {
		m := t.Select(text)
		b.WriteString("\n## Match\n\n")
		fmt.Fprintf(&b, "> %s\n\n", text)
		if m.Fallback() {
			fmt.Fprintf(&b, "No trigger matches; the fallback answers: %s\n", m.Response)
		} else {
			fmt.Fprintf(&b, "Rule **%s** matches on `%s` and answers: %s\n", m.Rule, m.Trigger, m.Response)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
