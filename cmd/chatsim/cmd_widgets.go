package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"chatsim/cmd/chatsim/ui"
	"chatsim/cmd/chatsim/widgets"
)

var widgetsCmd = &cobra.Command{
	Use:   "widgets",
	Short: "Play with the counter and color switcher",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
		p := tea.NewProgram(widgets.New(styles), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err := p.Run()
		return err
	},
}
