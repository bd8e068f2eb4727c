package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/autoplot/internal/ui"
)

// TUICmd returns the `autoplot tui` command.
func TUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui <script>",
		Short: "Step through a notebook script interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			replay, err := NewReplay(c, args[0], nil)
			if err != nil {
				return err
			}
			defer replay.Close()

			s := replay.Session
			app := ui.NewApp(replay.Runner, s, func(line string) error {
				return RunMagic(s, line)
			})
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(c.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("tui error: %w", err)
			}
			return nil
		},
	}
}
