package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gravitrone/autoplot/internal/cmd"
)

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "autoplot",
		Short:         "Autoplot - live views of a notebook's time series",
		Long:          "Autoplot replays notebook scripts, plotting time series and mirroring tables as the namespace changes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(cmd.DebugFlag, "", "write debug logs to this file")

	root.AddCommand(cmd.RunCmd())
	root.AddCommand(cmd.TUICmd())
	root.AddCommand(cmd.ConfigCmd())
	return root
}
