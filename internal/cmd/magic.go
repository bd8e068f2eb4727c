package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/gravitrone/autoplot/internal/plotter"
	"github.com/gravitrone/autoplot/internal/session"
)

// MagicPrefix starts an autoplot line in a cell.
const MagicPrefix = "%autoplot"

// MagicCmd returns the `%autoplot` line command bound to s. Options are
// applied in a fixed order regardless of how they were written; the view
// switch always comes last.
func MagicCmd(s *session.Session) *cobra.Command {
	var (
		width, height  float64
		renames        []string
		ignores, shows []string
		colours        []string
		ylabel         string
		sample         int
		freeze         bool
		defrost        bool
		viewName       string
	)

	cmd := &cobra.Command{
		Use:   MagicPrefix,
		Short: "Change the plot or the tracked variables",
		Long: "Watches the notebook namespace for time indexed real valued series and tables, " +
			"and updates the active view as they change.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, _ []string) error {
			m := s.Manager
			flags := c.Flags()

			renamePairs, err := splitPairs("rename", renames)
			if err != nil {
				return err
			}
			colourPairs, err := splitPairs("colour", colours)
			if err != nil {
				return err
			}

			if flags.Changed("width") {
				m.SetPlotWidth(width)
			}
			if flags.Changed("height") {
				m.SetPlotHeight(height)
			}
			for _, p := range renamePairs {
				m.RenameVariable(p[0], p[1])
			}
			for _, name := range ignores {
				m.IgnoreVariable(name)
			}
			for _, name := range shows {
				m.ShowVariable(name)
			}
			for _, p := range colourPairs {
				m.ChangeColour(p[0], p[1])
			}
			if flags.Changed("ylabel") {
				m.SetYLabel(ylabel)
			}
			if flags.Changed("sample") {
				m.SetMaxSeriesLength(sample)
			}
			if freeze {
				m.Freeze()
			}
			if defrost {
				m.Defrost()
			}
			if viewName != "" {
				if err := m.SetActive(viewName); err != nil {
					return fmt.Errorf("switch view: %w", err)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&width, "width", "w", plotter.DefaultWidth,
		fmt.Sprintf("plot width in inches, %d-%d", plotter.MinWidth, plotter.MaxWidth))
	f.Float64VarP(&height, "height", "h", plotter.DefaultHeight,
		fmt.Sprintf("plot height in inches, %d-%d", plotter.MinHeight, plotter.MaxHeight))
	f.StringArrayVarP(&renames, "rename", "r", nil, "set a legend label, e.g. -r my_series='A nice name'")
	f.StringSliceVarP(&ignores, "ignore", "i", nil, "remove variables from the view, undo with --show")
	f.StringSliceVarP(&shows, "show", "s", nil, "show ignored or deleted variables")
	f.StringArrayVarP(&colours, "colour", "c", nil, "set a trace colour, e.g. -c my_series=gold")
	f.StringVarP(&ylabel, "ylabel", "y", "", "y axis label, '' removes it")
	f.IntVar(&sample, "sample", plotter.DefaultMaxSeriesLength, "downsample series longer than this, 0 disables")
	f.BoolVarP(&freeze, "freeze", "f", false, "stop adding new variables")
	f.BoolVarP(&defrost, "defrost", "d", false, "resume adding new variables")
	f.StringVarP(&viewName, "view", "v", "", "switch the active view")
	return cmd
}

func splitPairs(flag string, raw []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(raw))
	for _, r := range raw {
		name, value, ok := strings.Cut(r, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("--%s %q: want name=value", flag, r)
		}
		pairs = append(pairs, [2]string{name, value})
	}
	return pairs, nil
}

// RunMagic parses and applies one magic line. The leading %autoplot is
// optional. Quotes are honoured as in a shell.
func RunMagic(s *session.Session, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse magic: %w", err)
	}
	if len(args) > 0 && args[0] == MagicPrefix {
		args = args[1:]
	}
	cmd := MagicCmd(s)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err != nil {
		return fmt.Errorf("%s: %w", MagicPrefix, err)
	}
	return nil
}
