package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/autoplot/internal/config"
	"github.com/gravitrone/autoplot/internal/logging"
	"github.com/gravitrone/autoplot/internal/notebook"
	"github.com/gravitrone/autoplot/internal/session"
)

// DebugFlag is the persistent flag naming a debug log file.
const DebugFlag = "debug"

// Replay is a loaded script bound to a fresh session.
type Replay struct {
	Session *session.Session
	Runner  *notebook.Runner
	close   func()
}

// Close releases the debug log, if any.
func (r *Replay) Close() {
	if r.close != nil {
		r.close()
	}
}

// NewReplay loads config and script and builds a session for them. Notices
// are also written as JSON lines to events when it is non-nil.
func NewReplay(c *cobra.Command, path string, events io.Writer) (*Replay, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	script, err := notebook.LoadScript(path)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := debugLogger(c, cfg)
	if err != nil {
		return nil, err
	}

	ns := notebook.NewNamespace()
	s, err := session.New(session.Options{
		Namespace: ns,
		Config:    cfg,
		Events:    events,
		Logger:    logger,
	})
	if err != nil {
		closeLog()
		return nil, err
	}
	runner := notebook.NewRunner(script, ns, s, func(line string) error {
		return RunMagic(s, line)
	})
	return &Replay{Session: s, Runner: runner, close: closeLog}, nil
}

func debugLogger(c *cobra.Command, cfg *config.Config) (*slog.Logger, func(), error) {
	path := ""
	if f := c.Flag(DebugFlag); f != nil {
		path = f.Value.String()
	}
	if path == "" {
		return logging.Discard(), func() {}, nil
	}
	w, closeFn, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, w)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return logger, closeFn, nil
}

// RunCmd returns the `autoplot run` command.
func RunCmd() *cobra.Command {
	var events bool
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Replay a notebook script and print each cell's output",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			var eventsOut io.Writer
			if events {
				eventsOut = c.ErrOrStderr()
			}
			replay, err := NewReplay(c, args[0], eventsOut)
			if err != nil {
				return err
			}
			defer replay.Close()

			return replay.Runner.Run(c.Context(), func(res notebook.CellResult) {
				printCell(out, res)
			})
		},
	}
	cmd.Flags().BoolVar(&events, "events", false, "write notices as JSON lines to stderr")
	return cmd
}

func printCell(w io.Writer, res notebook.CellResult) {
	name := res.Name
	if name == "" {
		name = fmt.Sprintf("cell %d", res.Index+1)
	}
	status := "ok"
	if !res.Success {
		status = fmt.Sprintf("failed: %v", res.Err)
	}
	fmt.Fprintf(w, "[%d] %s (%s) %s\n", res.Index+1, name, res.View, status)
	for _, n := range res.Notices {
		fmt.Fprintf(w, "  %s: %s\n", n.Type, n.Text)
	}
	if res.Output.Text != "" {
		fmt.Fprintln(w, strings.TrimRight(res.Output.Text, "\n"))
	}
}
