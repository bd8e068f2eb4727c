// Package session wires one notebook's views, notices and output together.
// Sessions share no state, so several can run in one process.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gravitrone/autoplot/internal/api"
	"github.com/gravitrone/autoplot/internal/config"
	"github.com/gravitrone/autoplot/internal/display"
	"github.com/gravitrone/autoplot/internal/dtaler"
	"github.com/gravitrone/autoplot/internal/logging"
	"github.com/gravitrone/autoplot/internal/metrics"
	"github.com/gravitrone/autoplot/internal/plotter"
	"github.com/gravitrone/autoplot/internal/series"
	"github.com/gravitrone/autoplot/internal/toast"
	"github.com/gravitrone/autoplot/internal/view"
)

// View names.
const (
	ViewGraph = "graph"
	ViewDtale = "dtale"
)

var _ dtaler.Store = (*api.Client)(nil)

// Options configures a Session.
type Options struct {
	// Namespace is read after every successful cell. Required.
	Namespace series.Provider
	// Config defaults to config.Default().
	Config *config.Config
	// Store backs the dtale view. Defaults to an api.Client when the config
	// names a store URL, otherwise an in-memory store.
	Store dtaler.Store
	// Events receives one JSON line per notice.
	Events io.Writer
	Logger *slog.Logger
}

// Session is one notebook's autoplot state.
type Session struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Toasts  *toast.Recorder
	Output  *display.Output
	Graph   *plotter.Model
	Dtale   *dtaler.DTaler
	Manager *view.Manager

	toast     *toast.Toast
	namespace series.Provider
}

// New builds a session with the graph and dtale views registered.
func New(opts Options) (*Session, error) {
	if opts.Namespace == nil {
		return nil, errors.New("create session: namespace is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Session{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics.New(),
		Toasts:    &toast.Recorder{},
		Output:    display.NewOutput(),
		namespace: opts.Namespace,
	}

	sinks := []toast.Sink{s.Toasts, s.Metrics.ToastSink()}
	if opts.Events != nil {
		sinks = append(sinks, toast.NewEventWriter(opts.Events))
	}
	s.toast = toast.New(toast.Multi(sinks...), logger)

	p := plotter.New(s.toast,
		plotter.WithMetrics(s.Metrics),
		plotter.WithLogger(logger.With("view", ViewGraph)),
		plotter.WithMaxSeriesLength(cfg.MaxSeriesLength),
		plotter.WithFigureSize(cfg.Width, cfg.Height),
		plotter.WithYLabel(cfg.YLabel),
	)
	s.Graph = plotter.NewModel(p, s.toast, s.Metrics, logger.With("view", ViewGraph))

	store := opts.Store
	if store == nil {
		if cfg.StoreURL != "" {
			store = api.NewClient(cfg.StoreURL, cfg.StoreToken)
		} else {
			store = dtaler.NewMemoryStore()
		}
	}
	s.Dtale = dtaler.New(store, s.toast,
		dtaler.WithSettle(cfg.Settle()),
		dtaler.WithMetrics(s.Metrics),
		dtaler.WithLogger(logger.With("view", ViewDtale)),
	)

	m, err := view.NewManager(s.Output, s.toast, logger, cfg.DefaultView,
		view.Entry{Name: ViewGraph, View: s.Graph},
		view.Entry{Name: ViewDtale, View: s.Dtale},
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	m.Reserve(cfg.Reserved...)
	s.Manager = m

	logger.Debug("session started", "output", s.Output.UUID(), "view", cfg.DefaultView)
	return s, nil
}

// Toast returns the session's notice dispatcher.
func (s *Session) Toast() *toast.Toast { return s.toast }

// Redraw refreshes the active view from the namespace.
func (s *Session) Redraw() error {
	return s.Manager.Redraw(s.namespace)
}

// PostRunCell is called after every cell execution.
func (s *Session) PostRunCell(result view.ExecutionResult) error {
	return s.Manager.PostRunCell(result, s.namespace)
}
