// Package plotter keeps the graph view: traces, their lifecycle, and the
// reconciliation of namespace snapshots onto them.
package plotter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gravitrone/autoplot/internal/colour"
	"github.com/gravitrone/autoplot/internal/display"
	"github.com/gravitrone/autoplot/internal/metrics"
	"github.com/gravitrone/autoplot/internal/series"
	"github.com/gravitrone/autoplot/internal/toast"
	"github.com/gravitrone/autoplot/internal/ui/components"
)

// ErrUnknownTrace is returned for operations on a name that was never plotted.
var ErrUnknownTrace = errors.New("unknown trace")

// Figure limits, in inches.
const (
	MinWidth      = 6
	MaxWidth      = 20
	DefaultWidth  = 13
	MinHeight     = 3
	MaxHeight     = 15
	DefaultHeight = 4
)

// DefaultMaxSeriesLength is the length above which series are downsampled.
const DefaultMaxSeriesLength = 1000

// Plotter stores every trace ever drawn, including hidden ones, so colours
// survive a variable being deleted and defined again.
type Plotter struct {
	toast   *toast.Toast
	metrics *metrics.Metrics
	logger  *slog.Logger

	traces     map[string]*Trace
	order      []string
	forceShown map[string]struct{}

	ylabel          string
	width, height   float64
	frozen          bool
	maxSeriesLength int
	changed         bool
}

// Option configures a Plotter.
type Option func(*Plotter)

// WithMetrics records lifecycle counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Plotter) { p.metrics = m }
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plotter) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMaxSeriesLength overrides DefaultMaxSeriesLength.
func WithMaxSeriesLength(n int) Option {
	return func(p *Plotter) {
		if n >= 0 {
			p.maxSeriesLength = n
		}
	}
}

// WithFigureSize overrides the default figure size. Values are clamped.
func WithFigureSize(width, height float64) Option {
	return func(p *Plotter) {
		p.width = clamp(width, MinWidth, MaxWidth)
		p.height = clamp(height, MinHeight, MaxHeight)
	}
}

// WithYLabel sets an initial y axis label.
func WithYLabel(label string) Option {
	return func(p *Plotter) { p.ylabel = label }
}

// New creates an empty plotter. It starts out changed so that the first
// draw renders an empty figure.
func New(t *toast.Toast, opts ...Option) *Plotter {
	p := &Plotter{
		toast:           t,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		traces:          make(map[string]*Trace),
		forceShown:      make(map[string]struct{}),
		width:           DefaultWidth,
		height:          DefaultHeight,
		maxSeriesLength: DefaultMaxSeriesLength,
		changed:         true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// --- Traces ---

// Trace returns the named trace.
func (p *Plotter) Trace(name string) (*Trace, bool) {
	tr, ok := p.traces[name]
	return tr, ok
}

// Names returns every trace name in creation order.
func (p *Plotter) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// AddTrace creates a trace, or re-creates one that was previously deleted.
// New traces are hidden while the plot is frozen.
func (p *Plotter) AddTrace(name string, data series.Data, group string) {
	visible := !p.frozen
	if tr, ok := p.traces[name]; ok {
		tr.recreate(data, group, visible)
		p.logger.Debug("trace recreated", "name", name, "colour", tr.colour)
	} else {
		p.traces[name] = newTrace(p.toast, p.metrics, name, data, len(p.order), p.maxSeriesLength, visible, group)
		p.order = append(p.order, name)
		p.logger.Debug("trace created", "name", name, "points", len(data))
	}
	if !p.frozen {
		p.changed = true
	}
}

func (p *Plotter) lookup(name string) (*Trace, error) {
	tr, ok := p.traces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrace, name)
	}
	return tr, nil
}

// UpdateTraceSeries replaces a trace's data. It reports whether the data changed.
func (p *Plotter) UpdateTraceSeries(name string, data series.Data) (bool, error) {
	tr, err := p.lookup(name)
	if err != nil {
		return false, err
	}
	updated := tr.UpdateSeries(data)
	if updated && tr.visible {
		p.changed = true
	}
	return updated, nil
}

// UpdateTraceColour recolours a trace.
func (p *Plotter) UpdateTraceColour(name, c string) error {
	tr, err := p.lookup(name)
	if err != nil {
		return err
	}
	if tr.UpdateColour(c) && tr.visible {
		p.changed = true
	}
	return nil
}

// UpdateTraceLabel relabels a trace.
func (p *Plotter) UpdateTraceLabel(name, label string) error {
	tr, err := p.lookup(name)
	if err != nil {
		return err
	}
	if tr.UpdateLabel(label) && tr.visible {
		p.changed = true
	}
	return nil
}

// HideTrace hides a trace and drops any force-show pin.
func (p *Plotter) HideTrace(name string) error {
	tr, err := p.lookup(name)
	if err != nil {
		return err
	}
	if tr.UpdateVisible(false) {
		delete(p.forceShown, name)
		p.changed = true
		p.metrics.Entities("graph", metrics.OpHidden, 1)
	}
	return nil
}

// ForceShowTrace shows a trace and pins it against automatic hiding.
func (p *Plotter) ForceShowTrace(name string) error {
	tr, err := p.lookup(name)
	if err != nil {
		return err
	}
	if tr.UpdateVisible(true) {
		p.forceShown[name] = struct{}{}
		p.changed = true
	}
	return nil
}

// IsForceShown reports whether name is pinned visible.
func (p *Plotter) IsForceShown(name string) bool {
	_, ok := p.forceShown[name]
	return ok
}

// Visible returns the visible trace names in creation order.
func (p *Plotter) Visible() []string {
	var out []string
	for _, name := range p.order {
		if p.traces[name].visible {
			out = append(out, name)
		}
	}
	return out
}

// --- Figure ---

// UpdateMaxSeriesLength changes the downsampling threshold of every trace.
// Negative values are reported and treated as 0.
func (p *Plotter) UpdateMaxSeriesLength(n int) {
	if n < 0 {
		p.toast.InvalidMaxLength(n)
		n = 0
	}
	if n == p.maxSeriesLength {
		return
	}
	for _, name := range p.order {
		tr := p.traces[name]
		if tr.UpdateMaxSeriesLength(n) && tr.visible {
			p.changed = true
		}
	}
	p.maxSeriesLength = n
}

// MaxSeriesLength returns the downsampling threshold.
func (p *Plotter) MaxSeriesLength() int { return p.maxSeriesLength }

// SetFigureWidth sets the width in inches. Callers clamp.
func (p *Plotter) SetFigureWidth(w float64) {
	if p.width != w {
		p.width = w
		p.changed = true
	}
}

// SetFigureHeight sets the height in inches. Callers clamp.
func (p *Plotter) SetFigureHeight(h float64) {
	if p.height != h {
		p.height = h
		p.changed = true
	}
}

// FigureSize returns width and height in inches.
func (p *Plotter) FigureSize() (float64, float64) { return p.width, p.height }

// SetYLabel sets the y axis label; an empty label removes it.
func (p *Plotter) SetYLabel(label string) {
	if p.ylabel != label {
		p.ylabel = label
		p.changed = true
	}
}

// YLabel returns the y axis label.
func (p *Plotter) YLabel() string { return p.ylabel }

// Freeze stops new traces from being shown.
func (p *Plotter) Freeze() {
	if !p.frozen {
		p.toast.Show("Plot has been 'frozen'. New series will not be plotted, but old ones will still be updated.", toast.Info)
	}
	p.frozen = true
}

// Defrost lets new traces be shown again.
func (p *Plotter) Defrost() {
	if p.frozen {
		p.toast.Show("Plot has been 'defrosted'. Series defined while it was frozen must be manually shown with '--show'", toast.Info)
	}
	p.frozen = false
}

// Frozen reports the freeze state.
func (p *Plotter) Frozen() bool { return p.frozen }

// Changed reports whether the next Draw would render.
func (p *Plotter) Changed() bool { return p.changed }

// Draw renders the visible traces into out when something changed or force
// is set. It reports whether anything was drawn.
func (p *Plotter) Draw(force bool, out *display.Output) bool {
	if !p.changed && !force {
		return false
	}

	visible := p.Visible()
	lines := make([]components.ChartLine, 0, len(visible))
	for _, name := range visible {
		tr := p.traces[name]
		lines = append(lines, components.ChartLine{
			Label:  tr.label,
			Colour: colour.Hex(tr.colour),
			Points: tr.shown,
		})
	}

	text := components.Chart(lines, components.ChartOptions{
		Width:  p.width,
		Height: p.height,
		YLabel: p.ylabel,
	})
	out.Clear()
	out.Show(display.Item{Kind: display.KindChart, Title: "graph", Text: text})

	p.changed = false
	p.metrics.SetVisible(len(visible))
	p.logger.Debug("graph drawn", "visible", len(visible), "forced", force)
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
