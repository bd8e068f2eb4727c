package view

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gravitrone/autoplot/internal/display"
	"github.com/gravitrone/autoplot/internal/series"
	"github.com/gravitrone/autoplot/internal/toast"
)

// ErrUnknownView is returned when activating a view that was not registered.
var ErrUnknownView = errors.New("unknown view")

// Entry registers a named view.
type Entry struct {
	Name string
	View View
}

// ExecutionResult is the outcome of running one notebook cell.
type ExecutionResult struct {
	Success bool
	Err     error
}

// Manager owns the fixed set of views and the single output area.
type Manager struct {
	toast  *toast.Toast
	out    *display.Output
	logger *slog.Logger

	names    []string
	views    map[string]View
	active   string
	changed  bool
	reserved map[string]struct{}
}

// NewManager registers views in order and activates active.
func NewManager(out *display.Output, t *toast.Toast, logger *slog.Logger, active string, entries ...Entry) (*Manager, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Manager{
		toast:    t,
		out:      out,
		logger:   logger,
		views:    make(map[string]View, len(entries)),
		changed:  true,
		reserved: make(map[string]struct{}),
	}
	for _, e := range entries {
		if _, dup := m.views[e.Name]; dup {
			return nil, fmt.Errorf("register view %q: duplicate name", e.Name)
		}
		m.names = append(m.names, e.Name)
		m.views[e.Name] = e.View
	}
	if _, ok := m.views[active]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, active)
	}
	m.active = active
	for _, name := range series.DefaultReserved {
		m.reserved[name] = struct{}{}
	}
	return m, nil
}

// Reserve adds names that are never tracked.
func (m *Manager) Reserve(names ...string) {
	for _, n := range names {
		m.reserved[n] = struct{}{}
	}
}

// Names lists the registered views in order.
func (m *Manager) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Active returns the active view name.
func (m *Manager) Active() string { return m.active }

// ActiveView returns the active view.
func (m *Manager) ActiveView() View { return m.views[m.active] }

// View returns a registered view by name.
func (m *Manager) View(name string) (View, bool) {
	v, ok := m.views[name]
	return v, ok
}

// Output returns the shared output area.
func (m *Manager) Output() *display.Output { return m.out }

// SetActive switches views. The next redraw is forced only if the view
// actually changed.
func (m *Manager) SetActive(name string) error {
	if _, ok := m.views[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	m.changed = m.active != name
	m.active = name
	return nil
}

// Redraw feeds the current namespace to the active view and draws it.
func (m *Manager) Redraw(p series.Provider) error {
	snap := p.Snapshot()
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("read namespace: %w", err)
	}
	v := m.ActiveView()
	v.UpdateVariables(series.Filter(snap, m.reserved))
	v.Draw(m.changed, m.out)
	m.changed = false
	return nil
}

// PostRunCell redraws after a cell ran. Failed cells leave the views alone.
func (m *Manager) PostRunCell(result ExecutionResult, p series.Provider) error {
	if !result.Success {
		m.logger.Debug("skipping redraw after failed cell", "error", result.Err)
		return nil
	}
	return m.Redraw(p)
}

// --- Command Dispatch ---

func (m *Manager) unsupported(op string) {
	m.toast.Unsupported(m.active, op)
}

// IgnoreVariable stops plotting name.
func (m *Manager) IgnoreVariable(name string) {
	if v, ok := m.ActiveView().(Ignorer); ok {
		v.IgnoreVariable(name)
		return
	}
	m.unsupported(OpIgnore)
}

// ShowVariable forces name to be plotted.
func (m *Manager) ShowVariable(name string) {
	if v, ok := m.ActiveView().(Shower); ok {
		v.ShowVariable(name)
		return
	}
	m.unsupported(OpShow)
}

// ChangeColour recolours name.
func (m *Manager) ChangeColour(name, colour string) {
	if v, ok := m.ActiveView().(Recolourer); ok {
		v.ChangeColour(name, colour)
		return
	}
	m.unsupported(OpColour)
}

// RenameVariable relabels name.
func (m *Manager) RenameVariable(name, label string) {
	if v, ok := m.ActiveView().(Renamer); ok {
		v.RenameVariable(name, label)
		return
	}
	m.unsupported(OpRename)
}

// Freeze stops new variables from being picked up.
func (m *Manager) Freeze() {
	if v, ok := m.ActiveView().(Freezer); ok {
		v.Freeze()
		return
	}
	m.unsupported(OpFreeze)
}

// Defrost resumes picking up new variables.
func (m *Manager) Defrost() {
	if v, ok := m.ActiveView().(Freezer); ok {
		v.Defrost()
		return
	}
	m.unsupported(OpDefrost)
}

// SetMaxSeriesLength sets the downsampling threshold.
func (m *Manager) SetMaxSeriesLength(n int) {
	if v, ok := m.ActiveView().(MaxLengthSetter); ok {
		v.SetMaxSeriesLength(n)
		return
	}
	m.unsupported(OpMaxLength)
}

// SetYLabel sets the y axis label.
func (m *Manager) SetYLabel(label string) {
	if v, ok := m.ActiveView().(YLabelSetter); ok {
		v.SetYLabel(label)
		return
	}
	m.unsupported(OpYLabel)
}

// SetPlotHeight sets the figure height in inches.
func (m *Manager) SetPlotHeight(inches float64) {
	if v, ok := m.ActiveView().(Resizer); ok {
		v.SetPlotHeight(inches)
		return
	}
	m.unsupported(OpHeight)
}

// SetPlotWidth sets the figure width in inches.
func (m *Manager) SetPlotWidth(inches float64) {
	if v, ok := m.ActiveView().(Resizer); ok {
		v.SetPlotWidth(inches)
		return
	}
	m.unsupported(OpWidth)
}
