package plotter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/gravitrone/autoplot/internal/display"
	"github.com/gravitrone/autoplot/internal/metrics"
	"github.com/gravitrone/autoplot/internal/series"
	"github.com/gravitrone/autoplot/internal/toast"
)

// GroupOp is a change to a table's member set.
type GroupOp string

const (
	MemberAdded   GroupOp = "added"
	MemberRemoved GroupOp = "removed"
)

// GroupChange records one member joining or leaving a table group.
type GroupChange struct {
	Group  string
	Member string
	Op     GroupOp
}

// Report lists what a reconciliation did, in the order it happened.
type Report struct {
	Created []string
	Updated []string
	Removed []string
	Groups  []GroupChange
}

// Empty reports whether the reconciliation changed nothing.
func (r Report) Empty() bool {
	return len(r.Created) == 0 && len(r.Updated) == 0 && len(r.Removed) == 0 && len(r.Groups) == 0
}

// Model reconciles namespace snapshots onto a Plotter. It tracks which
// traces belong to live variables and which tables own which columns.
type Model struct {
	plotter *Plotter
	toast   *toast.Toast
	metrics *metrics.Metrics
	logger  *slog.Logger

	tracked map[string]series.Data
	groups  map[string][]string
	present map[string]struct{}
}

// NewModel wraps p. The toast is used for command feedback.
func NewModel(p *Plotter, t *toast.Toast, m *metrics.Metrics, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Model{
		plotter: p,
		toast:   t,
		metrics: m,
		logger:  logger,
		tracked: make(map[string]series.Data),
		groups:  make(map[string][]string),
		present: make(map[string]struct{}),
	}
}

// Plotter returns the underlying plotter.
func (m *Model) Plotter() *Plotter { return m.plotter }

// Tracked reports whether name is a live plain or column trace.
func (m *Model) Tracked(name string) bool {
	_, ok := m.tracked[name]
	return ok
}

// Group returns the member traces of a table, in the order they joined.
func (m *Model) Group(name string) ([]string, bool) {
	members, ok := m.groups[name]
	return slices.Clone(members), ok
}

// UpdateVariables reconciles the snapshot.
func (m *Model) UpdateVariables(s series.Snapshot) {
	m.Reconcile(s)
}

// Draw renders the plot.
func (m *Model) Draw(force bool, out *display.Output) {
	m.plotter.Draw(force, out)
}

// Reconcile brings the traces in line with s. Series replace tables of the
// same name and vice versa; anything no longer present is forgotten and
// hidden unless the user pinned it.
func (m *Model) Reconcile(s series.Snapshot) Report {
	var rep Report
	clear(m.present)

	for _, c := range series.Classify(s) {
		m.present[c.Name] = struct{}{}
		switch c.Kind {
		case series.KindSeries:
			if _, ok := m.groups[c.Name]; ok {
				m.delete(c.Name, &rep)
			}
			m.upsert(c.Name, c.Data, "", &rep)
		case series.KindTable:
			if _, ok := m.tracked[c.Name]; ok {
				m.delete(c.Name, &rep)
			}
			for _, col := range c.Columns {
				m.present[col.Entity] = struct{}{}
				if col.Eligible {
					m.upsert(col.Entity, col.Data, c.Name, &rep)
				} else if _, ok := m.tracked[col.Entity]; ok {
					m.delete(col.Entity, &rep)
				}
			}
		default:
			_, isTrace := m.tracked[c.Name]
			_, isGroup := m.groups[c.Name]
			if isTrace || isGroup {
				m.delete(c.Name, &rep)
			}
		}
	}

	// Hidden traces are swept too, so an ignored or frozen name that leaves
	// the namespace is re-created, not updated, when it comes back.
	for _, name := range m.plotter.Names() {
		if _, ok := m.present[name]; ok || m.plotter.IsForceShown(name) {
			continue
		}
		tr, _ := m.plotter.Trace(name)
		if _, tracked := m.tracked[name]; tracked || tr.Visible() {
			m.deleteTrace(name, &rep)
		}
	}

	m.metrics.Cycle("graph")
	m.metrics.Entities("graph", metrics.OpCreated, len(rep.Created))
	m.metrics.Entities("graph", metrics.OpUpdated, len(rep.Updated))
	m.metrics.Entities("graph", metrics.OpRemoved, len(rep.Removed))
	if !rep.Empty() {
		m.logger.Debug("graph reconciled",
			"created", rep.Created, "updated", rep.Updated, "removed", rep.Removed)
	}
	return rep
}

func (m *Model) upsert(name string, data series.Data, group string, rep *Report) {
	if group != "" && !slices.Contains(m.groups[group], name) {
		m.groups[group] = append(m.groups[group], name)
		rep.Groups = append(rep.Groups, GroupChange{Group: group, Member: name, Op: MemberAdded})
	}

	if _, ok := m.tracked[name]; ok {
		m.tracked[name] = data
		updated, err := m.plotter.UpdateTraceSeries(name, data)
		if err != nil {
			m.logger.Warn("tracked series has no trace", "name", name, "error", err)
			return
		}
		if updated {
			rep.Updated = append(rep.Updated, name)
		}
		return
	}

	m.tracked[name] = data
	m.plotter.AddTrace(name, data, group)
	rep.Created = append(rep.Created, name)
}

// delete removes a table and all its columns, or a single trace.
func (m *Model) delete(name string, rep *Report) {
	members, ok := m.groups[name]
	if !ok {
		m.deleteTrace(name, rep)
		return
	}
	for _, member := range members {
		_ = m.plotter.HideTrace(member)
		if _, tracked := m.tracked[member]; tracked {
			delete(m.tracked, member)
			rep.Removed = append(rep.Removed, member)
		}
		rep.Groups = append(rep.Groups, GroupChange{Group: name, Member: member, Op: MemberRemoved})
	}
	delete(m.groups, name)
}

// deleteTrace hides a trace and forgets it, leaving the Trace itself in the
// plotter so its colour is kept.
func (m *Model) deleteTrace(name string, rep *Report) {
	tr, ok := m.plotter.Trace(name)
	if ok {
		_ = m.plotter.HideTrace(name)
	}
	if _, tracked := m.tracked[name]; tracked {
		delete(m.tracked, name)
		rep.Removed = append(rep.Removed, name)
	}
	if !ok || tr.Group() == "" {
		return
	}

	group := tr.Group()
	members := m.groups[group]
	idx := slices.Index(members, name)
	if idx < 0 {
		return
	}
	members = slices.Delete(members, idx, idx+1)
	rep.Groups = append(rep.Groups, GroupChange{Group: group, Member: name, Op: MemberRemoved})
	if len(members) == 0 {
		delete(m.groups, group)
		return
	}
	m.groups[group] = members
}

// --- Commands ---

// forEach applies fn to every member of a table, or to the single trace.
// Unknown names are reported to the user.
func (m *Model) forEach(name string, fn func(trace string) error) {
	targets := []string{name}
	if members, ok := m.groups[name]; ok {
		targets = members
	}
	for _, t := range targets {
		if err := fn(t); err != nil {
			if errors.Is(err, ErrUnknownTrace) {
				m.toast.UnrecognisedVariable(name)
				return
			}
			m.logger.Error("graph command failed", "name", name, "error", err)
			return
		}
	}
}

// IgnoreVariable hides a variable, or every column of a table.
func (m *Model) IgnoreVariable(name string) {
	m.forEach(series.RemoveQuotes(name), m.plotter.HideTrace)
}

// ShowVariable pins a variable, or every column of a table, visible.
func (m *Model) ShowVariable(name string) {
	m.forEach(series.RemoveQuotes(name), m.plotter.ForceShowTrace)
}

// ChangeColour recolours a single trace.
func (m *Model) ChangeColour(name, c string) {
	name = series.RemoveQuotes(name)
	if err := m.plotter.UpdateTraceColour(name, series.RemoveQuotes(c)); err != nil {
		m.toast.UnrecognisedVariable(name)
	}
}

// RenameVariable sets a legend label. Renaming a table relabels each column
// by substituting the new table name into the column's name.
func (m *Model) RenameVariable(name, label string) {
	name, label = series.RemoveQuotes(name), series.RemoveQuotes(label)
	if _, ok := m.groups[name]; ok {
		m.forEach(name, func(trace string) error {
			return m.plotter.UpdateTraceLabel(trace, strings.ReplaceAll(trace, name, label))
		})
		return
	}
	if err := m.plotter.UpdateTraceLabel(name, label); err != nil {
		m.toast.UnrecognisedVariable(name)
	}
}

// SetPlotWidth sets the figure width, clamped to [MinWidth, MaxWidth].
func (m *Model) SetPlotWidth(w float64) {
	switch {
	case w < MinWidth:
		m.toast.Show(fmt.Sprintf("Figure width cannot be less than %d", MinWidth), toast.Info)
		w = MinWidth
	case w > MaxWidth:
		m.toast.Show(fmt.Sprintf("Figure width cannot be greater than %d", MaxWidth), toast.Info)
		w = MaxWidth
	}
	m.plotter.SetFigureWidth(w)
}

// SetPlotHeight sets the figure height, clamped to [MinHeight, MaxHeight].
func (m *Model) SetPlotHeight(h float64) {
	switch {
	case h < MinHeight:
		m.toast.Show(fmt.Sprintf("Figure height cannot be less than %d", MinHeight), toast.Info)
		h = MinHeight
	case h > MaxHeight:
		m.toast.Show(fmt.Sprintf("Figure height cannot be greater than %d", MaxHeight), toast.Info)
		h = MaxHeight
	}
	m.plotter.SetFigureHeight(h)
}

// SetYLabel sets the y axis label.
func (m *Model) SetYLabel(label string) { m.plotter.SetYLabel(series.RemoveQuotes(label)) }

// SetMaxSeriesLength sets the downsampling threshold.
func (m *Model) SetMaxSeriesLength(n int) { m.plotter.UpdateMaxSeriesLength(n) }

// Freeze stops new variables from being plotted.
func (m *Model) Freeze() { m.plotter.Freeze() }

// Defrost resumes plotting new variables.
func (m *Model) Defrost() { m.plotter.Defrost() }
