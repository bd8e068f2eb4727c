package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/autoplot/internal/display"
	"github.com/gravitrone/autoplot/internal/plotter"
	"github.com/gravitrone/autoplot/internal/series"
	"github.com/gravitrone/autoplot/internal/toast"
)

type fakeView struct {
	updates []series.Snapshot
	draws   []bool
}

func (f *fakeView) UpdateVariables(s series.Snapshot) { f.updates = append(f.updates, s) }

func (f *fakeView) Draw(force bool, _ *display.Output) { f.draws = append(f.draws, force) }

type ignoringView struct {
	fakeView
	ignored []string
}

func (v *ignoringView) IgnoreVariable(name string) { v.ignored = append(v.ignored, name) }

func newTestManager(t *testing.T, active string, entries ...Entry) (*Manager, *toast.Recorder) {
	t.Helper()
	rec := &toast.Recorder{}
	m, err := NewManager(display.NewOutput(), toast.New(rec, nil), nil, active, entries...)
	require.NoError(t, err)
	return m, rec
}

func timeSeries(n int) *series.Series {
	s := &series.Series{}
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.Index = append(s.Index, start.Add(time.Duration(i)*time.Hour))
		s.Values = append(s.Values, i)
	}
	return s
}

func TestNewManagerRejectsUnknownActive(t *testing.T) {
	_, err := NewManager(display.NewOutput(), toast.New(nil, nil), nil, "nope", Entry{Name: "a", View: &fakeView{}})
	assert.ErrorIs(t, err, ErrUnknownView)

	_, err = NewManager(display.NewOutput(), toast.New(nil, nil), nil, "a",
		Entry{Name: "a", View: &fakeView{}}, Entry{Name: "a", View: &fakeView{}})
	assert.Error(t, err)
}

func TestRedrawForcesOnlyAfterViewChange(t *testing.T) {
	a, b := &fakeView{}, &fakeView{}
	m, _ := newTestManager(t, "a", Entry{Name: "a", View: a}, Entry{Name: "b", View: b})
	empty := series.ProviderFunc(func() series.Snapshot { return nil })

	require.NoError(t, m.Redraw(empty))
	require.NoError(t, m.Redraw(empty))
	assert.Equal(t, []bool{true, false}, a.draws)

	require.NoError(t, m.SetActive("a"))
	require.NoError(t, m.Redraw(empty))
	assert.Equal(t, []bool{true, false, false}, a.draws)

	require.NoError(t, m.SetActive("b"))
	require.NoError(t, m.Redraw(empty))
	assert.Equal(t, []bool{true}, b.draws)
	assert.Len(t, a.draws, 3)

	assert.ErrorIs(t, m.SetActive("c"), ErrUnknownView)
	assert.Equal(t, "b", m.Active())
}

func TestRedrawFiltersNamespace(t *testing.T) {
	v := &fakeView{}
	m, _ := newTestManager(t, "v", Entry{Name: "v", View: v})
	m.Reserve("secret")
	s := timeSeries(3)

	provider := series.ProviderFunc(func() series.Snapshot {
		return series.Snapshot{
			{Name: "x", Value: s},
			{Name: "_hidden", Value: s},
			{Name: "Out", Value: s},
			{Name: "secret", Value: s},
			{Name: "n", Value: 3},
		}
	})
	require.NoError(t, m.Redraw(provider))
	require.Len(t, v.updates, 1)
	assert.Equal(t, []string{"x"}, v.updates[0].Names())
}

func TestRedrawRejectsDuplicateNames(t *testing.T) {
	v := &fakeView{}
	m, _ := newTestManager(t, "v", Entry{Name: "v", View: v})
	dup := series.ProviderFunc(func() series.Snapshot {
		return series.Snapshot{{Name: "x"}, {Name: "x"}}
	})

	err := m.Redraw(dup)
	assert.ErrorIs(t, err, series.ErrDuplicateName)
	assert.Empty(t, v.updates)
}

func TestPostRunCellSkipsFailedCells(t *testing.T) {
	v := &fakeView{}
	m, _ := newTestManager(t, "v", Entry{Name: "v", View: v})
	empty := series.ProviderFunc(func() series.Snapshot { return nil })

	require.NoError(t, m.PostRunCell(ExecutionResult{Success: false}, empty))
	assert.Empty(t, v.draws)
	require.NoError(t, m.PostRunCell(ExecutionResult{Success: true}, empty))
	assert.Len(t, v.draws, 1)
}

func TestUnsupportedCommandsWarn(t *testing.T) {
	m, rec := newTestManager(t, "plain", Entry{Name: "plain", View: &fakeView{}})

	m.IgnoreVariable("x")
	m.ShowVariable("x")
	m.ChangeColour("x", "red")
	m.RenameVariable("x", "y")
	m.Freeze()
	m.Defrost()
	m.SetMaxSeriesLength(5)
	m.SetYLabel("y")
	m.SetPlotHeight(5)
	m.SetPlotWidth(10)

	assert.Equal(t, []string{
		"plain does not implement ignoring variables",
		"plain does not implement showing variables",
		"plain does not implement changing colours",
		"plain does not implement variable renaming",
		"plain does not implement freeze",
		"plain does not implement defrost",
		"plain does not implement max series length",
		"plain does not implement changing ylabel",
		"plain does not implement setting the plot height",
		"plain does not implement setting the plot width",
	}, rec.Texts(toast.Warning))
}

func TestCommandsRouteToActiveViewOnly(t *testing.T) {
	a, b := &ignoringView{}, &ignoringView{}
	m, _ := newTestManager(t, "a", Entry{Name: "a", View: a}, Entry{Name: "b", View: b})

	m.IgnoreVariable("x")
	require.NoError(t, m.SetActive("b"))
	m.IgnoreVariable("y")

	assert.Equal(t, []string{"x"}, a.ignored)
	assert.Equal(t, []string{"y"}, b.ignored)
}

func TestGraphModelImplementsEveryCapability(t *testing.T) {
	tst := toast.New(nil, nil)
	var v View = plotter.NewModel(plotter.New(tst), tst, nil, nil)

	_, ok := v.(Ignorer)
	assert.True(t, ok)
	_, ok = v.(Shower)
	assert.True(t, ok)
	_, ok = v.(Recolourer)
	assert.True(t, ok)
	_, ok = v.(Renamer)
	assert.True(t, ok)
	_, ok = v.(Freezer)
	assert.True(t, ok)
	_, ok = v.(MaxLengthSetter)
	assert.True(t, ok)
	_, ok = v.(YLabelSetter)
	assert.True(t, ok)
	_, ok = v.(Resizer)
	assert.True(t, ok)
}

func TestGraphRedrawEndToEnd(t *testing.T) {
	rec := &toast.Recorder{}
	tst := toast.New(rec, nil)
	model := plotter.NewModel(plotter.New(tst), tst, nil, nil)
	out := display.NewOutput()
	m, err := NewManager(out, tst, nil, "graph", Entry{Name: "graph", View: model})
	require.NoError(t, err)

	s := timeSeries(5)
	provider := series.ProviderFunc(func() series.Snapshot {
		return series.Snapshot{{Name: "x", Value: s}}
	})
	require.NoError(t, m.Redraw(provider))
	assert.Equal(t, display.KindChart, out.Current().Kind)
	assert.Equal(t, []string{"x"}, model.Plotter().Visible())

	m.ChangeColour("x", "nope")
	assert.Equal(t, []string{"'nope' is not a valid colour."}, rec.Texts(toast.Error))
}
