package session

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/autoplot/internal/config"
	"github.com/gravitrone/autoplot/internal/display"
	"github.com/gravitrone/autoplot/internal/dtaler"
	"github.com/gravitrone/autoplot/internal/series"
	"github.com/gravitrone/autoplot/internal/view"
)

type staticNamespace struct {
	snap series.Snapshot
}

func (n *staticNamespace) Snapshot() series.Snapshot { return n.snap }

func timeSeries(n int) *series.Series {
	s := &series.Series{}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.Index = append(s.Index, start.Add(time.Duration(i)*time.Hour))
		s.Values = append(s.Values, float64(i*i))
	}
	return s
}

func TestNewRequiresNamespace(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Width = 100
	_, err := New(Options{Namespace: &staticNamespace{}, Config: cfg})
	assert.Error(t, err)
}

func TestNewAppliesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 8, 5
	cfg.YLabel = "kW"
	cfg.MaxSeriesLength = 50
	cfg.DefaultView = ViewDtale
	cfg.Reserved = []string{"secret"}
	cfg.SettleMS = 0

	ns := &staticNamespace{snap: series.Snapshot{
		{Name: "x", Value: timeSeries(4)},
		{Name: "secret", Value: timeSeries(4)},
	}}
	s, err := New(Options{Namespace: ns, Config: cfg, Store: dtaler.NewMemoryStore()})
	require.NoError(t, err)

	assert.Equal(t, []string{ViewGraph, ViewDtale}, s.Manager.Names())
	assert.Equal(t, ViewDtale, s.Manager.Active())
	p := s.Graph.Plotter()
	w, h := p.FigureSize()
	assert.Equal(t, 8.0, w)
	assert.Equal(t, 5.0, h)
	assert.Equal(t, "kW", p.YLabel())
	assert.Equal(t, 50, p.MaxSeriesLength())

	require.NoError(t, s.Redraw())
	assert.Equal(t, []string{"x"}, s.Dtale.TrackedNames())
	assert.Equal(t, display.KindTable, s.Output.Current().Kind)
}

func TestPostRunCellDrivesActiveView(t *testing.T) {
	ns := &staticNamespace{snap: series.Snapshot{{Name: "x", Value: timeSeries(6)}}}
	var events bytes.Buffer
	s, err := New(Options{Namespace: ns, Events: &events})
	require.NoError(t, err)

	require.NoError(t, s.PostRunCell(view.ExecutionResult{Success: true}))
	assert.Equal(t, []string{"x"}, s.Graph.Plotter().Visible())
	assert.Equal(t, display.KindChart, s.Output.Current().Kind)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.VisibleTraces))

	s.Manager.ChangeColour("x", "nope")
	assert.Equal(t, []string{"'nope' is not a valid colour."}, s.Toasts.Texts(""))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(events.Bytes()), &line))
	assert.Equal(t, "autoplot-toast", line["event"])
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.NotificationsTotal.WithLabelValues("error")))
}

func TestSessionsAreIndependent(t *testing.T) {
	ns := &staticNamespace{snap: series.Snapshot{{Name: "x", Value: timeSeries(3)}}}
	a, err := New(Options{Namespace: ns})
	require.NoError(t, err)
	b, err := New(Options{Namespace: ns})
	require.NoError(t, err)

	require.NoError(t, a.Redraw())
	a.Manager.Freeze()

	assert.Equal(t, []string{"x"}, a.Graph.Plotter().Visible())
	assert.Empty(t, b.Graph.Plotter().Visible())
	assert.False(t, b.Graph.Plotter().Frozen())
	assert.NotEqual(t, a.Output.UUID(), b.Output.UUID())
}
