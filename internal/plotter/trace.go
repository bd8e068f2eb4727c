package plotter

import (
	"math"

	"github.com/gravitrone/autoplot/internal/colour"
	"github.com/gravitrone/autoplot/internal/metrics"
	"github.com/gravitrone/autoplot/internal/series"
	"github.com/gravitrone/autoplot/internal/toast"
)

// Trace is one plotted line: a named series plus its display attributes.
type Trace struct {
	toast   *toast.Toast
	metrics *metrics.Metrics

	name   string
	data   series.Data
	shown  series.Data
	group  string
	colour string
	label  string

	visible   bool
	maxLength int
	warned    bool
}

func newTrace(t *toast.Toast, m *metrics.Metrics, name string, data series.Data, index, maxLength int, visible bool, group string) *Trace {
	tr := &Trace{
		toast:     t,
		metrics:   m,
		name:      name,
		data:      data,
		group:     group,
		colour:    colour.Default(index),
		label:     name,
		visible:   visible,
		maxLength: maxLength,
	}
	tr.refresh()
	return tr
}

// --- Accessors ---

func (t *Trace) Name() string       { return t.name }
func (t *Trace) Group() string      { return t.group }
func (t *Trace) Colour() string     { return t.colour }
func (t *Trace) Label() string      { return t.label }
func (t *Trace) Visible() bool      { return t.visible }
func (t *Trace) MaxLength() int     { return t.maxLength }
func (t *Trace) Data() series.Data  { return t.data }
func (t *Trace) Shown() series.Data { return t.shown }

// Downsampled reports whether fewer points are displayed than stored.
func (t *Trace) Downsampled() bool { return t.warned }

// --- Updates ---

// UpdateSeries replaces the data. It returns false when nothing changed.
func (t *Trace) UpdateSeries(data series.Data) bool {
	if t.data.Equal(data) {
		return false
	}
	t.data = data
	t.refresh()
	return true
}

// UpdateMaxSeriesLength sets the downsampling threshold, 0 meaning never.
// It returns true when the displayed data changed as a result.
func (t *Trace) UpdateMaxSeriesLength(n int) bool {
	if n == t.maxLength {
		return false
	}
	old := t.maxLength
	t.maxLength = n
	if limit(old) >= len(t.data) && limit(n) >= len(t.data) {
		return false
	}
	t.refresh()
	return true
}

// UpdateColour sets the line colour. Invalid colours are reported and ignored.
func (t *Trace) UpdateColour(c string) bool {
	if !colour.Valid(c) {
		t.toast.InvalidColour(c)
		return false
	}
	if t.colour == c {
		return false
	}
	t.colour = c
	return true
}

// UpdateLabel sets the legend label.
func (t *Trace) UpdateLabel(label string) bool {
	if t.label == label {
		return false
	}
	t.label = label
	return true
}

// UpdateVisible shows or hides the trace.
func (t *Trace) UpdateVisible(visible bool) bool {
	if t.visible == visible {
		return false
	}
	t.visible = visible
	return true
}

// recreate resets a deleted trace that reappeared under the same name. The
// colour survives; everything else starts over.
func (t *Trace) recreate(data series.Data, group string, visible bool) {
	t.label = t.name
	t.group = group
	t.visible = visible
	t.UpdateSeries(data)
}

// refresh rebuilds the displayed data and fires the hysteresis notices.
func (t *Trace) refresh() {
	n := len(t.data)
	lim := limit(t.maxLength)
	if lim >= n {
		t.shown = t.data
		if t.warned {
			t.warned = false
			t.toast.NoDownsampleInfo(t.name)
			t.metrics.Downsampled(false)
		}
		return
	}

	t.shown = Downsample(t.data, lim)
	if !t.warned {
		t.warned = true
		t.toast.DownsampleWarning(t.name, n, lim)
		t.metrics.Downsampled(true)
	}
}

func limit(maxLength int) int {
	if maxLength <= 0 {
		return math.MaxInt
	}
	return maxLength
}

// Downsample picks size evenly spaced points of data, always keeping the
// first and last. Positions are rounded half to even.
func Downsample(data series.Data, size int) series.Data {
	n := len(data)
	if size <= 0 || size >= n {
		return data
	}
	if size == 1 {
		return series.Data{data[0]}
	}
	out := make(series.Data, size)
	den := size - 1
	for i := range out {
		num := i * (n - 1)
		q, r := num/den, num%den
		switch {
		case 2*r > den:
			q++
		case 2*r == den && q%2 == 1:
			q++
		}
		out[i] = data[q]
	}
	return out
}
