// Package metrics counts reconciliation activity for a single session.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gravitrone/autoplot/internal/toast"
)

const namespace = "autoplot"

// Metrics holds the session counters. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	CyclesTotal        *prometheus.CounterVec
	EntitiesTotal      *prometheus.CounterVec
	DownsampleTotal    *prometheus.CounterVec
	StoreErrorsTotal   *prometheus.CounterVec
	DesyncsTotal       prometheus.Counter
	NotificationsTotal *prometheus.CounterVec
	VisibleTraces      prometheus.Gauge
}

// New registers a fresh set of counters on a private registry, so several
// sessions can live in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		CyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_cycles_total",
			Help:      "Reconciliation cycles run, by view",
		}, []string{"view"}),
		EntitiesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_total",
			Help:      "Entity lifecycle events, by view and operation",
		}, []string{"view", "op"}),
		DownsampleTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downsample_transitions_total",
			Help:      "Traces entering or leaving the downsampled state",
		}, []string{"transition"}),
		StoreErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Failed external store calls, by operation",
		}, []string{"op"}),
		DesyncsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "desyncs_total",
			Help:      "Tracked tables deleted from the store behind our back",
		}),
		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Toasts shown, by type",
		}, []string{"type"}),
		VisibleTraces: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visible_traces",
			Help:      "Traces currently drawn on the graph",
		}),
	}
}

// Entity lifecycle operations.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpRemoved = "removed"
	OpHidden  = "hidden"
)

// Cycle records one reconciliation run of view.
func (m *Metrics) Cycle(view string) {
	if m == nil {
		return
	}
	m.CyclesTotal.WithLabelValues(view).Inc()
}

// Entities adds n lifecycle events of the given op.
func (m *Metrics) Entities(view, op string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.EntitiesTotal.WithLabelValues(view, op).Add(float64(n))
}

// Downsampled records a trace entering (true) or leaving (false) downsampling.
func (m *Metrics) Downsampled(entered bool) {
	if m == nil {
		return
	}
	label := "left"
	if entered {
		label = "entered"
	}
	m.DownsampleTotal.WithLabelValues(label).Inc()
}

// StoreError records a failed store call.
func (m *Metrics) StoreError(op string) {
	if m == nil {
		return
	}
	m.StoreErrorsTotal.WithLabelValues(op).Inc()
}

// Desync records a tracked table vanishing from the store.
func (m *Metrics) Desync() {
	if m == nil {
		return
	}
	m.DesyncsTotal.Inc()
}

// SetVisible sets the visible trace gauge.
func (m *Metrics) SetVisible(n int) {
	if m == nil {
		return
	}
	m.VisibleTraces.Set(float64(n))
}

// ToastSink counts every toast passing through it.
func (m *Metrics) ToastSink() toast.Sink {
	return toast.SinkFunc(func(msg toast.Message) {
		if m == nil {
			return
		}
		m.NotificationsTotal.WithLabelValues(string(msg.Type)).Inc()
	})
}
