package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by the engine.
type Metrics struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	states   prometheus.Counter
	changes  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "itfview_renders_total",
				Help: "Total number of render passes",
			},
			[]string{"mode"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "itfview_render_duration_seconds",
				Help:    "Duration of render passes",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"mode"},
		),
		states: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "itfview_rendered_states_total",
				Help: "Total number of states rendered",
			},
		),
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "itfview_changed_cells_total",
				Help: "Cells whose value differs from the previous state, by marker",
			},
			[]string{"marker"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.renders, m.duration, m.states, m.changes)
	}
	return m
}

// ObserveRender records one render pass.
func (m *Metrics) ObserveRender(mode string, elapsed time.Duration, states int) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(mode).Inc()
	m.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	m.states.Add(float64(states))
}

// ObserveChange records one differing cell under the given marker.
func (m *Metrics) ObserveChange(marker string) {
	if m == nil {
		return
	}
	m.changes.WithLabelValues(marker).Inc()
}
