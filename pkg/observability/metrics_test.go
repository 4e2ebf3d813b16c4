package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRender(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg)

	m.ObserveRender("single", 2*time.Millisecond, 3)
	m.ObserveRender("single", time.Millisecond, 3)
	m.ObserveRender("chained", time.Millisecond, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.renders.WithLabelValues("single")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("chained")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.states))

	n, err := testutil.GatherAndCount(reg, "itfview_render_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one histogram series per mode")
}

func TestMetrics_ObserveChange(t *testing.T) {
	m := NewMetrics(nil)

	m.ObserveChange("newElement")
	m.ObserveChange("newElement")
	m.ObserveChange("reducedElements")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.changes.WithLabelValues("newElement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.changes.WithLabelValues("reducedElements")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRender("single", time.Second, 1)
		m.ObserveChange("newElement")
	})
}
