package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTrials(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTrials("equal", 3, 10)
	m.ObserveTrials("equal", 1, 2)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.TrialsTotal.WithLabelValues("equal", "win")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.TrialsTotal.WithLabelValues("equal", "loss")))
}

func TestObserveEstimate(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveEstimate("reduced", 0.79, 0.016, 250*time.Millisecond)

	assert.InDelta(t, 0.79, testutil.ToFloat64(m.WinProportion.WithLabelValues("reduced")), 1e-12)
	assert.InDelta(t, 0.016, testutil.ToFloat64(m.IntervalWidth.WithLabelValues("reduced")), 1e-12)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestIncrementComparison(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementComparison("overlap")
	m.IncrementComparison("separated")
	m.IncrementComparison("separated")
	m.IncrementComparison("inconclusive")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Comparisons.WithLabelValues("overlap")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Comparisons.WithLabelValues("separated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Comparisons.WithLabelValues("inconclusive")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveTrials("x", 1, 1)
		m.ObserveEstimate("x", 0.5, 0.1, time.Second)
		m.IncrementComparison("overlap")
	})
}

func TestNewRegistersEveryCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveTrials("s", 1, 1)
	m.ObserveEstimate("s", 1, 0, time.Millisecond)
	m.IncrementComparison("separated")

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}
