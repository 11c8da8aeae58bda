package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	require.NoError(t, m.Track("sweep").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("sweep").End(boom), boom)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("sweep", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("sweep", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("sweep")))
}

func TestAddOverdueIgnoresEmptySweeps(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.AddOverdue(0)
	m.AddOverdue(3)
	m.AddOverdue(-1)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.overdue))
}

func TestNilMetricsTracker(t *testing.T) {
	var m *Metrics
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("sweep").End(boom), boom)
	assert.NotPanics(t, func() { m.AddOverdue(2) })
}
