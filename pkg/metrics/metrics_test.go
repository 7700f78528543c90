package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSends(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordSends(5, 2)

	assert.InDelta(t, 3, testutil.ToFloat64(m.PushSendsTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.PushSendsTotal.WithLabelValues("failure")), 0)
}

func TestRecordCycleAndRunning(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.SetRunning(true)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BroadcastRunning), 0)
	m.RecordCycle("completed", 150*time.Millisecond)
	m.SetRunning(false)

	assert.InDelta(t, 1, testutil.ToFloat64(m.BroadcastCyclesTotal.WithLabelValues("completed")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.BroadcastRunning), 0)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSends(1, 0)
		m.RecordCycle("failed", time.Second)
		m.RecordSkippedTick()
		m.SetRunning(true)
		m.RecordInboxCreated("broadcast", 10)
	})
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}
