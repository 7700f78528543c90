// Package metrics provides Prometheus metrics for push broadcasts and inbox writes.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors exported by the notification engine
type Metrics struct {
	PushSendsTotal         *prometheus.CounterVec // status: success, failure
	BroadcastCyclesTotal   *prometheus.CounterVec // outcome: completed, no_recipients, no_content, failed, panicked
	BroadcastCycleDuration prometheus.Histogram   // full resolve→dispatch duration
	BroadcastSkippedTicks  prometheus.Counter     // ticks suppressed because a cycle was running
	BroadcastRunning       prometheus.Gauge       // 1 while a cycle is in flight
	InboxMessagesCreated   *prometheus.CounterVec // kind: targeted, broadcast

	registry *prometheus.Registry
}

// New creates and registers all collectors on registry
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.init()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register notification metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) init() {
	m.PushSendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_push_sends_total",
			Help: "Push sends attempted by the dispatcher, by status",
		},
		[]string{"status"},
	)
	m.BroadcastCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_broadcast_cycles_total",
			Help: "Broadcast cycles executed, by outcome",
		},
		[]string{"outcome"},
	)
	m.BroadcastCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notify_broadcast_cycle_duration_seconds",
			Help:    "Duration of a broadcast cycle",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
	m.BroadcastSkippedTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_broadcast_skipped_ticks_total",
			Help: "Scheduler ticks skipped because a cycle was still running",
		},
	)
	m.BroadcastRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_broadcast_running",
			Help: "1 while a broadcast cycle is in flight",
		},
	)
	m.InboxMessagesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_inbox_messages_created_total",
			Help: "Inbox rows created, by send kind",
		},
		[]string{"kind"},
	)
}

// Describe implements prometheus.Collector
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.PushSendsTotal.Describe(ch)
	m.BroadcastCyclesTotal.Describe(ch)
	m.BroadcastCycleDuration.Describe(ch)
	m.BroadcastSkippedTicks.Describe(ch)
	m.BroadcastRunning.Describe(ch)
	m.InboxMessagesCreated.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.PushSendsTotal.Collect(ch)
	m.BroadcastCyclesTotal.Collect(ch)
	m.BroadcastCycleDuration.Collect(ch)
	m.BroadcastSkippedTicks.Collect(ch)
	m.BroadcastRunning.Collect(ch)
	m.InboxMessagesCreated.Collect(ch)
}

// Registry returns the registry the metrics were registered on
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// The helpers below are nil-safe so components can run without metrics.

func (m *Metrics) RecordSends(attempted, failed int) {
	if m == nil {
		return
	}
	m.PushSendsTotal.WithLabelValues("success").Add(float64(attempted - failed))
	m.PushSendsTotal.WithLabelValues("failure").Add(float64(failed))
}

func (m *Metrics) RecordCycle(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.BroadcastCyclesTotal.WithLabelValues(outcome).Inc()
	m.BroadcastCycleDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordSkippedTick() {
	if m == nil {
		return
	}
	m.BroadcastSkippedTicks.Inc()
}

func (m *Metrics) SetRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.BroadcastRunning.Set(1)
		return
	}
	m.BroadcastRunning.Set(0)
}

func (m *Metrics) RecordInboxCreated(kind string, count int) {
	if m == nil {
		return
	}
	m.InboxMessagesCreated.WithLabelValues(kind).Add(float64(count))
}
