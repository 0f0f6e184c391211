package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Action metrics
	ActionsTotal   *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec
	ActionErrors   *prometheus.CounterVec

	// Dispatch metrics
	DispatchTotal *prometheus.CounterVec
	InFlight      prometheus.Gauge

	// Transfer metrics
	TransferBytes *prometheus.CounterVec

	// Snapshot for quick reads - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values
type MetricsSnapshot struct {
	TotalActions  int64
	TotalFailures int64
	TotalSkipped  int64
	TotalDuration float64 // sum of all action durations in seconds
	BytesSent     int64
	BytesReceived int64
}

// AverageDuration returns the mean action duration in seconds
func (s MetricsSnapshot) AverageDuration() float64 {
	completed := s.TotalActions - s.TotalSkipped
	if completed <= 0 {
		return 0
	}
	return s.TotalDuration / float64(completed)
}

// NewMetrics creates a collector on its own registry
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry registers every metric on reg
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Action metrics
		ActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionkit_actions_total",
				Help: "Total number of executed actions by outcome",
			},
			[]string{"action", "method", "outcome"},
		),
		ActionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actionkit_action_duration_seconds",
				Help:    "Action duration from dispatch to completion in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"action", "method"},
		),
		ActionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionkit_action_errors_total",
				Help: "Total number of failed actions by error kind",
			},
			[]string{"action", "kind"},
		),

		// Dispatch metrics
		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionkit_dispatch_total",
				Help: "Total number of HTTP dispatches by status",
			},
			[]string{"method", "status"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "actionkit_dispatch_in_flight",
				Help: "Number of dispatches waiting for a response",
			},
		),

		// Transfer metrics
		TransferBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionkit_transfer_bytes_total",
				Help: "Bytes transferred by direction",
			},
			[]string{"direction"},
		),
	}
}

// Registry returns the registry the metrics live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in Prometheus format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAction records one finished action. Skipped actions carry no duration.
func (m *Metrics) RecordAction(action, method, outcome string, duration time.Duration) {
	m.ActionsTotal.WithLabelValues(action, method, outcome).Inc()
	if outcome != OutcomeSkipped {
		m.ActionDuration.WithLabelValues(action, method).Observe(duration.Seconds())
	}

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalActions++
	switch outcome {
	case OutcomeFailed:
		m.snapshot.TotalFailures++
	case OutcomeSkipped:
		m.snapshot.TotalSkipped++
	}
	if outcome != OutcomeSkipped {
		m.snapshot.TotalDuration += duration.Seconds()
	}
	m.mu.Unlock()
}

// RecordError records a classified failure
func (m *Metrics) RecordError(action, kind string) {
	m.ActionErrors.WithLabelValues(action, kind).Inc()
}

// RecordDispatch records a dispatch outcome, status "error" when no response arrived
func (m *Metrics) RecordDispatch(method, status string) {
	m.DispatchTotal.WithLabelValues(method, status).Inc()
}

// AddTransfer adds transferred bytes for direction ("upload" or "download")
func (m *Metrics) AddTransfer(direction string, n int64) {
	if n <= 0 {
		return
	}
	m.TransferBytes.WithLabelValues(direction).Add(float64(n))

	m.mu.Lock()
	if direction == "upload" {
		m.snapshot.BytesSent += n
	} else {
		m.snapshot.BytesReceived += n
	}
	m.mu.Unlock()
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
