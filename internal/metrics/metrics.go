package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors of the tracker.
type Metrics struct {
	// Period lifecycle
	PeriodEventsTotal *prometheus.CounterVec

	// Average estimation
	EstimationsTotal     *prometheus.CounterVec
	PersistFailuresTotal prometheus.Counter
	InferredChangesTotal *prometheus.CounterVec
	StoreErrorsTotal     *prometheus.CounterVec
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec

	SnapshotDuration prometheus.Histogram
}

// NewMetrics registers the collectors on the default registry.
//
// Registration happens once per process; later calls return the same instance.
//
// Metrics:
//   - cycletrack_period_events_total{event} - period starts, ends and auto-closes
//   - cycletrack_estimations_total{source} - average resolutions by source
//   - cycletrack_estimate_persist_failures_total - failed best-effort average writes
//   - cycletrack_inferred_period_changes_total{change} - period changes derived from daily logs
//   - cycletrack_store_errors_total{kind} - store failures by kind
//   - cycletrack_http_requests_total{method,route,status}
//   - cycletrack_http_request_duration_seconds{method,route}
//   - cycletrack_snapshot_duration_seconds - time to load and compute a cycle snapshot
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			PeriodEventsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cycletrack_period_events_total",
					Help: "Total number of period lifecycle events",
				},
				[]string{"event"}, // "start", "end", "auto_close", "reopen"
			),
			EstimationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cycletrack_estimations_total",
					Help: "Total number of cycle average resolutions",
				},
				[]string{"source"},
			),
			PersistFailuresTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "cycletrack_estimate_persist_failures_total",
					Help: "Total number of failed writes of estimated averages",
				},
			),
			InferredChangesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cycletrack_inferred_period_changes_total",
					Help: "Total number of period changes inferred from daily logs",
				},
				[]string{"change"},
			),
			StoreErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cycletrack_store_errors_total",
					Help: "Total number of store failures",
				},
				[]string{"kind"}, // "unavailable", "write"
			),
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cycletrack_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "cycletrack_http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
				},
				[]string{"method", "route"},
			),
			SnapshotDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "cycletrack_snapshot_duration_seconds",
					Help:    "Duration of cycle snapshot computation in seconds",
					Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
				},
			),
		}
	})
	return globalMetrics
}

// The Record helpers accept a nil receiver so callers can run without metrics.

func (m *Metrics) RecordPeriodEvent(event string) {
	if m == nil {
		return
	}
	m.PeriodEventsTotal.WithLabelValues(event).Inc()
}

func (m *Metrics) RecordEstimation(source string) {
	if m == nil {
		return
	}
	m.EstimationsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordPersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailuresTotal.Inc()
}

func (m *Metrics) RecordInferredChange(change string) {
	if m == nil {
		return
	}
	m.InferredChangesTotal.WithLabelValues(change).Inc()
}

func (m *Metrics) RecordStoreError(kind string) {
	if m == nil {
		return
	}
	m.StoreErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveRequest(method string, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSnapshot(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SnapshotDuration.Observe(elapsed.Seconds())
}
