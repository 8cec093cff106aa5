// Package metrics provides Prometheus metrics for the benchtrack pipeline and
// its read API.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "benchtrack"
	defaultSubsystem = "pipeline"
	pushJobName      = "benchtrack_update"
)

// Manager manages all Prometheus metrics for the benchtrack service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Run Metrics - one observation per pipeline run
	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	lastSuccessUnix prometheus.Gauge
	archiveBytes    prometheus.Gauge

	// File and Row Metrics - data quality of the upstream archive
	filesTotal   *prometheus.CounterVec
	rowsDropped  *prometheus.CounterVec
	rowsAccepted prometheus.Counter

	// Sink Metrics
	rowsUpserted  prometheus.Counter
	upsertLatency prometheus.Histogram
	upsertErrors  prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // metric declarations
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Pipeline runs by outcome (success, download_error, upsert_error, error)",
	}, []string{"outcome"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a full pipeline run",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	})

	m.lastSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_success_unix",
		Help:      "Unix time of the last successful run",
	})

	m.archiveBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_bytes",
		Help:      "Size of the last downloaded archive",
	})

	m.filesTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_total",
		Help:      "Benchmark files seen per run by processing status",
	}, []string{"benchmark", "status"})

	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_dropped_total",
		Help:      "CSV rows excluded during normalization by reason",
	}, []string{"benchmark", "reason"})

	m.rowsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_accepted_total",
		Help:      "CSV rows that produced a normalized point",
	})

	m.rowsUpserted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_upserted_total",
		Help:      "Score rows written to the store",
	})

	m.upsertLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upsert_latency_milliseconds",
		Help:      "Latency of the final store upsert",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	m.upsertErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upsert_errors_total",
		Help:      "Failed store upserts",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "HTTP error responses by endpoint, type and severity",
		},
		[]string{"endpoint", "method", "error_type", "severity"},
	)
}

// Run Metrics Functions.

// RecordRun records the outcome and duration of one pipeline run.
func RecordRun(outcome string, duration time.Duration) {
	globalManager.runsTotal.WithLabelValues(outcome).Inc()
	globalManager.runDuration.Observe(duration.Seconds())
}

// SetLastSuccess records the completion time of a successful run.
func SetLastSuccess(t time.Time) {
	globalManager.lastSuccessUnix.Set(float64(t.Unix()))
}

// SetArchiveBytes records the size of the downloaded archive.
func SetArchiveBytes(n int64) {
	globalManager.archiveBytes.Set(float64(n))
}

// File and Row Metrics Functions.

// RecordFile counts a benchmark file with its processing status.
func RecordFile(benchmark, status string) {
	globalManager.filesTotal.WithLabelValues(benchmark, status).Inc()
}

// RecordRowsDropped adds n dropped rows for the given reason.
func RecordRowsDropped(benchmark, reason string, n int) {
	if n <= 0 {
		return
	}
	globalManager.rowsDropped.WithLabelValues(benchmark, reason).Add(float64(n))
}

// RecordRowsAccepted adds n accepted rows.
func RecordRowsAccepted(n int) {
	if n <= 0 {
		return
	}
	globalManager.rowsAccepted.Add(float64(n))
}

// Sink Metrics Functions.

// RecordUpsert records a finished upsert of n rows.
func RecordUpsert(n int, latency time.Duration, err error) {
	globalManager.upsertLatency.Observe(float64(latency.Milliseconds()))
	if err != nil {
		globalManager.upsertErrors.Inc()
		return
	}
	globalManager.rowsUpserted.Add(float64(n))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType, severity).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Push sends the current registry contents to a Prometheus Pushgateway.
// Batch runs exit before a scrape could happen, so they push instead.
func Push(ctx context.Context, gatewayURL, instance string) error {
	if gatewayURL == "" {
		return nil
	}
	pusher := push.New(gatewayURL, pushJobName).Gatherer(customRegistry)
	if instance != "" {
		pusher = pusher.Grouping("instance", instance)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrPush, err)
	}
	return nil
}
