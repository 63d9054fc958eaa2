// Package metrics provides Prometheus metrics for the BEFA admin client.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "befa"
	defaultSubsystem = "admin_client"
)

// Manager manages all Prometheus metrics for the admin client.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// API traffic
	apiRequests        *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	apiErrors          *prometheus.CounterVec
	apiInFlight        prometheus.Gauge

	// Session lifecycle
	sessionEvictions prometheus.Counter
	sessionWrites    *prometheus.CounterVec

	// Uploads
	uploads     *prometheus.CounterVec
	uploadBytes prometheus.Histogram

	// Query/mutation state
	stateTransitions *prometheus.CounterVec
	staleDiscarded   prometheus.Counter
	mutations        *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.apiRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "api_requests_total",
		Help:        "Total number of backend API requests by endpoint, method and status code",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.apiRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "api_request_duration_milliseconds",
		Help:        "Backend API request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.apiErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "api_errors_total",
		Help:        "Backend API failures by error class and severity",
		ConstLabels: labels,
	}, []string{"class", "severity"})

	m.apiInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "api_requests_in_flight",
		Help:        "Backend API requests currently in flight",
		ConstLabels: labels,
	})

	m.sessionEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "session_evictions_total",
		Help:        "Sessions cleared after an unauthenticated response",
		ConstLabels: labels,
	})

	m.sessionWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "session_writes_total",
		Help:        "Session store writes by backend and operation",
		ConstLabels: labels,
	}, []string{"backend", "op"})

	m.uploads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "uploads_total",
		Help:        "Multipart uploads by endpoint and outcome",
		ConstLabels: labels,
	}, []string{"endpoint", "outcome"})

	m.uploadBytes = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "upload_size_bytes",
		Help:        "Size of multipart upload bodies in bytes",
		Buckets:     prometheus.ExponentialBuckets(1024, 4, 8),
		ConstLabels: labels,
	})

	m.stateTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "query_state_transitions_total",
		Help:        "Query state transitions by query name and resulting status",
		ConstLabels: labels,
	}, []string{"query", "status"})

	m.staleDiscarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "query_stale_responses_discarded_total",
		Help:        "Query responses dropped because a newer request was issued",
		ConstLabels: labels,
	})

	m.mutations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "mutations_total",
		Help:        "Mutations by name and outcome",
		ConstLabels: labels,
	}, []string{"mutation", "outcome"})
}

// RecordAPIRequest records one completed backend request.
func RecordAPIRequest(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.apiRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.apiRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordAPIError records a normalized failure by class and severity.
func RecordAPIError(class, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.apiErrors.WithLabelValues(class, severity).Inc()
}

// IncInFlight marks a request as started.
func IncInFlight() { globalManager.apiInFlight.Inc() }

// DecInFlight marks a request as finished.
func DecInFlight() { globalManager.apiInFlight.Dec() }

// RecordSessionEviction counts a session cleared after a 401.
func RecordSessionEviction() {
	globalManager.sessionEvictions.Inc()
}

// RecordSessionWrite counts a session store write ("set" or "clear").
func RecordSessionWrite(backend, op string) {
	globalManager.sessionWrites.WithLabelValues(backend, op).Inc()
}

// RecordUpload records an upload outcome and its size.
func RecordUpload(endpoint, outcome string, sizeBytes int) {
	globalManager.uploads.WithLabelValues(endpoint, outcome).Inc()
	if sizeBytes > 0 {
		globalManager.uploadBytes.Observe(float64(sizeBytes))
	}
}

// RecordStateTransition records a query settling into a status.
func RecordStateTransition(query, status string) {
	globalManager.stateTransitions.WithLabelValues(query, status).Inc()
}

// RecordStaleDiscarded counts a dropped out-of-order query response.
func RecordStaleDiscarded() {
	globalManager.staleDiscarded.Inc()
}

// RecordMutation records a mutation outcome ("ok" or "error").
func RecordMutation(name, outcome string) {
	globalManager.mutations.WithLabelValues(name, outcome).Inc()
}

// SetEnabled toggles request recording on the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the current metric values for a node-exporter textfile collector.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrObserveFailed, err)
	}
	return nil
}

// Since returns elapsed milliseconds, the unit used by every latency metric here.
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
