// Package metrics provides Prometheus metrics for the rift voice backend.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup outcomes.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheLoaded = "loaded"
)

// Refresh job outcomes.
const (
	JobOK        = "ok"
	JobFailed    = "error"
	JobDuplicate = "duplicate"
	JobDropped   = "dropped"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Ranking core
	rankRequests   *prometheus.CounterVec
	rankShortfalls *prometheus.CounterVec
	rankSelected   prometheus.Histogram
	resolverResult *prometheus.CounterVec

	// Cache
	cacheLookups *prometheus.CounterVec
	cacheEntries prometheus.Gauge

	// Refresh pipeline
	refreshJobs    *prometheus.CounterVec
	refreshLatency *prometheus.HistogramVec

	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	workerCount             prometheus.Gauge
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Upstream APIs
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	// Repository
	repositoryQueryLatency *prometheus.HistogramVec
	repositoryErrors       *prometheus.CounterVec

	errorsByComponent *prometheus.CounterVec
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
		namespace:        "rift",
		subsystem:        "voice",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.rankRequests = m.counterVec("rank_requests_total",
		"Ranked-list queries by endpoint and direction", "endpoint", "direction")
	m.rankShortfalls = m.counterVec("rank_shortfalls_total",
		"Ranked-list answers that returned fewer items than requested", "endpoint", "kind")
	m.rankSelected = m.histogram("rank_selected_items",
		"Number of items returned per ranked-list query", []float64{0, 1, 2, 3, 5, 10, 20})
	m.resolverResult = m.counterVec("resolver_lookups_total",
		"Name resolution outcomes", "vocabulary", "result")

	m.cacheLookups = m.counterVec("cache_lookups_total",
		"Collection cache lookups by collection and outcome", "collection", "result")
	m.cacheEntries = m.gauge("cache_entries", "Number of live collections in the cache")

	m.refreshJobs = m.counterVec("refresh_jobs_total",
		"Refresh jobs by kind and outcome", "kind", "status")
	m.refreshLatency = m.histogramVec("refresh_job_duration_milliseconds",
		"Refresh job duration in milliseconds", "kind")

	m.queueSize = m.gauge("queue_size", "Current number of queued refresh jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued refresh jobs")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Refresh jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Refresh jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Refresh jobs rejected by a full or closed queue")

	m.workerCount = m.gauge("worker_count", "Configured number of refresh workers")
	m.workerActive = m.gauge("worker_active", "Refresh workers currently processing a job")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds",
		"Time a worker spends on one job in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Refresh jobs that failed in a worker")

	m.upstreamRequests = m.counterVec("upstream_requests_total",
		"Requests to third-party APIs by client and status", "client", "status")
	m.upstreamLatency = m.histogramVec("upstream_request_duration_milliseconds",
		"Third-party API latency in milliseconds", "client")

	m.repositoryQueryLatency = m.histogramVec("repository_query_duration_milliseconds",
		"Performance store query latency in milliseconds", "operation")
	m.repositoryErrors = m.counterVec("repository_errors_total",
		"Performance store errors by operation", "operation")

	m.errorsByComponent = m.counterVec("errors_total",
		"Errors by component and type", "component", "type")
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// Ranking.

// RecordRankRequest counts one ranked-list query and the size it returned.
func RecordRankRequest(endpoint, direction string, selected int) {
	if globalManager.enabled {
		globalManager.rankRequests.WithLabelValues(endpoint, direction).Inc()
		globalManager.rankSelected.Observe(float64(selected))
	}
}

// RecordRankShortfall counts an incomplete answer; kind is scarcity or overrun.
func RecordRankShortfall(endpoint, kind string) {
	if globalManager.enabled {
		globalManager.rankShortfalls.WithLabelValues(endpoint, kind).Inc()
	}
}

// RecordResolverLookup counts a name resolution; result is exact, fuzzy or miss.
func RecordResolverLookup(vocabulary, result string) {
	if globalManager.enabled {
		globalManager.resolverResult.WithLabelValues(vocabulary, result).Inc()
	}
}

// Cache.

// RecordCacheLookup counts a cache lookup outcome.
func RecordCacheLookup(collection, result string) error {
	switch result {
	case CacheHit, CacheMiss, CacheLoaded:
	default:
		return fmt.Errorf("%w: cache result %q", ErrUnknownOutcome, result)
	}
	if globalManager.enabled {
		globalManager.cacheLookups.WithLabelValues(collection, result).Inc()
	}
	return nil
}

// UpdateCacheEntries sets the number of live cache entries.
func UpdateCacheEntries(n int) {
	if globalManager.enabled {
		globalManager.cacheEntries.Set(float64(n))
	}
}

// Refresh pipeline.

// RecordRefreshJob counts a refresh job outcome.
func RecordRefreshJob(kind, status string) {
	if globalManager.enabled {
		globalManager.refreshJobs.WithLabelValues(kind, status).Inc()
	}
}

// RecordRefreshLatency records the duration of a refresh job.
func RecordRefreshLatency(kind string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.refreshLatency.WithLabelValues(kind).Observe(latencyMs)
	}
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueued.Inc()
	}
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	if globalManager.enabled {
		globalManager.queueDequeued.Inc()
	}
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	if globalManager.enabled {
		globalManager.queueEnqueueErrors.Inc()
	}
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(count))
	}
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	if globalManager.enabled {
		globalManager.workerActive.Set(float64(count))
	}
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.workerProcessingLatency.Observe(latencyMs)
	}
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if globalManager.enabled {
		globalManager.workerErrors.Inc()
	}
}

// Upstream.

// RecordUpstreamRequest records one third-party API call.
func RecordUpstreamRequest(client, status string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.upstreamRequests.WithLabelValues(client, status).Inc()
		globalManager.upstreamLatency.WithLabelValues(client).Observe(latencyMs)
	}
}

// Repository.

// RecordRepositoryQuery records a performance store operation.
func RecordRepositoryQuery(operation string, latencyMs float64, err error) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryQueryLatency.WithLabelValues(operation).Observe(latencyMs)
	if err != nil {
		globalManager.repositoryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
