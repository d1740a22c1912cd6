// Package metrics provides Prometheus metrics for the prediction pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Batch pass metrics
	gamesProcessed prometheus.Counter
	gamesSkipped   *prometheus.CounterVec
	ratingUpdates  prometheus.Counter
	passDuration   prometheus.Histogram

	// Snapshot metrics
	snapshotsBuilt       prometheus.Counter
	snapshotsNeutral     prometheus.Counter
	snapshotBuildLatency prometheus.Histogram
	partialMetricGames   prometheus.Counter

	// Feature boundary metrics
	featureVectors      prometheus.Counter
	insufficientHistory prometheus.Counter

	// Queue metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueEnqueueErrs prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Store metrics
	teamsTracked prometheus.Gauge

	// Error tracking
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pigskin",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.gamesProcessed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_processed_total",
		Help:      "Completed games folded into the rating timeline.",
	})
	m.gamesSkipped = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_skipped_total",
		Help:      "Games excluded from a pass, labeled by reason.",
	}, []string{"reason"})
	m.ratingUpdates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_updates_total",
		Help:      "Per-team rating updates recorded.",
	})
	m.passDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pass_duration_seconds",
		Help:      "Duration of full batch passes.",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotsBuilt = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_built_total",
		Help:      "Rolling-stats snapshots produced.",
	})
	m.snapshotsNeutral = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_neutral_total",
		Help:      "Snapshots emitted with neutral placeholder values.",
	})
	m.snapshotBuildLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_build_latency_ms",
		Help:      "Latency of single snapshot builds in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.partialMetricGames = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "partial_metric_games_total",
		Help:      "Contributing games with one or more missing stat fields.",
	})

	m.featureVectors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feature_vectors_total",
		Help:      "Matchup feature vectors assembled.",
	})
	m.insufficientHistory = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "insufficient_history_total",
		Help:      "Feature requests rejected for lack of any snapshot.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of queued snapshot jobs.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the snapshot job queue.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization",
		Help:      "Queue size as a fraction of capacity.",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueues_total",
		Help:      "Jobs enqueued.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeues_total",
		Help:      "Jobs dequeued.",
	})
	m.queueEnqueueErrs = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Enqueue attempts rejected (full or closed queue).",
	})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of snapshot workers in the pool.",
	})
	m.workerProcessingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_ms",
		Help:      "Per-job worker processing latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Jobs that failed inside a worker.",
	})

	m.teamsTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_tracked",
		Help:      "Teams with at least one rating in the current timeline.",
	})

	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors labeled by component and kind.",
	}, []string{"component", "kind"})
}

// Registry returns the custom registry backing the global manager, for
// exposition or test gathering.
func Registry() *prometheus.Registry { return customRegistry }

// Package-level helpers delegating to the global manager.

func RecordGameProcessed() {
	if globalManager.enabled {
		globalManager.gamesProcessed.Inc()
	}
}

func RecordGameSkipped(reason string) {
	if globalManager.enabled {
		globalManager.gamesSkipped.WithLabelValues(reason).Inc()
	}
}

func RecordRatingUpdate() {
	if globalManager.enabled {
		globalManager.ratingUpdates.Inc()
	}
}

func RecordPassDuration(seconds float64) {
	if globalManager.enabled {
		globalManager.passDuration.Observe(seconds)
	}
}

func RecordSnapshotBuilt() {
	if globalManager.enabled {
		globalManager.snapshotsBuilt.Inc()
	}
}

func RecordSnapshotNeutral() {
	if globalManager.enabled {
		globalManager.snapshotsNeutral.Inc()
	}
}

func RecordSnapshotBuildLatency(ms float64) {
	if globalManager.enabled {
		globalManager.snapshotBuildLatency.Observe(ms)
	}
}

func RecordPartialMetricGame() {
	if globalManager.enabled {
		globalManager.partialMetricGames.Inc()
	}
}

func RecordFeatureVector() {
	if globalManager.enabled {
		globalManager.featureVectors.Inc()
	}
}

func RecordInsufficientHistory() {
	if globalManager.enabled {
		globalManager.insufficientHistory.Inc()
	}
}

func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

func UpdateQueueUtilization(utilization float64) {
	if globalManager.enabled {
		globalManager.queueUtilization.Set(utilization)
	}
}

func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueues.Inc()
	}
}

func RecordQueueDequeue() {
	if globalManager.enabled {
		globalManager.queueDequeues.Inc()
	}
}

func RecordQueueEnqueueError() {
	if globalManager.enabled {
		globalManager.queueEnqueueErrs.Inc()
	}
}

func UpdateWorkerCount(count int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(count))
	}
}

func RecordWorkerProcessingLatency(ms float64) {
	if globalManager.enabled {
		globalManager.workerProcessingLatency.Observe(ms)
	}
}

func RecordWorkerError() {
	if globalManager.enabled {
		globalManager.workerErrors.Inc()
	}
}

func UpdateTeamsTracked(count int) {
	if globalManager.enabled {
		globalManager.teamsTracked.Set(float64(count))
	}
}

func RecordErrorByComponent(component, kind string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
	}
}
