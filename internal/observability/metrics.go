// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Enrichment metrics
	TicksEnriched   prometheus.Counter
	TicksPersisted  prometheus.Counter
	PersistFailures prometheus.Counter
	SegmentsFlushed prometheus.Counter
	WindowSize      prometheus.Gauge
	StudyDuration   prometheus.Histogram

	// Configuration-space metrics
	ConfigurationsBuilt prometheus.Gauge

	// Matrix metrics
	MatrixRows    prometheus.Gauge
	MatrixColumns prometheus.Gauge

	// Optimization metrics
	OptimizationProgress prometheus.Gauge
	TickBarrierDuration  prometheus.Histogram
	SimulationsCompleted prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "forex_backtest_lab"
	}

	return &Metrics{
		TicksEnriched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "ticks_enriched_total",
			Help:      "Total number of ticks run through the configured studies",
		}),
		TicksPersisted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "ticks_persisted_total",
			Help:      "Total number of enriched ticks written to storage",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "persist_failures_total",
			Help:      "Total number of bulk writes that failed and were skipped",
		}),
		SegmentsFlushed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "segments_flushed_total",
			Help:      "Total number of gap-terminated window segments flushed",
		}),
		WindowSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "window_size",
			Help:      "Current number of ticks held in the enrichment window",
		}),
		StudyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "study_duration_seconds",
			Help:      "Wall time of one parallel study pass over a tick",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		ConfigurationsBuilt: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "configspace",
			Name:      "configurations_built",
			Help:      "Number of configurations produced by the last expansion",
		}),
		MatrixRows: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "matrix",
			Name:      "rows",
			Help:      "Row count of the loaded data matrix",
		}),
		MatrixColumns: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "matrix",
			Name:      "columns",
			Help:      "Column count of the loaded data matrix",
		}),
		OptimizationProgress: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "progress_percent",
			Help:      "Percentage of matrix rows completed by the scheduler",
		}),
		TickBarrierDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "tick_barrier_duration_seconds",
			Help:      "Wall time of one barrier-synchronized tick across all configurations",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		SimulationsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "simulations_completed_total",
			Help:      "Total number of per-configuration simulations run to completion",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
