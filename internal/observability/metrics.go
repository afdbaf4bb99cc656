// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name when none is configured.
const DefaultNamespace = "trade_thesis"

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Engine metrics
	SuggestRuns          prometheus.Counter
	TradesEvaluated      prometheus.Counter
	ClustersFormed       prometheus.Counter
	SuggestionsEmitted   *prometheus.CounterVec // by pattern
	SuggestionsFiltered  *prometheus.CounterVec // by pattern
	SuggestionConfidence prometheus.Histogram
	SuggestDuration      prometheus.Histogram

	// Import metrics
	TradesImported *prometheus.CounterVec // by outcome: stored, rejected

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SuggestRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "suggest_runs_total",
			Help:      "Total number of suggestion runs",
		}),
		TradesEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "trades_evaluated_total",
			Help:      "Total number of trades passed to the engine",
		}),
		ClustersFormed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "clusters_formed_total",
			Help:      "Total number of trade clusters formed by temporal grouping",
		}),
		SuggestionsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "suggestions_emitted_total",
			Help:      "Suggestions at or above the confidence threshold, by pattern",
		}, []string{"pattern"}),
		SuggestionsFiltered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "suggestions_filtered_total",
			Help:      "Clusters dropped below the confidence threshold, by pattern",
		}, []string{"pattern"}),
		SuggestionConfidence: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "suggestion_confidence",
			Help:      "Confidence of every scored cluster",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		SuggestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "suggest_duration_seconds",
			Help:      "Duration of a suggestion run",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),

		TradesImported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "trades_total",
			Help:      "Imported trade rows by outcome",
		}, []string{"outcome"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"operation"}),

		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful command run",
		}),
	}
}

// Registry exposes the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving this instance's metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes all metrics in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// RecordRun records one suggestion run.
func (m *Metrics) RecordRun(trades, clusters int, elapsed time.Duration) {
	m.SuggestRuns.Inc()
	m.TradesEvaluated.Add(float64(trades))
	m.ClustersFormed.Add(float64(clusters))
	m.SuggestDuration.Observe(elapsed.Seconds())
}

// RecordSuggestion records one scored cluster and whether it was kept.
func (m *Metrics) RecordSuggestion(pattern string, confidence int, kept bool) {
	m.SuggestionConfidence.Observe(float64(confidence))
	if kept {
		m.SuggestionsEmitted.WithLabelValues(pattern).Inc()
	} else {
		m.SuggestionsFiltered.WithLabelValues(pattern).Inc()
	}
}

// RecordImport records the outcome of an import.
func (m *Metrics) RecordImport(stored, rejected int) {
	m.TradesImported.WithLabelValues("stored").Add(float64(stored))
	m.TradesImported.WithLabelValues("rejected").Add(float64(rejected))
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(operation string, elapsed time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// MarkSuccess stamps the last successful run time.
func (m *Metrics) MarkSuccess(at time.Time) {
	m.LastSuccessfulRun.Set(float64(at.Unix()))
}
