package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Pipeline metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	StageDuration    *prometheus.HistogramVec
	UniverseSize     prometheus.Gauge
	GateExclusions   *prometheus.CounterVec
	LastRunTimestamp prometheus.Gauge

	// Recommendation metrics
	RecommendationLabels *prometheus.CounterVec
	CompositeScores      *prometheus.HistogramVec
	EquityWeight         prometheus.Gauge
	PositionCount        prometheus.Gauge

	// Qualitative scorer metrics
	ScorerRequestsTotal *prometheus.CounterVec
	ScorerDuration      *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Store metrics
	StoreOpsTotal *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// scoreBuckets are histogram buckets for composite score metrics (0 to 100)
var scoreBuckets = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		// Pipeline metrics
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quantfolio",
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Total number of analysis runs",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quantfolio",
				Subsystem: "pipeline",
				Name:      "run_duration_seconds",
				Help:      "Duration of full analysis runs in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"status"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quantfolio",
				Subsystem: "pipeline",
				Name:      "stage_duration_seconds",
				Help:      "Duration of individual pipeline stages in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"stage"},
		),
		UniverseSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "quantfolio",
				Subsystem: "pipeline",
				Name:      "universe_size",
				Help:      "Number of stocks in the last loaded universe",
			},
		),
		GateExclusions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quantfolio",
				Subsystem: "pipeline",
				Name:      "gate_exclusions_total",
				Help:      "Total number of quality gate exclusions by rule",
			},
			[]string{"rule"},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "quantfolio",
				Subsystem: "pipeline",
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix timestamp of the last completed analysis run",
			},
		),

		// Recommendation metrics
		RecommendationLabels: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quantfolio",
				Subsystem: "recommendation",
				Name:      "labels_total",
				Help:      "Total number of scored stocks by recommendation label",
			},
			[]string{"label"},
		),
		CompositeScores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quantfolio",
				Subsystem: "recommendation",
				Name:      "composite_score",
				Help:      "Distribution of composite scores",
				Buckets:   scoreBuckets,
			},
			[]string{"regime"},
		),
		EquityWeight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "quantfolio",
				Subsystem: "recommendation",
				Name:      "equity_weight_pct",
				Help:      "Equity weight of the last generated portfolio in percent",
			},
		),
		PositionCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "quantfolio",
				Subsystem: "recommendation",
				Name:      "position_count",
				Help:      "Number of positions in the last generated portfolio",
			},
		),

		// Qualitative scorer metrics
		ScorerRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quantfolio",
				Subsystem: "enrichment",
				Name:      "scorer_requests_total",
				Help:      "Total number of qualitative scorer calls",
			},
			[]string{"provider", "status"},
		),
		ScorerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quantfolio",
				Subsystem: "enrichment",
				Name:      "scorer_duration_seconds",
				Help:      "Duration of qualitative scorer calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"provider"},
		),

		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quantfolio",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quantfolio",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),

		// Store metrics
		StoreOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quantfolio",
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total number of recommendation store operations",
			},
			[]string{"backend", "operation", "status"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// RecordRun records a completed analysis run
func (m *Metrics) RecordRun(status string, duration time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.WithLabelValues(status).Observe(duration.Seconds())
	if status == "success" {
		m.LastRunTimestamp.SetToCurrentTime()
	}
}

// RecordStage records the duration of one pipeline stage
func (m *Metrics) RecordStage(stage string, duration time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordUniverse records the size of the loaded universe
func (m *Metrics) RecordUniverse(size int) {
	m.UniverseSize.Set(float64(size))
}

// RecordGateExclusions records quality gate exclusions for one rule
func (m *Metrics) RecordGateExclusions(rule string, count int) {
	m.GateExclusions.WithLabelValues(rule).Add(float64(count))
}

// RecordComposite records one scored stock
func (m *Metrics) RecordComposite(label, regime string, score float64) {
	m.RecommendationLabels.WithLabelValues(label).Inc()
	m.CompositeScores.WithLabelValues(regime).Observe(score)
}

// RecordAllocation records the shape of the last generated portfolio
func (m *Metrics) RecordAllocation(equityWeight float64, positions int) {
	m.EquityWeight.Set(equityWeight)
	m.PositionCount.Set(float64(positions))
}

// RecordScorerCall records a qualitative scorer call
func (m *Metrics) RecordScorerCall(provider, status string, duration time.Duration) {
	m.ScorerRequestsTotal.WithLabelValues(provider, status).Inc()
	m.ScorerDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordStoreOp records a recommendation store operation
func (m *Metrics) RecordStoreOp(backend, operation, status string) {
	m.StoreOpsTotal.WithLabelValues(backend, operation, status).Inc()
}
