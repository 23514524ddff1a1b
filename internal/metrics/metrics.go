// Package metrics provides the centralized Prometheus metrics registry for
// the prediction pipeline.
package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ReplayRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_sniper",
		Name:      "replay_runs_total",
		Help:      "Total number of historical replay passes",
	})
	FeatureRowsBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_sniper",
		Name:      "feature_rows_built_total",
		Help:      "Total number of feature rows built during replays",
	})
	PredictionRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_sniper",
		Name:      "prediction_runs_total",
		Help:      "Total number of daily prediction runs",
	})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "value_sniper",
		Name:      "recommendations_total",
		Help:      "Recommendations produced, labelled by decision",
	}, []string{"decision"})
	FixturesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "value_sniper",
		Name:      "fixtures_skipped_total",
		Help:      "Fixtures dropped by the sniper filters, labelled by reason",
	}, []string{"reason"})
	ClassifierRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "value_sniper",
		Name:      "classifier_requests_total",
		Help:      "Classifier HTTP requests, labelled by result",
	}, []string{"result"})
	OddsStreamReconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_sniper",
		Name:      "odds_stream_reconnects_total",
		Help:      "Total number of odds stream reconnections",
	})
)

// Gauge metrics
var (
	RatedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "value_sniper",
		Name:      "rated_teams",
		Help:      "Number of teams with a rating after the latest replay",
	})
	LastReplayMatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "value_sniper",
		Name:      "last_replay_matches",
		Help:      "Matches processed in the most recent replay",
	})
	PredictionCacheHitRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "value_sniper",
		Name:      "prediction_cache_hit_rate",
		Help:      "Hit rate of the classifier response cache",
	})
)

// Histogram metrics
var (
	ReplayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "value_sniper",
		Name:      "replay_duration_seconds",
		Help:      "Duration of historical replay passes in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	ClassifierLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "value_sniper",
		Name:      "classifier_latency_seconds",
		Help:      "Latency of classifier prediction calls in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	RecommendationEdge = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "value_sniper",
		Name:      "recommendation_edge_percent",
		Help:      "Edge percentage of BET recommendations",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 12, 20, 50},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ReplayRunsTotal)
		registry.MustRegister(FeatureRowsBuiltTotal)
		registry.MustRegister(PredictionRunsTotal)
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(FixturesSkippedTotal)
		registry.MustRegister(ClassifierRequestsTotal)
		registry.MustRegister(OddsStreamReconnectsTotal)

		registry.MustRegister(RatedTeams)
		registry.MustRegister(LastReplayMatches)
		registry.MustRegister(PredictionCacheHitRate)

		registry.MustRegister(ReplayDuration)
		registry.MustRegister(ClassifierLatency)
		registry.MustRegister(RecommendationEdge)
	})
	return registry
}

// Handler returns an HTTP handler for the metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}

// Serve starts a metrics HTTP server on the given port and path.
func Serve(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

// RecordRecommendation records a produced recommendation by decision.
func RecordRecommendation(decision string, edgePercent float64, isBet bool) {
	RecommendationsTotal.WithLabelValues(decision).Inc()
	if isBet {
		RecommendationEdge.Observe(edgePercent)
	}
}
