// Package metrics exposes Prometheus instrumentation for preprocessing,
// recommendation serving and the metadata provider.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Preprocessing Metrics
	PreprocessStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelscout_preprocess_stage_duration_seconds",
			Help:    "Duration of each preprocessing stage in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"stage"}, // "load", "compose", "vectorize", "similarity", "save"
	)

	PreprocessRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelscout_preprocess_runs_total",
			Help: "Total number of preprocessing runs by outcome",
		},
		[]string{"outcome"}, // "success", "skipped", "locked", "error"
	)

	CorpusMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelscout_corpus_movies",
			Help: "Number of movies in the last processed or loaded corpus",
		},
	)

	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelscout_vocabulary_size",
			Help: "Number of terms in the fitted TF-IDF vocabulary",
		},
	)

	// Engine Metrics
	EngineLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelscout_engine_loaded",
			Help: "1 when a similarity snapshot is loaded, 0 otherwise",
		},
	)

	EngineLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelscout_engine_loads_total",
			Help: "Total number of snapshot load attempts by outcome",
		},
		[]string{"outcome"}, // "success", "error"
	)

	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelscout_recommendation_requests_total",
			Help: "Total number of recommendation queries by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: "title", "genre"; outcome: "results", "empty", "unavailable"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelscout_recommendation_duration_seconds",
			Help:    "Duration of recommendation queries in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"kind"},
	)

	// Metadata Provider Metrics
	MetadataLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelscout_metadata_lookups_total",
			Help: "Total number of metadata provider lookups by outcome",
		},
		[]string{"outcome"}, // "found", "not_found", "error", "rejected"
	)

	MetadataCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelscout_metadata_cache_total",
			Help: "Metadata cache hits and misses",
		},
		[]string{"result"}, // "hit", "miss"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelscout_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelscout_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelscout_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordStage records the duration of a preprocessing stage.
func RecordStage(stage string, duration time.Duration) {
	PreprocessStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordPreprocessRun records a preprocessing outcome.
func RecordPreprocessRun(outcome string) {
	PreprocessRuns.WithLabelValues(outcome).Inc()
}

// RecordEngineLoad records a snapshot load attempt and updates the loaded gauge.
func RecordEngineLoad(movies int, err error) {
	if err != nil {
		EngineLoads.WithLabelValues("error").Inc()
		EngineLoaded.Set(0)
		return
	}
	EngineLoads.WithLabelValues("success").Inc()
	EngineLoaded.Set(1)
	CorpusMovies.Set(float64(movies))
}

// RecordRecommendation records a recommendation query.
func RecordRecommendation(kind, outcome string, duration time.Duration) {
	RecommendationRequests.WithLabelValues(kind, outcome).Inc()
	RecommendationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordMetadataLookup records a provider lookup outcome.
func RecordMetadataLookup(outcome string) {
	MetadataLookups.WithLabelValues(outcome).Inc()
}

// RecordCacheResult records a metadata cache hit or miss.
func RecordCacheResult(hit bool) {
	if hit {
		MetadataCacheResults.WithLabelValues("hit").Inc()
		return
	}
	MetadataCacheResults.WithLabelValues("miss").Inc()
}

// RecordAPIRequest records API request metrics.
func RecordAPIRequest(method, route string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
