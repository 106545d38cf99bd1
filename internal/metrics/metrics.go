// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package metrics defines the Prometheus metrics exported on /metrics.
//
// Metrics are registered with promauto at package init and updated through
// the Record* helpers, so callers never touch label ordering directly.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_queries_total",
			Help: "Total number of recommendation queries by outcome",
		},
		[]string{"outcome"}, // "ok", "unknown_movie", "no_model", "invalid"
	)

	RecommendQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_query_duration_seconds",
			Help:    "Duration of recommendation queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	RecommendModelBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_model_loads_total",
			Help: "Total number of model load or build attempts by result",
		},
		[]string{"result"}, // "loaded", "rebuilt", "rebuild_failed"
	)

	RecommendModelBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_model_build_duration_seconds",
			Help:    "Duration of full model builds in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	RecommendModelSaveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_model_save_failures_total",
			Help: "Total number of failed model persistence attempts",
		},
	)

	RecommendModelMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_movies",
			Help: "Number of movies in the serving model",
		},
	)

	RecommendModelTerms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_terms",
			Help: "Vocabulary size of the serving model",
		},
	)

	RecommendModelBuiltAt = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_built_timestamp_seconds",
			Help: "Unix time the serving model was built",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Import Metrics
	ImportRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_records_total",
			Help: "Total number of TMDB records processed by outcome",
		},
		[]string{"outcome"}, // "created", "updated", "skipped", "error"
	)

	// Search Metrics
	SearchQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_queries_total",
			Help: "Total number of catalog searches",
		},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendQuery records one recommendation query.
func RecordRecommendQuery(outcome string, duration time.Duration) {
	RecommendQueries.WithLabelValues(outcome).Inc()
	RecommendQueryDuration.Observe(duration.Seconds())
}

// RecordModelLoad records a load or build attempt.
func RecordModelLoad(result string, buildDuration time.Duration, saveFailed bool) {
	RecommendModelBuilds.WithLabelValues(result).Inc()
	if buildDuration > 0 {
		RecommendModelBuildDuration.Observe(buildDuration.Seconds())
	}
	if saveFailed {
		RecommendModelSaveFailures.Inc()
	}
}

// SetServingModel updates the gauges describing the model in use.
func SetServingModel(movies, terms int, builtAt time.Time) {
	RecommendModelMovies.Set(float64(movies))
	RecommendModelTerms.Set(float64(terms))
	RecommendModelBuiltAt.Set(float64(builtAt.Unix()))
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordImportRecord records the outcome of importing one TMDB row.
func RecordImportRecord(outcome string) {
	ImportRecords.WithLabelValues(outcome).Inc()
}
