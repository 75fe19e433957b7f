// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog Metrics
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_catalog_items",
			Help: "Number of movies in the loaded catalog",
		},
	)

	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movierec_catalog_load_duration_seconds",
			Help:    "Time spent loading the movie catalog",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// Engine Metrics
	EngineState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movierec_engine_state",
			Help: "Engine lifecycle state (0=not_ready, 1=loading, 2=ready, 3=failed)",
		},
		[]string{"algorithm"},
	)

	EngineLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_engine_load_duration_seconds",
			Help:    "Time spent loading or building an engine",
			Buckets: []float64{0.1, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"algorithm"},
	)

	SimilarityIndexNeighbors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_similarity_index_neighbors",
			Help: "Total neighbor entries held by the content similarity index",
		},
	)

	// Request Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_recommend_requests_total",
			Help: "Recommendation requests by algorithm and outcome",
		},
		[]string{"algorithm", "outcome"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommend_duration_seconds",
			Help:    "Recommendation latency by algorithm",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"algorithm"},
	)

	RecommendResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommend_results",
			Help:    "Number of titles returned per request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"algorithm"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_api_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_api_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Training Metrics
	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_training_duration_seconds",
			Help:    "Offline artifact build time by artifact kind",
			Buckets: []float64{1, 10, 30, 60, 300, 900, 1800, 3600},
		},
		[]string{"artifact"},
	)
)

// RecordCatalogLoad records catalog size and load time.
func RecordCatalogLoad(items int, duration time.Duration) {
	CatalogItems.Set(float64(items))
	CatalogLoadDuration.Observe(duration.Seconds())
}

// SetEngineState publishes an engine lifecycle state.
func SetEngineState(algorithm string, state int) {
	EngineState.WithLabelValues(algorithm).Set(float64(state))
}

// RecordEngineLoad records how long an engine took to become ready or fail.
func RecordEngineLoad(algorithm string, duration time.Duration) {
	EngineLoadDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordRecommendation records the outcome of one recommendation call.
// outcome is "ok" or an error code such as "invalid_request".
func RecordRecommendation(algorithm, outcome string, results int, duration time.Duration) {
	RecommendRequests.WithLabelValues(algorithm, outcome).Inc()
	RecommendDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	if outcome == "ok" {
		RecommendResults.WithLabelValues(algorithm).Observe(float64(results))
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordTraining records an offline artifact build.
func RecordTraining(artifact string, duration time.Duration) {
	TrainingDuration.WithLabelValues(artifact).Observe(duration.Seconds())
}
