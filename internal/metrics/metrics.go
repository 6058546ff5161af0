// Package metrics defines the Prometheus collectors exported by the API.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsTotal counts recommendation requests.
	// Labels:
	//   - fallback: "true" when the filter removed every listing and the full catalog was scored
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homematch_recommendations_total",
			Help: "Total number of recommendation requests served",
		},
		[]string{"fallback"},
	)

	// RecommendationCandidates measures how many listings were scored per request.
	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "homematch_recommendation_candidates",
			Help:    "Number of candidate listings scored per recommendation request",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	// MatchScore records the match score of every returned recommendation.
	MatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "homematch_match_score",
			Help:    "Match score (0-100) of returned recommendations",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// SavedPropertyOperations counts favorites operations.
	// Labels:
	//   - operation: "save", "list", "remove"
	//   - outcome: "success", "conflict", "not_found", "unavailable", "error"
	SavedPropertyOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homematch_saved_property_operations_total",
			Help: "Total number of saved property operations",
		},
		[]string{"operation", "outcome"},
	)

	// HTTPRequestsTotal counts HTTP requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homematch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homematch_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)
)

// ObserveRecommendation records one recommendation request.
func ObserveRecommendation(candidates int, fallback bool, scores []float64) {
	RecommendationsTotal.WithLabelValues(strconv.FormatBool(fallback)).Inc()
	RecommendationCandidates.Observe(float64(candidates))
	for _, s := range scores {
		MatchScore.Observe(s)
	}
}

// ObserveSavedPropertyOperation records the outcome of a favorites operation.
func ObserveSavedPropertyOperation(operation, outcome string) {
	SavedPropertyOperations.WithLabelValues(operation, outcome).Inc()
}
