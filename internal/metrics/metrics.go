// Package metrics exposes Prometheus instrumentation for the analysis
// endpoints.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindease_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "status"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mindease_analysis_duration_seconds",
		Help:    "End-to-end duration of a single text analysis.",
		Buckets: prometheus.DefBuckets,
	})

	riskLevelsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindease_risk_levels_total",
		Help: "Assessed risk levels by bucket.",
	}, []string{"level"})

	classifierFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindease_classifier_failures_total",
		Help: "Classifier calls that fell back to the neutral default.",
	}, []string{"classifier"})
)

func RecordRequest(route string, status string) {
	requestsTotal.WithLabelValues(route, status).Inc()
}

func RecordAnalysis(duration time.Duration, riskLevel string) {
	analysisDuration.Observe(duration.Seconds())
	riskLevelsTotal.WithLabelValues(riskLevel).Inc()
}

func RecordClassifierFailure(classifier string) {
	classifierFailures.WithLabelValues(classifier).Inc()
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
