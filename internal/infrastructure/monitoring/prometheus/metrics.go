// Package prometheus exposes the engine's operational metrics.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "esg_sentinel"

// Metrics holds every collector the engine reports.  A single instance is
// created at startup and threaded through the application service.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Assessment layer
	AssessmentsTotal    *prometheus.CounterVec
	AssessmentDuration  *prometheus.HistogramVec
	RatingDistribution  *prometheus.CounterVec
	GradeDistribution   *prometheus.CounterVec
	SentencesProcessed  prometheus.Counter
	RankerDegradations  prometheus.Counter

	// Infrastructure layer
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	EventsPublished  *prometheus.CounterVec
}

var defaultDurationBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by path, method, and status code.",
		}, []string{"path", "method", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by path.",
			Buckets:   defaultDurationBuckets,
		}, []string{"path"}),

		AssessmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Completed assessments by kind (risk|supplier) and status (ok|error).",
		}, []string{"kind", "status"}),

		AssessmentDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "End-to-end assessment latency by kind.",
			Buckets:   defaultDurationBuckets,
		}, []string{"kind"}),

		RatingDistribution: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_ratings_total",
			Help:      "Risk rating labels assigned across all assessments.",
		}, []string{"rating"}),

		GradeDistribution: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "supplier_grades_total",
			Help:      "Supplier grades assigned across all evaluations.",
		}, []string{"grade"}),

		SentencesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_processed_total",
			Help:      "Sentence units segmented out of assessment contexts.",
		}),

		RankerDegradations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranker_degradations_total",
			Help:      "Times the semantic ranker fell back to lexical matching.",
		}),

		CacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Result cache hits.",
		}),

		CacheMissesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Result cache misses.",
		}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events published by topic and status.",
		}, []string{"topic", "status"}),
	}
}

// Handler returns an http.Handler serving the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
