// Package metrics defines the Prometheus instruments exported by the
// assessment service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClaimsAssessed counts completed assessments by recommendation.
	ClaimsAssessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claims_assessed_total",
		Help: "Total number of claims assessed, labeled by recommendation.",
	}, []string{"recommendation"})

	// DuplicateHits counts assessments that matched a prior image.
	DuplicateHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "claims_duplicate_hits_total",
		Help: "Total number of assessments that matched a previously seen image.",
	})

	// DegradedChecks counts duplicate checks that ran without history.
	DegradedChecks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "claims_degraded_duplicate_checks_total",
		Help: "Total number of duplicate checks that ran in degraded mode.",
	})

	// AssessmentDuration observes end-to-end assessment latency.
	AssessmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "claims_assessment_duration_seconds",
		Help:    "End-to-end claim assessment duration in seconds.",
		Buckets: prometheus.DefBuckets,
	})
)
