// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_applications_submitted_total",
			Help: "Number of loan applications accepted by the submit pipeline",
		},
	)

	ApplicationsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_applications_processed_total",
			Help: "Number of loan application messages processed",
		},
		[]string{"status"},
	)

	ProcessingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_application_processing_failures_total",
			Help: "Number of loan application messages that failed to process",
		},
	)

	PublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_application_publish_failures_total",
			Help: "Number of decision requests that could not be published after a durable create",
		},
	)

	ProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "loan_application_processing_seconds",
			Help: "Time spent processing loan application messages",
		},
	)

	CacheReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_status_cache_reads_total",
			Help: "Status cache lookups by outcome",
		},
		[]string{"outcome"}, // hit | miss
	)
)
