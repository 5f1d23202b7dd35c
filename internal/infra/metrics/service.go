package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		svcCallLatencyMs,
		pollAttempts,
		cleanupFailures,
		uploadCacheHits,
	)
}

var (
	svcCallLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docsearch_service_call_latency_ms",
			Help:    "Vendor API call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"operation", "success"},
	)

	pollAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsearch_poll_attempts_total",
			Help: "Status checks issued while waiting on a file batch, per observed status.",
		},
		[]string{"status"},
	)

	cleanupFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsearch_cleanup_failures_total",
			Help: "Remote resource deletions that failed during cleanup, per resource kind.",
		},
		[]string{"resource"},
	)

	uploadCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsearch_upload_cache_total",
			Help: "Upload cache lookups per outcome (hit|miss|error).",
		},
		[]string{"outcome"},
	)
)

func ObserveServiceCall(operation string, latencyMs int64, success bool) {
	svcCallLatencyMs.WithLabelValues(operation, strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func IncPollAttempt(status string) {
	pollAttempts.WithLabelValues(status).Inc()
}

func IncCleanupFailure(resource string) {
	cleanupFailures.WithLabelValues(resource).Inc()
}

func IncUploadCache(outcome string) {
	uploadCacheHits.WithLabelValues(outcome).Inc()
}
