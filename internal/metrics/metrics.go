// Package metrics defines Prometheus collectors for the Resumatch server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Name:      "uploads_total",
			Help:      "Total number of resume upload attempts",
		},
		[]string{"status"}, // "ok" / "rejected" / "error"
	)

	FilterRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Name:      "filter_requests_total",
			Help:      "Total number of filter requests",
		},
		[]string{"status"}, // "ok" / "invalid" / "error"
	)

	FilterDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumatch",
			Name:      "filter_duration_seconds",
			Help:      "Filter request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ExtractionFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Name:      "extraction_failures_total",
			Help:      "Total documents skipped because text extraction failed",
		},
		[]string{"reason"}, // "parse" / "timeout" / "unsupported" / "read"
	)

	ResumesStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "resumatch",
			Name:      "resumes_stored",
			Help:      "Number of resumes currently in the store",
		},
	)
)

var registered bool

// Register registers all Resumatch collectors. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(UploadsTotal)
	prometheus.MustRegister(FilterRequestsTotal)
	prometheus.MustRegister(FilterDuration)
	prometheus.MustRegister(ExtractionFailuresTotal)
	prometheus.MustRegister(ResumesStored)
	registered = true
}
