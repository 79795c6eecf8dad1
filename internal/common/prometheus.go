package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	AttemptSubmissionTotal     = "attempt_submissions_total"
)

// Results of an attempt submission, used as the label of
// AttemptSubmissionTotal.
const (
	SubmissionAccepted = "accepted"
	SubmissionRejected = "rejected"
	SubmissionInvalid  = "invalid"
	SubmissionConflict = "conflict"
	SubmissionFailed   = "failed"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "path", "code"}),
		AttemptSubmissionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: AttemptSubmissionTotal,
			Help: "Count of attempt submissions by result",
		}, []string{"result"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "path", "code"}),
	}
)

func CountSubmission(result string) {
	PromCounters[AttemptSubmissionTotal].WithLabelValues(result).Inc()
}
