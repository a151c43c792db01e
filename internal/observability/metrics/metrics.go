package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compliance_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "compliance_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	taskUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compliance_task_updates_total",
		Help: "Task updates by resulting status",
	}, []string{"status"})

	fileUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "compliance_file_upload_bytes",
		Help:    "Size of uploaded task attachments",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compliance_login_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveTaskUpdate counts a journaled task update.
func ObserveTaskUpdate(status string) {
	if status == "" {
		status = "unchanged"
	}
	taskUpdates.WithLabelValues(status).Inc()
}

func ObserveFileUpload(size int64) {
	fileUploadBytes.Observe(float64(size))
}

// ObserveLogin records a login attempt with result success, invalid or inactive.
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}
