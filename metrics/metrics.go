package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request latency (seconds), labelled by route pattern
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	ContactSubmissionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submission_count",
			Help: "Total number of contact form submissions",
		},
		[]string{"outcome"}, // outcome: accepted, spam, invalid
	)

	NotificationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_count",
			Help: "Total number of notifications attempted",
		},
		[]string{"channel", "status"}, // status: success, failed
	)

	UploadCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_count",
			Help: "Total number of stored uploads",
		},
		[]string{"kind", "target"}, // target: remote, local
	)
)

func RecordHTTPRequestDuration(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementContactSubmission(outcome string) {
	ContactSubmissionCount.WithLabelValues(outcome).Inc()
}

func IncrementNotification(channel string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	NotificationCount.WithLabelValues(channel, status).Inc()
}

func IncrementUpload(kind string, local bool) {
	target := "remote"
	if local {
		target = "local"
	}
	UploadCount.WithLabelValues(kind, target).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request latency under the matched chi route pattern,
// keeping label cardinality bounded by the route table.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		RecordHTTPRequestDuration(r.Method, route, rec.status, time.Since(start))
	})
}
