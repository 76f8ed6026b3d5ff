package metrics

import (
	"regexp"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the auth counters.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "highlow_registrations_total",
			Help: "User registrations by result (success, rejected, error)",
		},
		[]string{"result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "highlow_logins_total",
			Help: "Login attempts by result (success, rejected, error)",
		},
		[]string{"result"},
	)

	AuthRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "highlow_auth_rejections_total",
			Help: "Requests to protected routes rejected for a missing or invalid bearer token",
		},
	)
)

var numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, RegistrationsTotal, LoginsTotal, AuthRejectionsTotal)
}

// NormalizePath replaces numeric path segments with {id}, e.g. /users/12 -> /users/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

func IncRegistrations(result string) {
	RegistrationsTotal.WithLabelValues(result).Inc()
}

func IncLogins(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

func IncAuthRejections() {
	AuthRejectionsTotal.Inc()
}
