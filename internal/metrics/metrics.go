// Package metrics mirrors the request and session counters as Prometheus
// metrics and exposes them over HTTP.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pagews"

// Registry holds all pagews collectors. It is separate from the default
// registry so tests and embedding programs do not collide.
var Registry = prometheus.NewRegistry()

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Count of requests by canonical path.",
		},
		[]string{"path"},
	)
	sessionCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Count of new sessions.",
		},
	)
	controllerErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "controller_errors_total",
			Help:      "Count of controller failures by controller and kind (error or panic).",
		},
		[]string{"controller", "kind"},
	)
	notFoundCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "not_found_total",
			Help:      "Count of requests without controller or view.",
		},
		[]string{"reason"},
	)
	rateLimitedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Count of requests rejected by the rate limiter.",
		},
	)
)

var registerMetrics sync.Once

// Register all metrics, including the Go runtime and process collectors.
func Register() {
	registerMetrics.Do(func() {
		Registry.MustRegister(requestCounter)
		Registry.MustRegister(sessionCounter)
		Registry.MustRegister(controllerErrorCounter)
		Registry.MustRegister(notFoundCounter)
		Registry.MustRegister(rateLimitedCounter)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler returns the exposition handler for Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordRequest records a request for the canonical path.
func RecordRequest(path string) {
	requestCounter.WithLabelValues(path).Inc()
}

// RecordSession records a new session.
func RecordSession() {
	sessionCounter.Inc()
}

// RecordControllerError records a controller failure. kind is "error" or "panic".
func RecordControllerError(controller, kind string) {
	controllerErrorCounter.WithLabelValues(controller, kind).Inc()
}

// RecordNotFound records a routing miss. reason is "controller" or "view".
func RecordNotFound(reason string) {
	notFoundCounter.WithLabelValues(reason).Inc()
}

// RecordRateLimited records a rejected request.
func RecordRateLimited() {
	rateLimitedCounter.Inc()
}
