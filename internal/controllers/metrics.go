package controllers

import (
	"net/http"

	"github.com/rampantspark/pagews/internal/metrics"
	"github.com/rampantspark/pagews/internal/registry"
)

// Metrics writes the Prometheus exposition of the pagews metrics.
type Metrics struct {
	handler http.Handler
}

// NewMetrics creates the metrics controller and registers the metrics.
func NewMetrics() *Metrics {
	metrics.Register()
	return &Metrics{handler: metrics.Handler()}
}

// Name returns the binding name.
func (ctrl *Metrics) Name() string {
	return registry.MetricsPage
}

// HandleRequest implements web.Controller. It writes the response itself.
func (ctrl *Metrics) HandleRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	ctrl.handler.ServeHTTP(w, r)
	return "", nil
}
