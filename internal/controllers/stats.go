package controllers

import (
	"net/http"

	"github.com/rampantspark/pagews/internal/app"
	"github.com/rampantspark/pagews/internal/registry"
)

// Stats shows the request and session counts.
type Stats struct {
	page
}

// NewStats creates the statistics controller.
func NewStats(c *app.Context) *Stats {
	return &Stats{page: newPage(c, registry.StatsPage)}
}

// HandleRequest implements web.Controller.
func (ctrl *Stats) HandleRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	attrs := ctrl.start(r, "Statistics")
	attrs.Set("stats", ctrl.app.Stats.Describe())
	return ctrl.view(), nil
}
