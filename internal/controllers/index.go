package controllers

import (
	"net/http"

	"github.com/rampantspark/pagews/internal/app"
	"github.com/rampantspark/pagews/internal/registry"
	"github.com/rampantspark/pagews/internal/view"
)

var indexLinks = []struct {
	name  string
	title string
}{
	{registry.StatsPage, "Statistics"},
	{registry.SysEnvPage, "System environment"},
	{registry.LogPage, "Log"},
	{registry.LogErrorPage, "Log errors"},
	{registry.LogStatusPage, "Log status"},
	{registry.MetricsPage, "Metrics"},
}

// Index shows the index page with links to the other pages.
type Index struct {
	page
}

// NewIndex creates the index controller.
func NewIndex(c *app.Context) *Index {
	return &Index{page: newPage(c, registry.IndexPage)}
}

// HandleRequest implements web.Controller.
func (ctrl *Index) HandleRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	ctrl.logger.Debug("Returning index page")
	attrs := ctrl.start(r, "Index")
	attrs.Set("appVersion", ctrl.app.Version)
	attrs.Set("appEnv", ctrl.app.Env)

	links := make([]view.Link, 0, len(indexLinks))
	for _, l := range indexLinks {
		if u := ctrl.app.URL(l.name); u != "" {
			links = append(links, view.Link{Title: l.title, URL: u})
		}
	}
	attrs.Set("links", links)
	return ctrl.view(), nil
}

// Base redirects requests for the base URL to the index page.
type Base struct {
	page
}

// NewBase creates the base URL controller.
func NewBase(c *app.Context) *Base {
	return &Base{page: newPage(c, registry.BaseURL)}
}

// HandleRequest implements web.Controller.
func (ctrl *Base) HandleRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	http.Redirect(w, r, ctrl.app.URL(registry.IndexPage), http.StatusFound)
	return "", nil
}
