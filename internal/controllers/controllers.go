// Package controllers contains the built-in page controllers and binds
// them to the default bindings of the application context.
package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rampantspark/pagews/internal/app"
	"github.com/rampantspark/pagews/internal/logging"
	"github.com/rampantspark/pagews/internal/registry"
	"github.com/rampantspark/pagews/internal/web"
)

// Register creates the built-in controllers and binds them.
func Register(c *app.Context) error {
	all := []web.Controller{
		NewBase(c),
		NewIndex(c),
		NewStats(c),
		NewSysEnv(c),
		NewLog(c, registry.LogPage),
		NewLog(c, registry.LogErrorPage),
		NewLogStatus(c),
		NewMetrics(),
		NewLogin(c),
	}
	for _, ctrl := range all {
		if err := c.Registry.Bind(ctrl.Name(), ctrl); err != nil {
			return fmt.Errorf("failed to bind controller: %w", err)
		}
	}
	return nil
}

// page holds what every page controller needs.
type page struct {
	app    *app.Context
	name   string
	logger *slog.Logger
}

func newPage(c *app.Context, name string) page {
	return page{app: c, name: name, logger: logging.Named(c.Logger, "controllers."+name)}
}

// Name returns the binding name.
func (p page) Name() string {
	return p.name
}

// view returns the view of the controller's binding.
func (p page) view() string {
	return p.app.Registry.View(p.name)
}

// start sets the attributes shared by all pages and returns the request's
// attribute set.
func (p page) start(r *http.Request, title string) *web.Attributes {
	attrs := web.Attrs(r)
	attrs.Set(web.AttrPageTitle, p.app.Name+" "+title)
	attrs.Set("appName", p.app.Name)
	attrs.Set("indexUrl", p.app.URL(registry.IndexPage))
	return attrs
}
