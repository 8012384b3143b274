// Package handler contains the dispatcher that routes filtered requests to
// the controller bound to their path and renders the returned view.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/rampantspark/pagews/internal/admin"
	"github.com/rampantspark/pagews/internal/metrics"
	"github.com/rampantspark/pagews/internal/registry"
	"github.com/rampantspark/pagews/internal/session"
	"github.com/rampantspark/pagews/internal/stats"
	"github.com/rampantspark/pagews/internal/view"
	"github.com/rampantspark/pagews/internal/web"
)

// Sessions creates or joins the session of a request.
type Sessions interface {
	Ensure(w http.ResponseWriter, r *http.Request) (*session.Session, bool)
}

// Authenticator decides whether a request may see restricted pages.
type Authenticator interface {
	IsAuthenticated(r *http.Request) bool
}

// Options configures a Dispatcher. Sessions and Auth are optional.
type Options struct {
	Registry  *registry.Registry
	Views     *view.Set
	Sessions  Sessions
	Auth      Authenticator // nil disables the admin check
	LoginPath string
	Encoding  string
	Logger    *slog.Logger
}

// Dispatcher is the http.Handler behind the request filter.
type Dispatcher struct {
	registry  *registry.Registry
	views     *view.Set
	sessions  Sessions
	auth      Authenticator
	loginPath string
	encoding  string
	logger    *slog.Logger
}

// New creates a dispatcher.
func New(opts Options) *Dispatcher {
	return &Dispatcher{
		registry:  opts.Registry,
		views:     opts.Views,
		sessions:  opts.Sessions,
		auth:      opts.Auth,
		loginPath: opts.LoginPath,
		encoding:  opts.Encoding,
		logger:    opts.Logger,
	}
}

// ServeHTTP dispatches the request:
//  1. Reads the path stored by the request filter
//  2. Looks up the bound controller, 404 when there is none
//  3. Rejects restricted pages with 403 unless the request is authenticated
//  4. Invokes the controller, turning errors and panics into 500
//  5. Renders the returned view, if any, 404 when the view is unknown
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestedURL, err := web.RequestedURL(r.Context())
	if err != nil {
		requestedURL = r.URL.Path
		r = r.WithContext(web.WithRequest(r.Context(), requestedURL))
	}

	b, ok := d.registry.BindingByPath(requestedURL)
	if !ok || b.Controller == nil {
		metrics.RecordNotFound("controller")
		d.logger.Warn("Cannot find controller", "url", requestedURL)
		web.SendError(w, http.StatusNotFound, "Cannot find controller for URL "+requestedURL)
		return
	}
	c := b.Controller

	if b.Restricted && d.auth != nil && !d.auth.IsAuthenticated(r) {
		d.logger.Warn("Restricted page requested without admin token",
			"url", requestedURL, "controller", c.Name(), "remote", stats.RemoteLocation(r))
		admin.Forbid(w, d.loginPath)
		return
	}

	viewName, err := d.invoke(c, w, r)
	if err != nil {
		var pe *panicError
		if errors.As(err, &pe) {
			metrics.RecordControllerError(c.Name(), "panic")
			d.logger.Error("Controller panicked",
				"controller", c.Name(), "url", requestedURL, "error", pe.value, "stack", pe.stack)
		} else {
			metrics.RecordControllerError(c.Name(), "error")
			d.logger.Error("Controller failed",
				"controller", c.Name(), "url", requestedURL, "error", err)
		}
		web.SendError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if viewName == "" {
		return
	}
	d.forward(w, r, viewName)
}

// invoke calls the controller and converts a panic into a *panicError.
func (d *Dispatcher) invoke(c web.Controller, w http.ResponseWriter, r *http.Request) (viewName string, err error) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			viewName = ""
			err = &panicError{value: v, stack: string(debug.Stack())}
		}
	}()
	return c.HandleRequest(w, r)
}

func (d *Dispatcher) forward(w http.ResponseWriter, r *http.Request, viewName string) {
	if d.views == nil || !d.views.Has(viewName) {
		metrics.RecordNotFound("view")
		d.logger.Warn("Could not find page", "view", viewName)
		web.SendError(w, http.StatusNotFound, "Could not find page "+viewName)
		return
	}

	if d.sessions != nil {
		if _, isNew := d.sessions.Ensure(w, r); isNew {
			metrics.RecordSession()
		}
	}

	if err := d.views.Forward(w, viewName, web.Attrs(r), d.encoding); err != nil {
		d.logger.Error("Failed to render page", "view", viewName, "error", err)
		web.SendError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
