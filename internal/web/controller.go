// Package web holds the contract between the dispatcher and page
// controllers: the Controller interface, per-request attributes and
// response helpers.
package web

import "net/http"

// Controller handles requests for the URLs it is bound to.
//
// One controller instance serves all concurrent requests, so controllers
// must not keep per-request state in their fields.
type Controller interface {
	// Name returns the binding name of the controller, e.g. "statsPageUrl".
	Name() string

	// HandleRequest handles the request. It returns the view to render, or
	// an empty string when the response was written directly. Returned
	// errors (and panics) are turned into a 500 response by the dispatcher.
	HandleRequest(w http.ResponseWriter, r *http.Request) (view string, err error)
}

// ControllerFunc adapts a function to the Controller interface.
type ControllerFunc struct {
	ControllerName string
	Fn             func(w http.ResponseWriter, r *http.Request) (string, error)
}

// Name returns the controller name.
func (c ControllerFunc) Name() string {
	return c.ControllerName
}

// HandleRequest calls the function.
func (c ControllerFunc) HandleRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	return c.Fn(w, r)
}
