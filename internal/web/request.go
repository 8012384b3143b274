package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// Attribute names shared by controllers and views.
const (
	AttrPageTitle = "pageTitle"
)

// ErrNoRequestedURL is returned when a request did not pass the request
// filter.
var ErrNoRequestedURL = errors.New("no requested URL")

type contextKey int

const (
	requestedURLKey contextKey = iota
	attributesKey
)

// Attributes carries values from a controller to the view that renders
// the response. An Attributes value belongs to a single request.
type Attributes struct {
	values map[string]any
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]any)}
}

// Set stores a value.
func (a *Attributes) Set(name string, value any) {
	a.values[name] = value
}

// Get returns a value, or nil when it is not set.
func (a *Attributes) Get(name string) any {
	return a.values[name]
}

// String returns a value as string, or "" when it is not a string.
func (a *Attributes) String(name string) string {
	s, _ := a.values[name].(string)
	return s
}

// Map returns the attributes as a map for template execution.
func (a *Attributes) Map() map[string]any {
	return a.values
}

// WithRequest returns a context holding the requested URL and a fresh
// attribute set.
func WithRequest(ctx context.Context, requestedURL string) context.Context {
	ctx = context.WithValue(ctx, requestedURLKey, requestedURL)
	return context.WithValue(ctx, attributesKey, NewAttributes())
}

// RequestedURL returns the canonical path stored by the request filter.
func RequestedURL(ctx context.Context) (string, error) {
	u, ok := ctx.Value(requestedURLKey).(string)
	if !ok {
		return "", ErrNoRequestedURL
	}
	return u, nil
}

// Attrs returns the attribute set of the request. Requests that did not
// pass the request filter get a detached, empty set.
func Attrs(r *http.Request) *Attributes {
	if a, ok := r.Context().Value(attributesKey).(*Attributes); ok {
		return a
	}
	return NewAttributes()
}

// CanonicalPath returns the path of the request URI without scheme, host
// and query string.
func CanonicalPath(r *http.Request) (string, error) {
	if r.RequestURI != "" && r.RequestURI != "*" {
		u, err := url.ParseRequestURI(r.RequestURI)
		if err != nil {
			return "", err
		}
		return normalizePath(u.Path), nil
	}
	if r.URL == nil {
		return "", errors.New("request without URL")
	}
	return normalizePath(r.URL.Path), nil
}

func normalizePath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

// ParamTrimmed returns the trimmed query or form parameter, or "" when it
// is missing or blank.
func ParamTrimmed(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}
