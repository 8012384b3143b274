package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampantspark/pagews/internal/registry"
	"github.com/rampantspark/pagews/internal/session"
	"github.com/rampantspark/pagews/internal/view"
	"github.com/rampantspark/pagews/internal/web"
)

type fakeSessions struct{ calls int }

func (f *fakeSessions) Ensure(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	f.calls++
	return &session.Session{ID: "s"}, f.calls == 1
}

type fakeAuth struct{ ok bool }

func (f fakeAuth) IsAuthenticated(*http.Request) bool { return f.ok }

func controller(name string, fn func(w http.ResponseWriter, r *http.Request) (string, error)) web.Controller {
	return web.ControllerFunc{ControllerName: name, Fn: fn}
}

type fixture struct {
	reg      *registry.Registry
	sessions *fakeSessions
	logs     *bytes.Buffer
	opts     Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	views, err := view.New()
	require.NoError(t, err)

	f := &fixture{
		reg:      registry.New(),
		sessions: &fakeSessions{},
		logs:     &bytes.Buffer{},
	}
	f.opts = Options{
		Registry:  f.reg,
		Views:     views,
		Sessions:  f.sessions,
		LoginPath: "/app/pages/login",
		Encoding:  "UTF-8",
		Logger:    slog.New(slog.NewTextHandler(f.logs, nil)),
	}
	return f
}

func (f *fixture) bind(t *testing.T, path string, restricted bool, c web.Controller) {
	t.Helper()
	require.NoError(t, f.reg.Register(&registry.Binding{Name: c.Name(), Path: path, Controller: c, Restricted: restricted}))
}

func (f *fixture) serve(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(web.WithRequest(req.Context(), path))
	rec := httptest.NewRecorder()
	New(f.opts).ServeHTTP(rec, req)
	return rec
}

func TestDispatch_UnknownPath(t *testing.T) {
	f := newFixture(t)

	rec := f.serve("/app/pages/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot find controller for URL /app/pages/unknown")
	assert.Contains(t, f.logs.String(), "level=WARN")
}

func TestDispatch_UnboundPath(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.reg.Register(&registry.Binding{Name: "x", Path: "/x"}))

	rec := f.serve("/x")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatch_ControllerFailures(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(w http.ResponseWriter, r *http.Request) (string, error)
		wantLog string
	}{
		{
			name: "error",
			fn: func(w http.ResponseWriter, r *http.Request) (string, error) {
				return "", errors.New("database unavailable")
			},
			wantLog: "database unavailable",
		},
		{
			name: "panic",
			fn: func(w http.ResponseWriter, r *http.Request) (string, error) {
				var m map[string]int
				m["x"] = 1
				return "", nil
			},
			wantLog: "stack=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bind(t, "/fail", false, controller("failingController", tt.fn))

			var rec *httptest.ResponseRecorder
			require.NotPanics(t, func() { rec = f.serve("/fail") })
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, f.logs.String(), "level=ERROR")
			assert.Contains(t, f.logs.String(), "controller=failingController")
			assert.Contains(t, f.logs.String(), tt.wantLog)
			assert.Zero(t, f.sessions.calls)
		})
	}
}

func TestDispatch_EmptyViewSkipsForward(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "/direct", false, controller("direct", func(w http.ResponseWriter, r *http.Request) (string, error) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "written directly")
		return "", nil
	}))

	rec := f.serve("/direct")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "written directly", rec.Body.String())
	assert.Zero(t, f.sessions.calls, "no view, no session")
}

func TestDispatch_UnknownView(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "/lost", false, controller("lost", func(w http.ResponseWriter, r *http.Request) (string, error) {
		return "missing", nil
	}))

	rec := f.serve("/lost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not find page missing")
	assert.Contains(t, f.logs.String(), "level=WARN")
}

func TestDispatch_ForwardRendersAttributes(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "/stats", false, controller("stats", func(w http.ResponseWriter, r *http.Request) (string, error) {
		web.Attrs(r).Set(web.AttrPageTitle, "Test Stats")
		web.Attrs(r).Set("stats", "hello stats")
		return view.Stats, nil
	}))

	rec := f.serve("/stats")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Test Stats</title>")
	assert.Contains(t, rec.Body.String(), "hello stats")
	assert.Equal(t, 1, f.sessions.calls)
}

func TestDispatch_Restricted(t *testing.T) {
	ok := controller("secret", func(w http.ResponseWriter, r *http.Request) (string, error) {
		io.WriteString(w, "secret page")
		return "", nil
	})

	tests := []struct {
		name     string
		auth     Authenticator
		wantCode int
	}{
		{"auth disabled", nil, http.StatusOK},
		{"not authenticated", fakeAuth{ok: false}, http.StatusForbidden},
		{"authenticated", fakeAuth{ok: true}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.opts.Auth = tt.auth
			f.bind(t, "/secret", true, ok)

			rec := f.serve("/secret")
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.NotContains(t, rec.Body.String(), "secret page")
				assert.Contains(t, rec.Body.String(), "/app/pages/login")
			}
		})
	}
}

func TestDispatch_WithoutFilterUsesPath(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "/plain", false, controller("plain", func(w http.ResponseWriter, r *http.Request) (string, error) {
		u, err := web.RequestedURL(r.Context())
		if err != nil {
			return "", err
		}
		io.WriteString(w, u)
		return "", nil
	}))

	rec := httptest.NewRecorder()
	New(f.opts).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, "/plain", rec.Body.String())
}
