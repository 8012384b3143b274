package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	tests := []struct {
		name       string
		requestURI string
		want       string
		wantErr    bool
	}{
		{"plain path", "/app/pages/stats", "/app/pages/stats", false},
		{"query stripped", "/app/pages/stats?x=1&y=2", "/app/pages/stats", false},
		{"absolute form", "http://example.com:8080/app/pages/index?q", "/app/pages/index", false},
		{"escaped", "/app/a%20b", "/app/a b", false},
		{"root", "/", "/", false},
		{"bad escape", "/app/%zz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RequestURI = tt.requestURI
			got, err := CanonicalPath(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalPath_NoRequestURI(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/app/pages/log?x=1", nil)
	r.RequestURI = ""

	got, err := CanonicalPath(r)
	require.NoError(t, err)
	assert.Equal(t, "/app/pages/log", got)
}

func TestRequestContext(t *testing.T) {
	_, err := RequestedURL(context.Background())
	assert.ErrorIs(t, err, ErrNoRequestedURL)

	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r = r.WithContext(WithRequest(r.Context(), "/x"))

	u, err := RequestedURL(r.Context())
	require.NoError(t, err)
	assert.Equal(t, "/x", u)

	Attrs(r).Set(AttrPageTitle, "Title")
	assert.Equal(t, "Title", Attrs(r).String(AttrPageTitle))
	assert.Equal(t, "Title", Attrs(r).Map()[AttrPageTitle])
	assert.Nil(t, Attrs(r).Get("missing"))
	assert.Equal(t, "", Attrs(r).String("missing"))
}

func TestAttrs_Detached(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	Attrs(r).Set("a", 1)
	assert.Nil(t, Attrs(r).Get("a"))
}

func TestParamTrimmed(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?token=%20abc%20&blank=%20", nil)
	assert.Equal(t, "abc", ParamTrimmed(r, "token"))
	assert.Equal(t, "", ParamTrimmed(r, "blank"))
	assert.Equal(t, "", ParamTrimmed(r, "missing"))
}
