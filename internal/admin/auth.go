// Package admin guards restricted pages (environment, logs, metrics) with
// a shared admin token.
package admin

import (
	cryptorand "crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// Length of a generated admin token
	tokenLength = 32
	// CookieName is the admin cookie set after a successful login.
	CookieName   = "pagews_admin_token"
	cookieMaxAge = 86400 // 24 hours in seconds
	// TokenParam is the query parameter carrying the token on login.
	TokenParam = "token"
)

// Authenticator validates admin tokens.
type Authenticator struct {
	token     string
	generated bool
	useHTTPS  bool
}

// NewAuthenticator creates an authenticator for the configured token.
// An empty token is replaced by a random one, see Generated.
func NewAuthenticator(token string, useHTTPS bool) (*Authenticator, error) {
	a := &Authenticator{token: strings.TrimSpace(token), useHTTPS: useHTTPS}
	if a.token == "" {
		t, err := generateSecureRandomString(tokenLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate admin token: %w", err)
		}
		a.token = t
		a.generated = true
	}
	return a, nil
}

// generateSecureRandomString returns a URL-safe random string of the given
// length read from crypto/rand.
func generateSecureRandomString(length int) (string, error) {
	// base64 yields 4 characters per 3 bytes
	b := make([]byte, (length*3)/4+1)
	if _, err := cryptorand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secure random string: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(b)
	return encoded[:length], nil
}

// Token returns the admin token.
func (a *Authenticator) Token() string {
	return a.token
}

// Generated reports whether the token was generated at startup.
func (a *Authenticator) Generated() bool {
	return a.generated
}

// ValidateToken compares token with the admin token in constant time.
func (a *Authenticator) ValidateToken(token string) bool {
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

// TokenFromRequest returns the token from the admin cookie, a bearer
// Authorization header or the token query parameter, in that order.
func (a *Authenticator) TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get(TokenParam)
}

// IsAuthenticated reports whether the request carries the admin token.
func (a *Authenticator) IsAuthenticated(r *http.Request) bool {
	return a.ValidateToken(a.TokenFromRequest(r))
}

// SetCookie sets the admin cookie. The Secure flag follows useHTTPS.
func (a *Authenticator) SetCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    a.token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   a.useHTTPS,
	})
}

// LoginURL returns the absolute login URL including the token, e.g.
// "http://localhost:8080/app/pages/login?token=...".
func (a *Authenticator) LoginURL(host, loginPath string) string {
	scheme := "http"
	if a.useHTTPS {
		scheme = "https"
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     loginPath,
		RawQuery: url.Values{TokenParam: {a.token}}.Encode(),
	}
	return u.String()
}
