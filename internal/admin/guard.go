package admin

import (
	"html"
	"io"
	"net/http"
)

// SetSecurityHeaders sets the headers used for restricted pages.
func SetSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy",
		"default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")
}

// Forbid answers 403 with a page pointing to the login URL.
func Forbid(w http.ResponseWriter, loginPath string) {
	SetSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	io.WriteString(w, "<!DOCTYPE html>\n<html>\n<head><title>Access Denied</title></head>\n<body>\n"+
		"<h1>403 Forbidden</h1>\n<p>Invalid or missing admin token.</p>\n"+
		"<p>Use: <a href=\""+html.EscapeString(loginPath)+"?token=YOUR_TOKEN\">Login</a></p>\n</body>\n</html>")
}
