package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rampantspark/pagews/internal/metrics"
)

// Limiter decides whether a request from a host may proceed.
type Limiter interface {
	Allow(host string) bool
}

// RateLimit rejects requests with 429 when the host exceeded its rate.
func RateLimit(limiter Limiter, hostFn func(*http.Request) string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := hostFn(r)
			if !limiter.Allow(host) {
				metrics.RecordRateLimited()
				logger.Debug("Request rate limited", "host", host, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
