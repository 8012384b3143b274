package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rampantspark/pagews/internal/metrics"
	"github.com/rampantspark/pagews/internal/web"
)

// RequestCounter counts requests per canonical path.
type RequestCounter interface {
	IncRequest(requestURL string) int64
}

// Filter creates the request filter.
//
// It resolves the canonical path of the request, stores it together with
// a fresh attribute set in the request context, counts the request and
// always calls next. A request URI that cannot be parsed is answered with
// 400 Bad Request.
func Filter(counter RequestCounter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path, err := web.CanonicalPath(r)
			if err != nil {
				logger.Warn("Invalid request URI", "uri", r.RequestURI, "error", err)
				http.Error(w, "Bad Request", http.StatusBadRequest)
				return
			}

			counter.IncRequest(path)
			metrics.RecordRequest(path)
			web.LogRequestDetails(logger, r)

			next.ServeHTTP(w, r.WithContext(web.WithRequest(r.Context(), path)))
		})
	}
}

// Chain applies middlewares so that the first one is the outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
