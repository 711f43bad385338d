package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
)

// LoggingMiddleware emits one structured log line per request.
type LoggingMiddleware struct {
	log logging.Logger
}

// NewLoggingMiddleware builds the middleware.
func NewLoggingMiddleware(log logging.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{log: log.Named("http")}
}

// Handler wraps the response writer to capture status and size.
func (m *LoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		m.log.Info("request",
			logging.String("method", r.Method),
			logging.String("route", route),
			logging.Int("status", ww.Status()),
			logging.Int("bytes", ww.BytesWritten()),
			logging.Duration("elapsed", time.Since(start)),
			logging.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}
