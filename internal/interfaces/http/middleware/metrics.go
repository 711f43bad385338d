package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/prometheus"
)

// Metrics records the request counter and latency histogram.  Routes are
// labelled by chi pattern, not raw path, to keep cardinality bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		prometheus.HTTPRequestsTotal.WithLabelValues(
			r.Method, route, strconv.Itoa(ww.Status())).Inc()
		prometheus.HTTPRequestDuration.WithLabelValues(
			r.Method, route).Observe(time.Since(start).Seconds())
	})
}
