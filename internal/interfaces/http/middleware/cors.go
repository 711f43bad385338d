package middleware

import (
	"net/http"
)

// CORSMiddleware applies a permissive CORS policy suitable for the web and
// mobile frontends.
type CORSMiddleware struct {
	allowedOrigins string
}

// NewCORSMiddleware builds the middleware.  Pass "*" to allow any origin.
func NewCORSMiddleware(allowedOrigins string) *CORSMiddleware {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return &CORSMiddleware{allowedOrigins: allowedOrigins}
}

// Handler sets the CORS headers and short-circuits preflight requests.
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", m.allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
