package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker verifies one dependency.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler builds the handler over named dependency checks.
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness handles GET /healthz: the process is up.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /readyz: every dependency answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.HealthCheck(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	writeJSON(w, status, results)
}
