package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/laborguard/complaint-service/internal/domain/registry"
)

// officerStatsKey is the cache key for the roster stats payload.
const officerStatsKey = "stats:officers"

// RegistryHandler serves the /registry resource.
type RegistryHandler struct {
	svc   registry.Service
	stats StatsCache
}

// NewRegistryHandler builds the handler.  A nil stats cache disables stats
// caching.
func NewRegistryHandler(svc registry.Service, stats StatsCache) *RegistryHandler {
	return &RegistryHandler{svc: svc, stats: stats}
}

// Register handles POST /registry.
func (h *RegistryHandler) Register(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var input registry.RegisterInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeAppError(w, err)
		return
	}

	o, err := h.svc.Register(r.Context(), actor, input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// List handles GET /registry.
func (h *RegistryHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	filter := registry.ListFilter{
		Specialization: registry.Specialization(r.URL.Query().Get("specialization")),
		ActiveOnly:     r.URL.Query().Get("active") == "true",
		Pagination:     parsePagination(r),
	}
	items, total, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, items, filter.Pagination, total)
}

// Stats handles GET /registry/stats.
func (h *RegistryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	if h.stats != nil {
		var cached registry.Stats
		if h.stats.Get(r.Context(), officerStatsKey, &cached) && actor.IsAdmin() {
			writeJSON(w, http.StatusOK, &cached)
			return
		}
	}

	stats, err := h.svc.Stats(r.Context(), actor)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if h.stats != nil {
		h.stats.Set(r.Context(), officerStatsKey, stats)
	}
	writeJSON(w, http.StatusOK, stats)
}

// Get handles GET /registry/{officerID}.
func (h *RegistryHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	o, err := h.svc.Get(r.Context(), actor, chi.URLParam(r, "officerID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// Update handles PUT /registry/{officerID}.
func (h *RegistryHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var input registry.UpdateInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeAppError(w, err)
		return
	}

	o, err := h.svc.Update(r.Context(), actor, chi.URLParam(r, "officerID"), input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// Deactivate handles PATCH /registry/{officerID}/deactivate: a soft delete that keeps
// the assignment history.
func (h *RegistryHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	o, err := h.svc.Deactivate(r.Context(), actor, chi.URLParam(r, "officerID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
