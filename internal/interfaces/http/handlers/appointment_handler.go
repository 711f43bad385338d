package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/laborguard/complaint-service/internal/domain/appointment"
	"github.com/laborguard/complaint-service/pkg/errors"
)

// AppointmentHandler serves the /appointments resource.
type AppointmentHandler struct {
	svc appointment.Service
}

// NewAppointmentHandler builds the handler.
func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

// List handles GET /appointments.  Role scoping happens in the service:
// workers see their own, officers their assigned, admins everything.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	filter := appointment.ListFilter{
		Status:     appointment.Status(r.URL.Query().Get("status")),
		Pagination: parsePagination(r),
	}
	items, total, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, items, filter.Pagination, total)
}

// ListMine handles GET /appointments/my: the caller's own appointments.
func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	filter := appointment.ListFilter{
		WorkerID:   actor.ID,
		Status:     appointment.Status(r.URL.Query().Get("status")),
		Pagination: parsePagination(r),
	}
	items, total, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, items, filter.Pagination, total)
}

// ListAssigned handles GET /appointments/assigned: the officer's caseload.
func (h *AppointmentHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	filter := appointment.ListFilter{
		LegalOfficerID: actor.ID,
		Status:         appointment.Status(r.URL.Query().Get("status")),
		Pagination:     parsePagination(r),
	}
	items, total, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, items, filter.Pagination, total)
}

// Get handles GET /appointments/{id}.
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	a, err := h.svc.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type confirmRequest struct {
	MeetingDetails string `json:"meeting_details"`
	Notes          string `json:"notes"`
}

// Confirm handles PATCH /appointments/{id}/confirm.
func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req confirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	a, err := h.svc.Confirm(r.Context(), actor, chi.URLParam(r, "id"), req.MeetingDetails, req.Notes)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type rescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
}

// Reschedule handles PATCH /appointments/{id}/reschedule.
func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req rescheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.ScheduledAt.IsZero() {
		writeAppError(w, errors.Validation("scheduled_at is required"))
		return
	}

	a, err := h.svc.Reschedule(r.Context(), actor, chi.URLParam(r, "id"), req.ScheduledAt, req.Reason)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles PATCH /appointments/{id}/cancel.
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req cancelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	a, err := h.svc.Cancel(r.Context(), actor, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Complete handles PATCH /appointments/{id}/complete.
func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	a, err := h.svc.Complete(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
