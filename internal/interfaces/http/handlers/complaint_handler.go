package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/internal/infrastructure/storage/minio"
	"github.com/laborguard/complaint-service/internal/reports"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// maxAttachmentBytes caps a single evidence upload.
const maxAttachmentBytes = 25 << 20

// complaintStatsKey is the cache key for the aggregate stats payload.
const complaintStatsKey = "stats:complaints"

// ComplaintHandler serves the /complaints resource.
type ComplaintHandler struct {
	svc      complaint.Service
	evidence *minio.EvidenceStore
	renderer *reports.Renderer
	stats    StatsCache
	log      logging.Logger
}

// NewComplaintHandler builds the handler.  evidence may be nil, in which case
// attachment uploads are rejected as unavailable; a nil stats cache disables
// stats caching.
func NewComplaintHandler(svc complaint.Service, evidence *minio.EvidenceStore,
	renderer *reports.Renderer, stats StatsCache, log logging.Logger) *ComplaintHandler {
	return &ComplaintHandler{svc: svc, evidence: evidence, renderer: renderer, stats: stats, log: log}
}

// Create handles POST /complaints.
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var input complaint.CreateInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeAppError(w, err)
		return
	}

	c, err := h.svc.Create(r.Context(), actor, input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// List handles GET /complaints with filter, sort and pagination parameters.
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	q := r.URL.Query()
	filter := complaint.ListFilter{
		Status:     complaint.Status(q.Get("status")),
		Category:   complaint.Category(q.Get("category")),
		Priority:   complaint.Priority(q.Get("priority")),
		AssignedTo: q.Get("assigned_to"),
		Search:     q.Get("search"),
		SortBy:     q.Get("sort_by"),
		Order:      common.SortOrder(q.Get("order")),
		Pagination: parsePagination(r),
	}

	items, total, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, items, filter.Pagination, total)
}

// ListMine handles GET /complaints/my: the caller's own complaints.
func (h *ComplaintHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	filter := complaint.ListFilter{
		WorkerID:   actor.ID,
		Status:     complaint.Status(r.URL.Query().Get("status")),
		Pagination: parsePagination(r),
	}
	items, total, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, items, filter.Pagination, total)
}

// Stats handles GET /complaints/stats.
func (h *ComplaintHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	if h.stats != nil {
		var cached complaint.Stats
		if h.stats.Get(r.Context(), complaintStatsKey, &cached) {
			// Authorization still applies on a cache hit.
			if !actor.IsAdmin() && !actor.IsOfficer() {
				writeAppError(w, errors.Forbidden("stats are restricted to staff roles"))
				return
			}
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
		h.stats.Set(r.Context(), complaintStatsKey, stats)
	}
	writeJSON(w, http.StatusOK, stats)
}

// Get handles GET /complaints/{id}.
func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	c, err := h.svc.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Update handles PUT /complaints/{id}.
func (h *ComplaintHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var input complaint.UpdateInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeAppError(w, err)
		return
	}

	c, err := h.svc.Update(r.Context(), actor, chi.URLParam(r, "id"), input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /complaints/{id}.
func (h *ComplaintHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	if err := h.svc.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status complaint.Status `json:"status"`
	Reason string           `json:"reason"`
}

// UpdateStatus handles PATCH /complaints/{id}/status.
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	c, err := h.svc.TransitionStatus(r.Context(), actor, chi.URLParam(r, "id"), req.Status, req.Reason)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type assignRequest struct {
	OfficerID string `json:"officer_id"`
}

// Assign handles PATCH /complaints/{id}/assign.
func (h *ComplaintHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.OfficerID == "" {
		writeAppError(w, errors.Validation("officer_id is required"))
		return
	}

	c, err := h.svc.Assign(r.Context(), actor, chi.URLParam(r, "id"), req.OfficerID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UploadAttachment handles POST /complaints/{id}/attachments (multipart).
func (h *ComplaintHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	if h.evidence == nil {
		writeAppError(w, errors.Unavailable("evidence storage is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeAppError(w, errors.Validation("a multipart 'file' field is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	stored, err := h.evidence.Put(r.Context(), chi.URLParam(r, "id"),
		header.Filename, contentType, file, header.Size)
	if err != nil {
		writeAppError(w, err)
		return
	}

	c, err := h.svc.AddAttachment(r.Context(), actor, chi.URLParam(r, "id"),
		stored.URL, fileTypeFromContentType(contentType), header.Filename)
	if err != nil {
		// The complaint rejected the attachment; do not leave the orphan
		// object behind.
		if rmErr := h.evidence.Remove(r.Context(), stored.Key); rmErr != nil {
			h.log.Warn("failed to remove orphan evidence object",
				logging.String("key", stored.Key), logging.Err(rmErr))
		}
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// DownloadAttachment handles GET /complaints/{id}/attachments/{index}:
// responds with a time-limited presigned URL for the stored evidence object.
func (h *ComplaintHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	if h.evidence == nil {
		writeAppError(w, errors.Unavailable("evidence storage is not configured"))
		return
	}

	c, err := h.svc.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(c.Attachments) {
		writeAppError(w, errors.NotFound("attachment not found"))
		return
	}

	key, ok := h.evidence.KeyFromURL(c.Attachments[index].URL)
	if !ok {
		writeAppError(w, errors.NotFound("attachment is not stored in evidence storage"))
		return
	}
	download, err := h.evidence.PresignedGet(r.Context(), key)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": download})
}

func fileTypeFromContentType(contentType string) complaint.FileType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return complaint.FileTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return complaint.FileTypeVideo
	default:
		return complaint.FileTypeDocument
	}
}

// Report handles GET /complaints/{id}/report: the complaint with its audit
// trail rendered as a downloadable document.
func (h *ComplaintHandler) Report(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	c, err := h.svc.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	doc, err := h.renderer.ComplaintReport(c, time.Now().UTC())
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="complaint-`+c.ID+`.html"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
