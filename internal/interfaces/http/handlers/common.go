// Package handlers contains the HTTP request handlers for the REST API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/laborguard/complaint-service/internal/interfaces/http/middleware"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// StatsCache is the short-TTL cache in front of the aggregate stats queries.
// Satisfied by the Redis cache; a nil cache disables caching.
type StatsCache interface {
	Get(ctx context.Context, key string, dst interface{}) bool
	Set(ctx context.Context, key string, value interface{})
}

// actorFrom extracts the authenticated actor placed by the auth middleware.
func actorFrom(r *http.Request) (common.Actor, bool) {
	return middleware.ActorFromContext(r.Context())
}

// parsePagination extracts page and page_size from query parameters.
func parsePagination(r *http.Request) common.Pagination {
	page := 1
	pageSize := 20

	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return common.Pagination{Page: page, PageSize: pageSize}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Validation("invalid request body").WithDetail(err.Error())
	}
	return nil
}

// ListResponse is the standard paginated list envelope.
type ListResponse struct {
	Data       interface{}       `json:"data"`
	Pagination common.Pagination `json:"pagination"`
}

func writeList(w http.ResponseWriter, data interface{}, p common.Pagination, total int64) {
	p.Total = total
	writeJSON(w, http.StatusOK, ListResponse{Data: data, Pagination: p})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError maps a coded error to its HTTP status.  Server-side failures
// are masked so internals never leak to API callers.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: message})
}

// writeUnauthenticated is used when the actor is missing from the context,
// which only happens if a route skipped the auth middleware.
func writeUnauthenticated(w http.ResponseWriter) {
	writeAppError(w, errors.Unauthenticated("authentication required"))
}
