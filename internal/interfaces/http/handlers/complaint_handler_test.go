package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/internal/interfaces/http/middleware"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// statsOnlyService stubs the one method the stats tests exercise.
type statsOnlyService struct {
	complaint.Service
	calls int
	stats *complaint.Stats
}

func (s *statsOnlyService) Stats(context.Context, common.Actor) (*complaint.Stats, error) {
	s.calls++
	return s.stats, nil
}

// mapCache is an in-memory StatsCache.
type mapCache struct {
	entries map[string]interface{}
}

func newMapCache() *mapCache { return &mapCache{entries: map[string]interface{}{}} }

func (c *mapCache) Get(_ context.Context, key string, dst interface{}) bool {
	v, ok := c.entries[key]
	if !ok {
		return false
	}
	*dst.(*complaint.Stats) = *v.(*complaint.Stats)
	return true
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}) {
	c.entries[key] = value
}

func statsRequest(role common.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/complaints/stats", nil)
	ctx := middleware.WithActor(req.Context(), common.Actor{ID: "u1", Role: role})
	return req.WithContext(ctx)
}

func TestComplaintHandler_StatsCaching(t *testing.T) {
	svc := &statsOnlyService{stats: &complaint.Stats{Total: 7}}
	cache := newMapCache()
	h := NewComplaintHandler(svc, nil, nil, cache, logging.NewNopLogger())

	// Miss populates the cache.
	rec := httptest.NewRecorder()
	h.Stats(rec, statsRequest(common.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Contains(t, cache.entries, complaintStatsKey)

	// Hit skips the service.
	rec = httptest.NewRecorder()
	h.Stats(rec, statsRequest(common.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Contains(t, rec.Body.String(), `"total":7`)
}

func TestComplaintHandler_StatsCacheHitStillAuthorizes(t *testing.T) {
	svc := &statsOnlyService{stats: &complaint.Stats{Total: 7}}
	cache := newMapCache()
	cache.entries[complaintStatsKey] = &complaint.Stats{Total: 7}
	h := NewComplaintHandler(svc, nil, nil, cache, logging.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Stats(rec, statsRequest(common.RoleWorker))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, svc.calls)
}

// updateRecordingService captures the input passed to Update.
type updateRecordingService struct {
	complaint.Service
	got *complaint.UpdateInput
}

func (s *updateRecordingService) Update(_ context.Context, _ common.Actor, _ common.ID, input complaint.UpdateInput) (*complaint.Complaint, error) {
	s.got = &input
	return &complaint.Complaint{}, nil
}

func TestComplaintHandler_UpdateRejectsAnonymityFlip(t *testing.T) {
	svc := &updateRecordingService{}
	h := NewComplaintHandler(svc, nil, nil, nil, logging.NewNopLogger())

	body := strings.NewReader(`{"is_anonymous": false}`)
	req := httptest.NewRequest(http.MethodPut, "/complaints/c-1", body)
	req = req.WithContext(middleware.WithActor(req.Context(), common.Actor{ID: "worker-1", Role: common.RoleWorker}))

	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.got)
}

func TestComplaintHandler_StatsWithoutCache(t *testing.T) {
	svc := &statsOnlyService{stats: &complaint.Stats{Total: 3}}
	h := NewComplaintHandler(svc, nil, nil, nil, logging.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Stats(rec, statsRequest(common.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.calls)
}
