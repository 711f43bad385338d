package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborguard/complaint-service/internal/domain/appointment"
	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/internal/domain/registry"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/internal/interfaces/http/handlers"
	"github.com/laborguard/complaint-service/internal/interfaces/http/middleware"
	"github.com/laborguard/complaint-service/internal/reports"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

const testSecret = "router-test-secret"

// stubComplaints returns canned data; the router tests only verify wiring,
// auth, and role gates.
type stubComplaints struct {
	created *complaint.Complaint
}

func (s *stubComplaints) Create(_ context.Context, actor common.Actor, input complaint.CreateInput) (*complaint.Complaint, error) {
	c, err := complaint.New(actor.ID, input.Title, input.Description, input.Category,
		input.Priority, input.OrganizationName, input.Location, input.IsAnonymous, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.created = c
	return c, nil
}

func (s *stubComplaints) Update(context.Context, common.Actor, common.ID, complaint.UpdateInput) (*complaint.Complaint, error) {
	return nil, errors.New(errors.ErrCodeComplaintNotFound, "complaint not found")
}

func (s *stubComplaints) TransitionStatus(context.Context, common.Actor, common.ID, complaint.Status, string) (*complaint.Complaint, error) {
	return nil, errors.New(errors.ErrCodeComplaintNotFound, "complaint not found")
}

func (s *stubComplaints) Assign(context.Context, common.Actor, common.ID, string) (*complaint.Complaint, error) {
	return nil, errors.New(errors.ErrCodeComplaintNotFound, "complaint not found")
}

func (s *stubComplaints) AddAttachment(context.Context, common.Actor, common.ID, string, complaint.FileType, string) (*complaint.Complaint, error) {
	return nil, errors.New(errors.ErrCodeComplaintNotFound, "complaint not found")
}

func (s *stubComplaints) Delete(context.Context, common.Actor, common.ID) error {
	return errors.New(errors.ErrCodeComplaintNotFound, "complaint not found")
}

func (s *stubComplaints) GetByID(_ context.Context, _ common.Actor, id common.ID) (*complaint.Complaint, error) {
	if s.created != nil && s.created.ID == id {
		return s.created, nil
	}
	return nil, errors.New(errors.ErrCodeComplaintNotFound, "complaint not found")
}

func (s *stubComplaints) List(context.Context, common.Actor, complaint.ListFilter) ([]*complaint.Complaint, int64, error) {
	return nil, 0, nil
}

func (s *stubComplaints) Stats(context.Context, common.Actor) (*complaint.Stats, error) {
	return &complaint.Stats{}, nil
}

type stubAppointments struct{ appointment.Service }

func (stubAppointments) List(context.Context, common.Actor, appointment.ListFilter) ([]*appointment.Appointment, int64, error) {
	return nil, 0, nil
}

type stubRegistry struct{ registry.Service }

func (stubRegistry) List(context.Context, common.Actor, registry.ListFilter) ([]*registry.Officer, int64, error) {
	return nil, 0, nil
}

type okCheck struct{}

func (okCheck) HealthCheck(context.Context) error { return nil }

func newTestRouter(t *testing.T, complaints complaint.Service) http.Handler {
	t.Helper()
	renderer, err := reports.NewRenderer()
	require.NoError(t, err)

	log := logging.NewNopLogger()
	return NewRouter(RouterConfig{
		ComplaintHandler:   handlers.NewComplaintHandler(complaints, nil, renderer, nil, log),
		AppointmentHandler: handlers.NewAppointmentHandler(stubAppointments{}),
		RegistryHandler:    handlers.NewRegistryHandler(stubRegistry{}, nil),
		HealthHandler:      handlers.NewHealthHandler(map[string]handlers.HealthChecker{"db": okCheck{}}),
		AuthMiddleware:     middleware.NewAuthMiddleware(middleware.NewJWTValidator(testSecret, "")),
		LoggingMiddleware:  middleware.NewLoggingMiddleware(log),
		CORSMiddleware:     middleware.NewCORSMiddleware("*"),
	})
}

func bearer(t *testing.T, sub string, role common.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestRouter_HealthAndMetricsArePublic(t *testing.T) {
	router := newTestRouter(t, &stubComplaints{})

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_APIRequiresAuth(t *testing.T) {
	router := newTestRouter(t, &stubComplaints{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/complaints/my", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CreateComplaint(t *testing.T) {
	stub := &stubComplaints{}
	router := newTestRouter(t, stub)

	body, _ := json.Marshal(complaint.CreateInput{
		Title:       "Unpaid overtime for months",
		Description: strings.Repeat("Overtime hours were never compensated. ", 3),
		Category:    complaint.CategoryWageTheft,
		Priority:    complaint.PriorityHigh,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", bytes.NewReader(body))
	req.Header.Set("Authorization", bearer(t, "worker-1", common.RoleWorker))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created complaint.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "worker-1", created.WorkerID)
}

func TestRouter_RoleGates(t *testing.T) {
	router := newTestRouter(t, &stubComplaints{})

	cases := []struct {
		name   string
		method string
		path   string
		role   common.Role
		want   int
	}{
		{"worker cannot list all complaints", http.MethodGet, "/api/v1/complaints", common.RoleWorker, http.StatusForbidden},
		{"officer cannot list all complaints", http.MethodGet, "/api/v1/complaints", common.RoleLegalOfficer, http.StatusForbidden},
		{"admin can list all complaints", http.MethodGet, "/api/v1/complaints", common.RoleAdmin, http.StatusOK},
		{"officer cannot create complaints", http.MethodPost, "/api/v1/complaints", common.RoleLegalOfficer, http.StatusForbidden},
		{"worker cannot access registry", http.MethodGet, "/api/v1/registry", common.RoleWorker, http.StatusForbidden},
		{"officer can list officers", http.MethodGet, "/api/v1/registry", common.RoleLegalOfficer, http.StatusOK},
		{"officer cannot register officers", http.MethodPost, "/api/v1/registry", common.RoleLegalOfficer, http.StatusForbidden},
		{"officer cannot deactivate officers", http.MethodPatch, "/api/v1/registry/off-1/deactivate", common.RoleLegalOfficer, http.StatusForbidden},
		{"worker can list own appointments", http.MethodGet, "/api/v1/appointments/my", common.RoleWorker, http.StatusOK},
		{"worker cannot list assigned appointments", http.MethodGet, "/api/v1/appointments/assigned", common.RoleWorker, http.StatusForbidden},
		{"officer can list assigned appointments", http.MethodGet, "/api/v1/appointments/assigned", common.RoleLegalOfficer, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewReader([]byte("{}")))
			req.Header.Set("Authorization", bearer(t, "u1", tc.role))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_ReportDownload(t *testing.T) {
	stub := &stubComplaints{}
	router := newTestRouter(t, stub)

	body, _ := json.Marshal(complaint.CreateInput{
		Title:       "Unpaid overtime for months",
		Description: strings.Repeat("Overtime hours were never compensated. ", 3),
		Category:    complaint.CategoryWageTheft,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", bytes.NewReader(body))
	req.Header.Set("Authorization", bearer(t, "worker-1", common.RoleWorker))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/complaints/"+stub.created.ID+"/report", nil)
	req.Header.Set("Authorization", bearer(t, "worker-1", common.RoleWorker))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Complaint Report")
}
