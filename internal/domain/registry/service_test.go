package registry

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// memoryRepo mirrors the SQL repository's contract, including the atomic
// least-loaded selection semantics.
type memoryRepo struct {
	mu       sync.Mutex
	officers map[string]*Officer
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{officers: map[string]*Officer{}}
}

func (r *memoryRepo) Create(_ context.Context, o *Officer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.officers[o.OfficerID]; ok {
		return errors.New(errors.ErrCodeOfficerDuplicate, "officer already registered")
	}
	clone := *o
	r.officers[o.OfficerID] = &clone
	return nil
}

func (r *memoryRepo) GetByOfficerID(_ context.Context, officerID string) (*Officer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.officers[officerID]
	if !ok {
		return nil, errors.New(errors.ErrCodeOfficerNotFound, "officer not found")
	}
	clone := *o
	return &clone, nil
}

func (r *memoryRepo) Update(_ context.Context, o *Officer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.officers[o.OfficerID]; !ok {
		return errors.New(errors.ErrCodeOfficerNotFound, "officer not found")
	}
	clone := *o
	r.officers[o.OfficerID] = &clone
	return nil
}

func (r *memoryRepo) List(_ context.Context, filter ListFilter) ([]*Officer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Officer
	for _, o := range r.officers {
		if filter.ActiveOnly && !o.IsActive {
			continue
		}
		if filter.Specialization != "" && !o.HasSpecialization(filter.Specialization) {
			continue
		}
		clone := *o
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OfficerID < out[j].OfficerID })
	return out, int64(len(out)), nil
}

func (r *memoryRepo) Stats(_ context.Context) (*Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &Stats{BySpecialization: map[Specialization]int64{}}
	for _, o := range r.officers {
		s.TotalOfficers++
		if o.IsActive {
			s.ActiveOfficers++
		}
		for _, sp := range o.Specializations {
			s.BySpecialization[sp]++
		}
	}
	return s, nil
}

func (r *memoryRepo) AcquireLeastLoaded(_ context.Context, spec Specialization) (*Officer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *Officer
	for _, o := range r.officers {
		if !o.IsActive || !o.HasSpecialization(spec) {
			continue
		}
		if best == nil || lessLoaded(o, best) {
			best = o
		}
	}
	if best == nil {
		return nil, errors.New(errors.ErrCodeNoOfficerAvailable, "no active officer for specialization")
	}

	best.TotalAssigned++
	best.ActiveAppointmentCount++
	t := time.Now().UTC()
	best.LastAssignedAt = &t
	clone := *best
	return &clone, nil
}

func lessLoaded(a, b *Officer) bool {
	if a.ActiveAppointmentCount != b.ActiveAppointmentCount {
		return a.ActiveAppointmentCount < b.ActiveAppointmentCount
	}
	switch {
	case a.LastAssignedAt == nil:
		return true
	case b.LastAssignedAt == nil:
		return false
	default:
		return a.LastAssignedAt.Before(*b.LastAssignedAt)
	}
}

func (r *memoryRepo) ReleaseActive(_ context.Context, officerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.officers[officerID]
	if !ok {
		return errors.New(errors.ErrCodeOfficerNotFound, "officer not found")
	}
	if o.ActiveAppointmentCount > 0 {
		o.ActiveAppointmentCount--
	}
	return nil
}

var (
	admin   = common.Actor{ID: "admin-1", Role: common.RoleAdmin}
	officer = common.Actor{ID: "officer-1", Role: common.RoleLegalOfficer}
	worker  = common.Actor{ID: "worker-1", Role: common.RoleWorker}
)

func newTestService(repo Repository) Service {
	return NewService(repo, logging.NewNopLogger())
}

func register(t *testing.T, svc Service, officerID string, specs ...Specialization) *Officer {
	t.Helper()
	o, err := svc.Register(context.Background(), admin, RegisterInput{
		OfficerID:       officerID,
		Name:            "Officer " + officerID,
		Email:           officerID + "@laborguard.example",
		Specializations: specs,
	})
	require.NoError(t, err)
	return o
}

func TestRegister_AdminOnlyAndDuplicate(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Register(context.Background(), worker, RegisterInput{})
	assert.Equal(t, errors.ErrCodeForbidden, errors.GetCode(err))

	register(t, svc, "off-1", SpecializationLaborLaw)
	_, err = svc.Register(context.Background(), admin, RegisterInput{
		OfficerID:       "off-1",
		Name:            "Duplicate",
		Email:           "dup@laborguard.example",
		Specializations: []Specialization{SpecializationLaborLaw},
	})
	assert.Equal(t, errors.ErrCodeOfficerDuplicate, errors.GetCode(err))
}

func TestAssignLeastLoaded_PrefersLowestActiveCount(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	register(t, svc, "busy", SpecializationLaborLaw)
	register(t, svc, "idle", SpecializationLaborLaw)

	// Load one officer with two assignments.
	for i := 0; i < 2; i++ {
		o, err := svc.AssignLeastLoaded(context.Background(), SpecializationLaborLaw)
		require.NoError(t, err)
		_ = o
	}

	// After two rounds both carry one assignment; the next three picks must
	// keep the counts balanced within one.
	for i := 0; i < 3; i++ {
		_, err := svc.AssignLeastLoaded(context.Background(), SpecializationLaborLaw)
		require.NoError(t, err)
	}

	a, _ := repo.GetByOfficerID(context.Background(), "busy")
	b, _ := repo.GetByOfficerID(context.Background(), "idle")
	diff := a.ActiveAppointmentCount - b.ActiveAppointmentCount
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, int64(1))
	assert.EqualValues(t, 5, a.ActiveAppointmentCount+b.ActiveAppointmentCount)
}

func TestAssignLeastLoaded_NeverAssignedFirst(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	veteran := register(t, svc, "veteran", SpecializationHarassmentLaw)
	_ = veteran
	// Give the veteran history, then release the load.
	_, err := svc.AssignLeastLoaded(context.Background(), SpecializationHarassmentLaw)
	require.NoError(t, err)
	require.NoError(t, svc.ReleaseOfficer(context.Background(), "veteran"))

	register(t, svc, "rookie", SpecializationHarassmentLaw)

	picked, err := svc.AssignLeastLoaded(context.Background(), SpecializationHarassmentLaw)
	require.NoError(t, err)
	assert.Equal(t, "rookie", picked.OfficerID)
}

func TestAssignLeastLoaded_SpecializationMatch(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	register(t, svc, "labor-only", SpecializationLaborLaw)

	_, err := svc.AssignLeastLoaded(context.Background(), SpecializationDiscriminationLaw)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNoOfficerAvailable, errors.GetCode(err))
}

func TestAssignLeastLoaded_SkipsInactive(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	register(t, svc, "off-1", SpecializationLaborLaw)

	_, err := svc.Deactivate(context.Background(), admin, "off-1")
	require.NoError(t, err)

	_, err = svc.AssignLeastLoaded(context.Background(), SpecializationLaborLaw)
	assert.Equal(t, errors.ErrCodeNoOfficerAvailable, errors.GetCode(err))
}

func TestDeactivate_AlreadyInactive(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	register(t, svc, "off-1", SpecializationLaborLaw)

	_, err := svc.Deactivate(context.Background(), admin, "off-1")
	require.NoError(t, err)

	_, err = svc.Deactivate(context.Background(), admin, "off-1")
	assert.Equal(t, errors.ErrCodeInvalidState, errors.GetCode(err))
}

func TestReleaseOfficer_FloorsAtZero(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	register(t, svc, "off-1", SpecializationLaborLaw)

	require.NoError(t, svc.ReleaseOfficer(context.Background(), "off-1"))
	o, err := repo.GetByOfficerID(context.Background(), "off-1")
	require.NoError(t, err)
	assert.Zero(t, o.ActiveAppointmentCount)
}

func TestIsActiveOfficer(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	register(t, svc, "off-1", SpecializationLaborLaw)

	require.NoError(t, svc.IsActiveOfficer(context.Background(), "off-1"))

	_, err := svc.Deactivate(context.Background(), admin, "off-1")
	require.NoError(t, err)
	err = svc.IsActiveOfficer(context.Background(), "off-1")
	assert.Equal(t, errors.ErrCodeOfficerInactive, errors.GetCode(err))

	err = svc.IsActiveOfficer(context.Background(), "ghost")
	assert.True(t, errors.IsNotFound(err))
}

func TestStats(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	register(t, svc, "a", SpecializationLaborLaw, SpecializationHarassmentLaw)
	register(t, svc, "b", SpecializationLaborLaw)
	_, err := svc.Deactivate(context.Background(), admin, "b")
	require.NoError(t, err)

	_, err = svc.Stats(context.Background(), officer)
	assert.Equal(t, errors.ErrCodeForbidden, errors.GetCode(err))

	stats, err := svc.Stats(context.Background(), admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalOfficers)
	assert.EqualValues(t, 1, stats.ActiveOfficers)
	assert.EqualValues(t, 2, stats.BySpecialization[SpecializationLaborLaw])
	assert.EqualValues(t, 1, stats.BySpecialization[SpecializationHarassmentLaw])
}
