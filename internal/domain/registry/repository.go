package registry

import (
	"context"

	"github.com/laborguard/complaint-service/pkg/types/common"
)

// ListFilter narrows officer listings.
type ListFilter struct {
	Specialization Specialization
	ActiveOnly     bool
	Pagination     common.Pagination
}

// Stats summarizes the roster for the admin dashboard.
type Stats struct {
	TotalOfficers    int64                    `json:"total_officers"`
	ActiveOfficers   int64                    `json:"active_officers"`
	BySpecialization map[Specialization]int64 `json:"by_specialization"`
}

// Repository is the persistence port for the officer registry.
//
// AcquireLeastLoaded is the assignment engine's core operation: in a single
// atomic statement it selects the active officer with the given
// specialization who has the lowest ActiveAppointmentCount (ties broken by
// oldest LastAssignedAt, never-assigned first), increments both counters,
// stamps LastAssignedAt, and returns the updated row.  Concurrent callers
// therefore never pick the same "least loaded" officer from a stale read.
// It returns ErrCodeNoOfficerAvailable when no candidate exists.
//
// ReleaseActive decrements ActiveAppointmentCount by one, never below zero.
type Repository interface {
	Create(ctx context.Context, o *Officer) error
	GetByOfficerID(ctx context.Context, officerID string) (*Officer, error)
	Update(ctx context.Context, o *Officer) error
	List(ctx context.Context, filter ListFilter) ([]*Officer, int64, error)
	Stats(ctx context.Context) (*Stats, error)
	AcquireLeastLoaded(ctx context.Context, spec Specialization) (*Officer, error)
	ReleaseActive(ctx context.Context, officerID string) error
}
