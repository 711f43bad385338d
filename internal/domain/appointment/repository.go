package appointment

import (
	"context"

	"github.com/laborguard/complaint-service/pkg/types/common"
)

// ListFilter narrows appointment listings.  Zero values mean "no constraint".
type ListFilter struct {
	WorkerID       string
	LegalOfficerID string
	Status         Status
	Pagination     common.Pagination
}

// Repository is the persistence port for appointments.  Create must enforce
// the one-appointment-per-complaint rule (unique complaint_id) and surface a
// violation as ErrCodeAppointmentExists.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id common.ID) (*Appointment, error)
	GetByComplaintID(ctx context.Context, complaintID common.ID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	List(ctx context.Context, filter ListFilter) ([]*Appointment, int64, error)
}
