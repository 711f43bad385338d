package appointment

import (
	"context"
	"time"

	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/internal/domain/notification"
	"github.com/laborguard/complaint-service/internal/domain/registry"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/prometheus"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// Locker serializes auto-booking per complaint across processes.  The
// production implementation is a Redis mutex; a nil Locker disables the
// guard and relies on the database unique constraint alone.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// autoBookLockTTL bounds how long a crashed process can hold the booking
// mutex for a complaint.
const autoBookLockTTL = 30 * time.Second

// Service is the application-facing API of the appointment module.
type Service interface {
	// AutoBook books a consultation for an eligible complaint.  It is
	// idempotent per complaint and safe under concurrent invocation.
	AutoBook(ctx context.Context, c *complaint.Complaint) error

	Confirm(ctx context.Context, actor common.Actor, id common.ID, meetingDetails, notes string) (*Appointment, error)
	Reschedule(ctx context.Context, actor common.Actor, id common.ID, newDate time.Time, reason string) (*Appointment, error)
	Cancel(ctx context.Context, actor common.Actor, id common.ID, reason string) (*Appointment, error)
	Complete(ctx context.Context, actor common.Actor, id common.ID) (*Appointment, error)
	GetByID(ctx context.Context, actor common.Actor, id common.ID) (*Appointment, error)
	List(ctx context.Context, actor common.Actor, filter ListFilter) ([]*Appointment, int64, error)
}

type service struct {
	repo       Repository
	complaints complaint.Repository
	officers   registry.Service
	locker     Locker
	dispatcher *notification.Dispatcher
	log        logging.Logger
}

// NewService wires the appointment service.  locker and dispatcher may be nil.
func NewService(repo Repository, complaints complaint.Repository, officers registry.Service,
	locker Locker, dispatcher *notification.Dispatcher, log logging.Logger) Service {
	return &service{
		repo:       repo,
		complaints: complaints,
		officers:   officers,
		locker:     locker,
		dispatcher: dispatcher,
		log:        log.Named("appointment"),
	}
}

func (s *service) AutoBook(ctx context.Context, c *complaint.Complaint) error {
	spec, ok := SpecializationFor(c.Category)
	if !ok {
		return errors.Validation("category %q has no legal specialization", c.Category)
	}

	if s.locker != nil {
		release, acquired, err := s.locker.TryLock(ctx, "autobook:"+c.ID, autoBookLockTTL)
		if err != nil {
			s.log.Warn("booking lock unavailable, relying on unique constraint",
				logging.String("complaint_id", c.ID), logging.Err(err))
		} else if !acquired {
			// Another process is booking this complaint right now.
			return nil
		} else {
			defer release()
		}
	}

	if existing, err := s.repo.GetByComplaintID(ctx, c.ID); err == nil && existing != nil {
		return nil
	} else if err != nil && !errors.IsNotFound(err) {
		return err
	}

	officer, err := s.officers.AssignLeastLoaded(ctx, spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	appt := NewAutoBooked(c.ID, c.WorkerID, officer.OfficerID, c.Category, spec,
		NextConsultationSlot(now), now)

	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.IsCode(err, errors.ErrCodeAppointmentExists) {
			// Lost the race to a concurrent booking.  Return the load unit
			// we took so the officer's counter stays accurate.
			if relErr := s.officers.ReleaseOfficer(ctx, officer.OfficerID); relErr != nil {
				s.log.Error("failed to release officer after duplicate booking",
					logging.String("officer_id", officer.OfficerID), logging.Err(relErr))
			}
			return nil
		}
		return err
	}

	if err := s.assignComplaint(ctx, c.ID, officer.OfficerID, now); err != nil {
		s.log.Error("failed to record officer on complaint",
			logging.String("complaint_id", c.ID),
			logging.String("officer_id", officer.OfficerID),
			logging.Err(err),
		)
	}

	prometheus.AppointmentsBooked.WithLabelValues(string(spec)).Inc()
	s.log.Info("consultation auto-booked",
		logging.String("appointment_id", appt.ID),
		logging.String("complaint_id", c.ID),
		logging.String("officer_id", officer.OfficerID),
		logging.String("scheduled_at", appt.ScheduledAt.Format(time.RFC3339)),
	)
	s.dispatcher.Dispatch(
		notification.NewEvent(notification.EventAppointmentBooked, c.WorkerID, common.RoleWorker, map[string]interface{}{
			"appointment_id": appt.ID,
			"complaint_id":   c.ID,
			"scheduled_at":   appt.ScheduledAt.Format(time.RFC3339),
			"officer_name":   officer.Name,
		}),
		notification.NewEvent(notification.EventAppointmentBooked, officer.OfficerID, common.RoleLegalOfficer, map[string]interface{}{
			"appointment_id": appt.ID,
			"complaint_id":   c.ID,
			"scheduled_at":   appt.ScheduledAt.Format(time.RFC3339),
			"category":       string(c.Category),
		}),
	)
	return nil
}

// assignComplaint stamps the booked officer on the complaint record.
func (s *service) assignComplaint(ctx context.Context, complaintID common.ID, officerID string, now time.Time) error {
	c, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return err
	}
	if c.AssignedTo != nil {
		return nil
	}
	c.AssignedTo = &officerID
	c.UpdatedAt = now
	return s.complaints.Update(ctx, c)
}

func (s *service) Confirm(ctx context.Context, actor common.Actor, id common.ID, meetingDetails, notes string) (*Appointment, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("only admins may confirm appointments")
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := a.Confirm(now); err != nil {
		return nil, err
	}
	if meetingDetails != "" {
		a.MeetingDetails = meetingDetails
	}
	if notes != "" {
		a.Notes = notes
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(notification.NewEvent(
		notification.EventAppointmentConfirmed, a.WorkerID, common.RoleWorker, map[string]interface{}{
			"appointment_id": a.ID,
			"scheduled_at":   a.ScheduledAt.Format(time.RFC3339),
		}))
	return a, nil
}

func (s *service) Reschedule(ctx context.Context, actor common.Actor, id common.ID, newDate time.Time, reason string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.IsOfficer() && a.LegalOfficerID == actor.ID) {
		return nil, errors.Forbidden("only admins or the assigned officer may reschedule")
	}

	now := time.Now().UTC()
	if err := a.MoveTo(newDate, actor.ID, actor.Role, reason, now); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(
		notification.NewEvent(notification.EventAppointmentRescheduled, a.WorkerID, common.RoleWorker, map[string]interface{}{
			"appointment_id": a.ID,
			"scheduled_at":   a.ScheduledAt.Format(time.RFC3339),
			"reason":         reason,
		}),
		notification.NewEvent(notification.EventAppointmentRescheduled, a.LegalOfficerID, common.RoleLegalOfficer, map[string]interface{}{
			"appointment_id": a.ID,
			"scheduled_at":   a.ScheduledAt.Format(time.RFC3339),
		}),
	)
	return a, nil
}

func (s *service) Cancel(ctx context.Context, actor common.Actor, id common.ID, reason string) (*Appointment, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("only admins may cancel appointments")
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Cancel(reason, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	if err := s.officers.ReleaseOfficer(ctx, a.LegalOfficerID); err != nil {
		s.log.Error("failed to release officer after cancellation",
			logging.String("officer_id", a.LegalOfficerID), logging.Err(err))
	}

	s.dispatcher.Dispatch(
		notification.NewEvent(notification.EventAppointmentCancelled, a.WorkerID, common.RoleWorker, map[string]interface{}{
			"appointment_id": a.ID,
			"reason":         reason,
		}),
		notification.NewEvent(notification.EventAppointmentCancelled, a.LegalOfficerID, common.RoleLegalOfficer, map[string]interface{}{
			"appointment_id": a.ID,
		}),
	)
	return a, nil
}

func (s *service) Complete(ctx context.Context, actor common.Actor, id common.ID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.IsOfficer() && a.LegalOfficerID == actor.ID) {
		return nil, errors.Forbidden("only admins or the assigned officer may complete an appointment")
	}
	if err := a.Complete(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	if err := s.officers.ReleaseOfficer(ctx, a.LegalOfficerID); err != nil {
		s.log.Error("failed to release officer after completion",
			logging.String("officer_id", a.LegalOfficerID), logging.Err(err))
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, actor common.Actor, id common.ID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.VisibleTo(actor.ID, actor.Role) {
		return nil, errors.Forbidden("not allowed to view this appointment")
	}
	return a, nil
}

func (s *service) List(ctx context.Context, actor common.Actor, filter ListFilter) ([]*Appointment, int64, error) {
	// Non-admin callers only ever see their own appointments.
	switch {
	case actor.IsAdmin():
	case actor.IsOfficer():
		filter.LegalOfficerID = actor.ID
	default:
		filter.WorkerID = actor.ID
	}
	if filter.Pagination.PageSize <= 0 || filter.Pagination.PageSize > 100 {
		filter.Pagination.PageSize = 20
	}
	return s.repo.List(ctx, filter)
}
