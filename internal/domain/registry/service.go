package registry

import (
	"context"
	"strings"
	"time"

	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/prometheus"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// RegisterInput carries the fields an admin supplies when adding an officer.
type RegisterInput struct {
	OfficerID       string           `json:"officer_id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Specializations []Specialization `json:"specializations"`
}

// UpdateInput carries the mutable officer fields.  Nil pointers leave the
// field unchanged; the counters are deliberately absent, only the assignment
// engine moves them.
type UpdateInput struct {
	Name            *string           `json:"name"`
	Email           *string           `json:"email"`
	Specializations *[]Specialization `json:"specializations"`
	IsActive        *bool             `json:"is_active"`
}

// Service is the application-facing API of the officer registry.
type Service interface {
	Register(ctx context.Context, actor common.Actor, input RegisterInput) (*Officer, error)
	Get(ctx context.Context, actor common.Actor, officerID string) (*Officer, error)
	Update(ctx context.Context, actor common.Actor, officerID string, input UpdateInput) (*Officer, error)
	Deactivate(ctx context.Context, actor common.Actor, officerID string) (*Officer, error)
	List(ctx context.Context, actor common.Actor, filter ListFilter) ([]*Officer, int64, error)
	Stats(ctx context.Context, actor common.Actor) (*Stats, error)

	// IsActiveOfficer is the directory check used by complaint assignment.
	IsActiveOfficer(ctx context.Context, officerID string) error

	// AssignLeastLoaded atomically picks and loads the best-suited officer
	// for a specialization.  Used by the appointment scheduler.
	AssignLeastLoaded(ctx context.Context, spec Specialization) (*Officer, error)

	// ReleaseOfficer returns one unit of load after an appointment ends.
	ReleaseOfficer(ctx context.Context, officerID string) error
}

type service struct {
	repo Repository
	log  logging.Logger
}

// NewService wires the registry service.
func NewService(repo Repository, log logging.Logger) Service {
	return &service{repo: repo, log: log.Named("registry")}
}

func (s *service) Register(ctx context.Context, actor common.Actor, input RegisterInput) (*Officer, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("only admins may register legal officers")
	}

	o, err := NewOfficer(input.OfficerID, input.Name, input.Email, input.Specializations, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.log.Info("legal officer registered",
		logging.String("officer_id", o.OfficerID),
		logging.Int("specializations", len(o.Specializations)),
	)
	return o, nil
}

func (s *service) Get(ctx context.Context, actor common.Actor, officerID string) (*Officer, error) {
	if !actor.IsAdmin() && !actor.IsOfficer() {
		return nil, errors.Forbidden("registry access is restricted to staff roles")
	}
	return s.repo.GetByOfficerID(ctx, officerID)
}

func (s *service) Update(ctx context.Context, actor common.Actor, officerID string, input UpdateInput) (*Officer, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("only admins may update registry entries")
	}

	o, err := s.repo.GetByOfficerID(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		o.Name = strings.TrimSpace(*input.Name)
		if o.Name == "" {
			return nil, errors.Validation("name must not be empty")
		}
	}
	if input.Email != nil {
		o.Email = strings.ToLower(strings.TrimSpace(*input.Email))
		if o.Email == "" || !strings.Contains(o.Email, "@") {
			return nil, errors.Validation("a valid email is required")
		}
	}
	if input.Specializations != nil {
		if err := validateSpecializations(*input.Specializations); err != nil {
			return nil, err
		}
		o.Specializations = dedupe(*input.Specializations)
	}
	if input.IsActive != nil {
		o.IsActive = *input.IsActive
	}
	o.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Deactivate(ctx context.Context, actor common.Actor, officerID string) (*Officer, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("only admins may deactivate officers")
	}

	o, err := s.repo.GetByOfficerID(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if !o.IsActive {
		return nil, errors.InvalidState("officer is already inactive")
	}
	o.IsActive = false
	o.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("legal officer deactivated", logging.String("officer_id", o.OfficerID))
	return o, nil
}

func (s *service) List(ctx context.Context, actor common.Actor, filter ListFilter) ([]*Officer, int64, error) {
	if !actor.IsAdmin() && !actor.IsOfficer() {
		return nil, 0, errors.Forbidden("registry access is restricted to staff roles")
	}
	if filter.Specialization != "" && !filter.Specialization.Valid() {
		return nil, 0, errors.Validation("invalid specialization %q", filter.Specialization)
	}
	if filter.Pagination.PageSize <= 0 || filter.Pagination.PageSize > 100 {
		filter.Pagination.PageSize = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Stats(ctx context.Context, actor common.Actor) (*Stats, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("registry stats are restricted to admins")
	}
	return s.repo.Stats(ctx)
}

func (s *service) IsActiveOfficer(ctx context.Context, officerID string) error {
	o, err := s.repo.GetByOfficerID(ctx, officerID)
	if err != nil {
		return err
	}
	if !o.IsActive {
		return errors.New(errors.ErrCodeOfficerInactive, "officer is inactive")
	}
	return nil
}

func (s *service) AssignLeastLoaded(ctx context.Context, spec Specialization) (*Officer, error) {
	if !spec.Valid() {
		return nil, errors.Validation("invalid specialization %q", spec)
	}

	o, err := s.repo.AcquireLeastLoaded(ctx, spec)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNoOfficerAvailable) {
			prometheus.AssignmentFailures.WithLabelValues(string(spec)).Inc()
			s.log.Warn("no officer available", logging.String("specialization", string(spec)))
		}
		return nil, err
	}

	s.log.Info("officer assigned",
		logging.String("officer_id", o.OfficerID),
		logging.String("specialization", string(spec)),
		logging.Int64("active_appointments", o.ActiveAppointmentCount),
	)
	return o, nil
}

func (s *service) ReleaseOfficer(ctx context.Context, officerID string) error {
	return s.repo.ReleaseActive(ctx, officerID)
}
