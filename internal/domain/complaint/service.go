package complaint

import (
	"context"
	"time"

	"github.com/laborguard/complaint-service/internal/domain/notification"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/prometheus"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// statsWindow is the rolling window reported by Stats as "recent".
const statsWindow = 30 * 24 * time.Hour

// CreateInput carries the fields a worker supplies when filing a complaint.
type CreateInput struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Category         Category `json:"category"`
	Priority         Priority `json:"priority"`
	OrganizationName string   `json:"organization_name"`
	Location         Location `json:"location"`
	IsAnonymous      bool     `json:"is_anonymous"`
}

// UpdateInput carries the editable fields.  Nil pointers leave the field
// unchanged; anything outside this allow-list is not updatable through the
// API.
type UpdateInput struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Category         *Category `json:"category"`
	Priority         *Priority `json:"priority"`
	OrganizationName *string   `json:"organization_name"`
	Location         *Location `json:"location"`
}

// OfficerDirectory answers whether an officer is registered and active.
// Implemented by the registry service.
type OfficerDirectory interface {
	IsActiveOfficer(ctx context.Context, officerID string) error
}

// ConsultationBooker books a legal consultation for an eligible complaint.
// Implemented by the appointment service; invoked asynchronously so booking
// never blocks or fails a status transition.
type ConsultationBooker interface {
	AutoBook(ctx context.Context, c *Complaint) error
}

// Service is the application-facing API of the complaint module.
type Service interface {
	Create(ctx context.Context, actor common.Actor, input CreateInput) (*Complaint, error)
	Update(ctx context.Context, actor common.Actor, id common.ID, input UpdateInput) (*Complaint, error)
	TransitionStatus(ctx context.Context, actor common.Actor, id common.ID, to Status, reason string) (*Complaint, error)
	Assign(ctx context.Context, actor common.Actor, id common.ID, officerID string) (*Complaint, error)
	AddAttachment(ctx context.Context, actor common.Actor, id common.ID, url string, fileType FileType, originalName string) (*Complaint, error)
	Delete(ctx context.Context, actor common.Actor, id common.ID) error
	GetByID(ctx context.Context, actor common.Actor, id common.ID) (*Complaint, error)
	List(ctx context.Context, actor common.Actor, filter ListFilter) ([]*Complaint, int64, error)
	Stats(ctx context.Context, actor common.Actor) (*Stats, error)
}

type service struct {
	repo       Repository
	directory  OfficerDirectory
	booker     ConsultationBooker
	dispatcher *notification.Dispatcher
	log        logging.Logger
}

// NewService wires the complaint service.  booker and dispatcher may be nil;
// the corresponding side effects are then skipped.
func NewService(repo Repository, directory OfficerDirectory, booker ConsultationBooker,
	dispatcher *notification.Dispatcher, log logging.Logger) Service {
	return &service{
		repo:       repo,
		directory:  directory,
		booker:     booker,
		dispatcher: dispatcher,
		log:        log.Named("complaint"),
	}
}

func (s *service) Create(ctx context.Context, actor common.Actor, input CreateInput) (*Complaint, error) {
	now := time.Now().UTC()
	c, err := New(actor.ID, input.Title, input.Description, input.Category, input.Priority,
		input.OrganizationName, input.Location, input.IsAnonymous, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	prometheus.ComplaintsFiled.WithLabelValues(string(c.Category), string(c.Priority)).Inc()
	s.log.Info("complaint filed",
		logging.String("complaint_id", c.ID),
		logging.String("category", string(c.Category)),
		logging.String("priority", string(c.Priority)),
	)
	s.dispatcher.Dispatch(notification.NewEvent(
		notification.EventComplaintFiled, c.WorkerID, common.RoleWorker, map[string]interface{}{
			"complaint_id": c.ID,
			"title":        c.Title,
		}))

	return c, nil
}

func (s *service) Update(ctx context.Context, actor common.Actor, id common.ID, input UpdateInput) (*Complaint, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.WorkerID != actor.ID {
		return nil, errors.Forbidden("only the filing worker may update a complaint")
	}
	if !c.Editable() {
		return nil, errors.InvalidState("only pending complaints can be updated")
	}

	if input.Title != nil {
		c.Title = *input.Title
	}
	if input.Description != nil {
		c.Description = *input.Description
	}
	if input.Category != nil {
		c.Category = *input.Category
	}
	if input.Priority != nil {
		c.Priority = *input.Priority
	}
	if input.OrganizationName != nil {
		c.OrganizationName = *input.OrganizationName
	}
	if input.Location != nil {
		c.Location = *input.Location
	}
	if err := validateBody(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// validateBody re-checks the field bounds after a partial update.
func validateBody(c *Complaint) error {
	if l := len(c.Title); l < TitleMinLen || l > TitleMaxLen {
		return errors.Validation("title must be between %d and %d characters", TitleMinLen, TitleMaxLen)
	}
	if l := len(c.Description); l < DescriptionMinLen || l > DescriptionMaxLen {
		return errors.Validation("description must be between %d and %d characters", DescriptionMinLen, DescriptionMaxLen)
	}
	if !c.Category.Valid() {
		return errors.Validation("invalid category %q", c.Category)
	}
	if !c.Priority.Valid() {
		return errors.Validation("invalid priority %q", c.Priority)
	}
	if len(c.OrganizationName) > OrganizationMaxLen {
		return errors.Validation("organization name must not exceed %d characters", OrganizationMaxLen)
	}
	return nil
}

func (s *service) TransitionStatus(ctx context.Context, actor common.Actor, id common.ID, to Status, reason string) (*Complaint, error) {
	if !actor.IsAdmin() && !actor.IsOfficer() {
		return nil, errors.Forbidden("only legal officers and admins may change complaint status")
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Officers act only on their own caseload; admins on any complaint.
	if actor.IsOfficer() && (c.AssignedTo == nil || *c.AssignedTo != actor.ID) {
		return nil, errors.Forbidden("officers may only update complaints assigned to them")
	}
	if err := c.Transition(to, actor.ID, actor.Role, reason, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	prometheus.ComplaintTransitions.WithLabelValues(string(to)).Inc()
	s.dispatcher.Dispatch(notification.NewEvent(
		notification.EventComplaintStatusChange, c.WorkerID, common.RoleWorker, map[string]interface{}{
			"complaint_id": c.ID,
			"status":       string(to),
			"reason":       reason,
		}))

	if to == StatusUnderReview && c.AssignedTo == nil && c.ConsultationEligible() {
		s.autoBookAsync(c)
	}
	return c, nil
}

// autoBookAsync hands the complaint to the appointment service in the
// background.  Booking failures are logged; the transition that triggered
// the booking has already committed and stays committed.
func (s *service) autoBookAsync(c *Complaint) {
	if s.booker == nil {
		return
	}
	snapshot := *c
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.booker.AutoBook(ctx, &snapshot); err != nil {
			s.log.Error("auto-booking failed",
				logging.String("complaint_id", snapshot.ID),
				logging.String("category", string(snapshot.Category)),
				logging.Err(err),
			)
		}
	}()
}

func (s *service) Assign(ctx context.Context, actor common.Actor, id common.ID, officerID string) (*Complaint, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("only admins may assign complaints")
	}
	if s.directory != nil {
		if err := s.directory.IsActiveOfficer(ctx, officerID); err != nil {
			return nil, err
		}
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Assign(officerID, actor.ID, actor.Role, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(
		notification.NewEvent(notification.EventComplaintAssigned, c.WorkerID, common.RoleWorker, map[string]interface{}{
			"complaint_id": c.ID,
		}),
		notification.NewEvent(notification.EventComplaintAssigned, officerID, common.RoleLegalOfficer, map[string]interface{}{
			"complaint_id": c.ID,
			"category":     string(c.Category),
		}),
	)
	return c, nil
}

func (s *service) AddAttachment(ctx context.Context, actor common.Actor, id common.ID, url string, fileType FileType, originalName string) (*Complaint, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && c.WorkerID != actor.ID {
		return nil, errors.Forbidden("only the filing worker or an admin may attach evidence")
	}
	if c.Status.Terminal() {
		return nil, errors.InvalidState("cannot attach evidence to a closed complaint")
	}
	if err := c.AddAttachment(url, fileType, originalName, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, actor common.Actor, id common.ID) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		if c.WorkerID != actor.ID {
			return errors.Forbidden("only the filing worker or an admin may delete a complaint")
		}
		if c.Status != StatusPending {
			return errors.InvalidState("only pending complaints can be deleted")
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) GetByID(ctx context.Context, actor common.Actor, id common.ID) (*Complaint, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.VisibleTo(actor.ID, actor.Role) {
		return nil, errors.Forbidden("not allowed to view this complaint")
	}
	return c, nil
}

func (s *service) List(ctx context.Context, actor common.Actor, filter ListFilter) ([]*Complaint, int64, error) {
	// Only admins see the full listing.  Officers are scoped to their own
	// caseload, workers to their own complaints, regardless of the filter
	// they send.
	switch {
	case actor.IsAdmin():
	case actor.IsOfficer():
		filter.AssignedTo = actor.ID
	default:
		filter.WorkerID = actor.ID
	}
	if filter.Pagination.PageSize <= 0 || filter.Pagination.PageSize > 100 {
		filter.Pagination.PageSize = 20
	}
	filter.Order = filter.Order.Normalize()
	return s.repo.List(ctx, filter)
}

func (s *service) Stats(ctx context.Context, actor common.Actor) (*Stats, error) {
	if !actor.IsAdmin() && !actor.IsOfficer() {
		return nil, errors.Forbidden("stats are restricted to staff roles")
	}
	return s.repo.Stats(ctx, time.Now().UTC().Add(-statsWindow))
}
