// Package complaint implements the grievance aggregate: validation rules, the
// status state machine, and the append-only audit trail.
package complaint

import (
	"strings"
	"time"

	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusResolved    Status = "resolved"
	StatusRejected    Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// Category classifies the grievance subject.
type Category string

const (
	CategoryWageTheft            Category = "wage_theft"
	CategoryWrongfulTermination  Category = "wrongful_termination"
	CategoryHarassment           Category = "harassment"
	CategoryDiscrimination       Category = "discrimination"
	CategoryUnsafeConditions     Category = "unsafe_conditions"
	CategoryUnpaidOvertime       Category = "unpaid_overtime"
	CategoryOther                Category = "other"
)

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{
		CategoryWageTheft,
		CategoryWrongfulTermination,
		CategoryHarassment,
		CategoryDiscrimination,
		CategoryUnsafeConditions,
		CategoryUnpaidOvertime,
		CategoryOther,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// Priority ranks the urgency of a complaint.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Urgent reports whether p qualifies the complaint for automatic legal
// consultation booking.
func (p Priority) Urgent() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// FileType classifies an evidence attachment.
type FileType string

const (
	FileTypeImage    FileType = "image"
	FileTypeDocument FileType = "document"
	FileTypeVideo    FileType = "video"
)

// Valid reports whether f is a known file type.
func (f FileType) Valid() bool {
	switch f {
	case FileTypeImage, FileTypeDocument, FileTypeVideo:
		return true
	}
	return false
}

// Location pins the complaint to a place of work.
type Location struct {
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Attachment is an evidence file reference stored alongside the complaint.
type Attachment struct {
	URL          string    `json:"url"`
	FileType     FileType  `json:"file_type"`
	OriginalName string    `json:"original_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// StatusChange is one entry of the append-only audit trail.
type StatusChange struct {
	Status        Status      `json:"status"`
	ChangedBy     string      `json:"changed_by"`
	ChangedByRole common.Role `json:"changed_by_role"`
	Reason        string      `json:"reason,omitempty"`
	ChangedAt     time.Time   `json:"changed_at"`
}

// Complaint is the grievance aggregate root.
type Complaint struct {
	ID               common.ID      `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Category         Category       `json:"category"`
	Priority         Priority       `json:"priority"`
	Status           Status         `json:"status"`
	WorkerID         string         `json:"worker_id"`
	AssignedTo       *string        `json:"assigned_to,omitempty"`
	OrganizationName string         `json:"organization_name,omitempty"`
	Location         Location       `json:"location"`
	IsAnonymous      bool           `json:"is_anonymous"`
	Attachments      []Attachment   `json:"attachments"`
	StatusHistory    []StatusChange `json:"status_history,omitempty"`
	ResolvedAt       *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Field bounds mirrored in the database schema.
const (
	TitleMinLen        = 10
	TitleMaxLen        = 150
	DescriptionMinLen  = 30
	DescriptionMaxLen  = 2000
	OrganizationMaxLen = 200

	defaultCountry = "Sri Lanka"
)

// transitions is the complete set of permitted status moves.  Everything not
// listed here is rejected, including any move out of a terminal state.
var transitions = map[Status][]Status{
	StatusPending:     {StatusUnderReview},
	StatusUnderReview: {StatusResolved, StatusRejected},
}

// CanTransition reports whether a move from one status to another is allowed.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// New builds a validated Complaint in the pending state with the initial
// audit entry recorded.  The worker filing the complaint authors the first
// status-history row.
func New(workerID, title, description string, category Category, priority Priority,
	organizationName string, location Location, isAnonymous bool, now time.Time) (*Complaint, error) {

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if l := len(title); l < TitleMinLen || l > TitleMaxLen {
		return nil, errors.Validation("title must be between %d and %d characters", TitleMinLen, TitleMaxLen)
	}
	if l := len(description); l < DescriptionMinLen || l > DescriptionMaxLen {
		return nil, errors.Validation("description must be between %d and %d characters", DescriptionMinLen, DescriptionMaxLen)
	}
	if !category.Valid() {
		return nil, errors.Validation("invalid category %q", category)
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, errors.Validation("invalid priority %q", priority)
	}
	if len(organizationName) > OrganizationMaxLen {
		return nil, errors.Validation("organization name must not exceed %d characters", OrganizationMaxLen)
	}
	if location.Country == "" {
		location.Country = defaultCountry
	}

	c := &Complaint{
		ID:               common.NewID(),
		Title:            title,
		Description:      description,
		Category:         category,
		Priority:         priority,
		Status:           StatusPending,
		WorkerID:         workerID,
		OrganizationName: organizationName,
		Location:         location,
		IsAnonymous:      isAnonymous,
		Attachments:      []Attachment{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	c.StatusHistory = []StatusChange{{
		Status:        StatusPending,
		ChangedBy:     workerID,
		ChangedByRole: common.RoleWorker,
		Reason:        "Complaint filed",
		ChangedAt:     now,
	}}
	return c, nil
}

// Transition moves the complaint to a new status, appends the audit entry,
// and stamps ResolvedAt exactly once on entry to a terminal state.
func (c *Complaint) Transition(to Status, changedBy string, role common.Role, reason string, now time.Time) error {
	if !to.Valid() {
		return errors.Validation("invalid status %q", to)
	}
	if c.Status.Terminal() {
		return errors.InvalidState("complaint is already " + string(c.Status))
	}
	if !CanTransition(c.Status, to) {
		return errors.InvalidState("cannot transition from " + string(c.Status) + " to " + string(to))
	}

	c.Status = to
	c.UpdatedAt = now
	if to.Terminal() && c.ResolvedAt == nil {
		resolvedAt := now
		c.ResolvedAt = &resolvedAt
	}
	c.StatusHistory = append(c.StatusHistory, StatusChange{
		Status:        to,
		ChangedBy:     changedBy,
		ChangedByRole: role,
		Reason:        reason,
		ChangedAt:     now,
	})
	return nil
}

// Assign records the legal officer responsible for the complaint.  A pending
// complaint moves to under_review as part of assignment so that assigned work
// is never reported as untouched.
func (c *Complaint) Assign(officerID, changedBy string, role common.Role, now time.Time) error {
	if c.Status.Terminal() {
		return errors.InvalidState("complaint is already " + string(c.Status))
	}
	c.AssignedTo = &officerID
	c.UpdatedAt = now
	if c.Status == StatusPending {
		return c.Transition(StatusUnderReview, changedBy, role, "Assigned to legal officer", now)
	}
	return nil
}

// ConsultationEligible reports whether the complaint qualifies for automatic
// consultation booking: an urgent priority in a category that maps to a legal
// specialization.
func (c *Complaint) ConsultationEligible() bool {
	if !c.Priority.Urgent() {
		return false
	}
	switch c.Category {
	case CategoryWageTheft, CategoryWrongfulTermination, CategoryHarassment, CategoryDiscrimination:
		return true
	}
	return false
}

// Editable reports whether the worker may still modify the complaint body.
func (c *Complaint) Editable() bool {
	return c.Status == StatusPending
}

// VisibleTo reports whether the caller may read this complaint.  Officers
// only see complaints assigned to them; workers only their own.
func (c *Complaint) VisibleTo(userID string, role common.Role) bool {
	switch role {
	case common.RoleAdmin:
		return true
	case common.RoleLegalOfficer:
		return c.AssignedTo != nil && *c.AssignedTo == userID
	default:
		return c.WorkerID == userID
	}
}

// AddAttachment appends an evidence reference after validating the file type.
func (c *Complaint) AddAttachment(url string, fileType FileType, originalName string, now time.Time) error {
	if !fileType.Valid() {
		return errors.Validation("invalid file type %q", fileType)
	}
	c.Attachments = append(c.Attachments, Attachment{
		URL:          url,
		FileType:     fileType,
		OriginalName: originalName,
		UploadedAt:   now,
	})
	c.UpdatedAt = now
	return nil
}
