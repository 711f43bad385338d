// Package appointment implements consultation booking: automatic officer
// assignment for eligible complaints and the appointment lifecycle.
package appointment

import (
	"time"

	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/internal/domain/registry"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusAutoBooked Status = "auto_booked"
	StatusConfirmed  Status = "confirmed"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAutoBooked, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further changes.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// MeetingType is how the consultation is held.
type MeetingType string

const (
	MeetingInPerson MeetingType = "in_person"
	MeetingOnline   MeetingType = "online"
	MeetingPhone    MeetingType = "phone"
)

// Valid reports whether m is a known meeting type.
func (m MeetingType) Valid() bool {
	switch m {
	case MeetingInPerson, MeetingOnline, MeetingPhone:
		return true
	}
	return false
}

// Reschedule is one entry of the reschedule history.
type Reschedule struct {
	PreviousDate  time.Time   `json:"previous_date"`
	NewDate       time.Time   `json:"new_date"`
	ChangedBy     string      `json:"changed_by"`
	ChangedByRole common.Role `json:"changed_by_role"`
	Reason        string      `json:"reason,omitempty"`
	ChangedAt     time.Time   `json:"changed_at"`
}

// NotesMaxLen bounds the free-text notes field.
const NotesMaxLen = 1000

// DefaultDurationMinutes is the standard consultation length.
const DefaultDurationMinutes = 60

// Appointment is one legal consultation tied to a complaint.
type Appointment struct {
	ID                 common.ID               `json:"id"`
	ComplaintID        common.ID               `json:"complaint_id"`
	WorkerID           string                  `json:"worker_id"`
	LegalOfficerID     string                  `json:"legal_officer_id"`
	Category           complaint.Category      `json:"category"`
	Specialization     registry.Specialization `json:"specialization"`
	Status             Status                  `json:"status"`
	ScheduledAt        time.Time               `json:"scheduled_at"`
	DurationMinutes    int                     `json:"duration_minutes"`
	MeetingType        MeetingType             `json:"meeting_type"`
	MeetingDetails     string                  `json:"meeting_details,omitempty"`
	Notes              string                  `json:"notes,omitempty"`
	RescheduleHistory  []Reschedule            `json:"reschedule_history,omitempty"`
	ConfirmedAt        *time.Time              `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time              `json:"cancelled_at,omitempty"`
	CancellationReason string                  `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// NewAutoBooked builds the appointment created by the automatic booking flow.
func NewAutoBooked(complaintID common.ID, workerID, officerID string,
	category complaint.Category, spec registry.Specialization,
	scheduledAt time.Time, now time.Time) *Appointment {

	return &Appointment{
		ID:              common.NewID(),
		ComplaintID:     complaintID,
		WorkerID:        workerID,
		LegalOfficerID:  officerID,
		Category:        category,
		Specialization:  spec,
		Status:          StatusAutoBooked,
		ScheduledAt:     scheduledAt,
		DurationMinutes: DefaultDurationMinutes,
		MeetingType:     MeetingOnline,
		Notes:           "Auto-booked based on complaint category: " + string(category),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Confirm moves an auto-booked appointment to confirmed.
func (a *Appointment) Confirm(now time.Time) error {
	if a.Status != StatusAutoBooked {
		return errors.InvalidState("only auto-booked appointments can be confirmed")
	}
	a.Status = StatusConfirmed
	a.ConfirmedAt = &now
	a.UpdatedAt = now
	return nil
}

// MoveTo reschedules the appointment and appends the history entry.
func (a *Appointment) MoveTo(newDate time.Time, changedBy string, role common.Role, reason string, now time.Time) error {
	if a.Status.Terminal() {
		return errors.InvalidState("cannot reschedule a " + string(a.Status) + " appointment")
	}
	if !newDate.After(now) {
		return errors.Validation("new date must be in the future")
	}
	a.RescheduleHistory = append(a.RescheduleHistory, Reschedule{
		PreviousDate:  a.ScheduledAt,
		NewDate:       newDate,
		ChangedBy:     changedBy,
		ChangedByRole: role,
		Reason:        reason,
		ChangedAt:     now,
	})
	a.ScheduledAt = newDate
	a.UpdatedAt = now
	return nil
}

// Cancel marks the appointment cancelled.  Cancelling twice or cancelling a
// completed consultation is rejected, which keeps the officer load counter
// from being decremented more than once.
func (a *Appointment) Cancel(reason string, now time.Time) error {
	if a.Status == StatusCancelled {
		return errors.InvalidState("appointment is already cancelled")
	}
	if a.Status == StatusCompleted {
		return errors.InvalidState("completed appointments cannot be cancelled")
	}
	a.Status = StatusCancelled
	a.CancelledAt = &now
	a.CancellationReason = reason
	a.UpdatedAt = now
	return nil
}

// Complete marks a confirmed appointment as held.
func (a *Appointment) Complete(now time.Time) error {
	if a.Status.Terminal() {
		return errors.InvalidState("appointment is already " + string(a.Status))
	}
	a.Status = StatusCompleted
	a.UpdatedAt = now
	return nil
}

// VisibleTo reports whether the caller may read this appointment.
func (a *Appointment) VisibleTo(userID string, role common.Role) bool {
	switch role {
	case common.RoleAdmin:
		return true
	case common.RoleLegalOfficer:
		return a.LegalOfficerID == userID
	default:
		return a.WorkerID == userID
	}
}
