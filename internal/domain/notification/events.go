// Package notification defines the outbound notification port.  Domain
// services emit events through a Dispatcher; delivery is fire-and-forget and
// never participates in the caller's transaction.
package notification

import (
	"time"

	"github.com/laborguard/complaint-service/pkg/types/common"
)

// EventType names a notification trigger.
type EventType string

const (
	EventComplaintFiled        EventType = "complaint.filed"
	EventComplaintStatusChange EventType = "complaint.status_changed"
	EventComplaintAssigned     EventType = "complaint.assigned"
	EventAppointmentBooked     EventType = "appointment.auto_booked"
	EventAppointmentConfirmed  EventType = "appointment.confirmed"
	EventAppointmentRescheduled EventType = "appointment.rescheduled"
	EventAppointmentCancelled  EventType = "appointment.cancelled"
)

// Event is one notification to one recipient.  Data carries template
// variables for the notifier worker; keep values JSON-serializable.
type Event struct {
	ID          common.ID              `json:"id"`
	Type        EventType              `json:"type"`
	RecipientID string                 `json:"recipient_id"`
	Role        common.Role            `json:"role"`
	Data        map[string]interface{} `json:"data,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

// NewEvent builds an Event with a fresh ID and the current timestamp.
func NewEvent(t EventType, recipientID string, role common.Role, data map[string]interface{}) Event {
	return Event{
		ID:          common.NewID(),
		Type:        t,
		RecipientID: recipientID,
		Role:        role,
		Data:        data,
		OccurredAt:  time.Now().UTC(),
	}
}
