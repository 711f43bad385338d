package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/laborguard/complaint-service/internal/domain/notification"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/prometheus"
)

// Handler consumes notification events and delivers them as email.  It
// satisfies the consumer's EventHandler signature; returning an error leaves
// the event uncommitted so the broker redelivers it.
type Handler struct {
	mailer *Mailer
	log    logging.Logger
}

func NewHandler(mailer *Mailer, log logging.Logger) *Handler {
	return &Handler{mailer: mailer, log: log.Named("notifier")}
}

func (h *Handler) Handle(ctx context.Context, ev notification.Event) error {
	subject, body, ok := render(ev)
	if !ok {
		// Unknown event types are dropped, not retried.
		h.log.Warn("skipping unknown notification event",
			logging.String("event_id", ev.ID),
			logging.String("event_type", string(ev.Type)),
		)
		prometheus.NotificationDeliveries.WithLabelValues("skipped").Inc()
		return nil
	}

	if err := h.mailer.Send(ctx, ev.RecipientID, ev.Role, subject, body); err != nil {
		prometheus.NotificationDeliveries.WithLabelValues("failed").Inc()
		h.log.Error("notification delivery failed",
			logging.String("event_id", ev.ID),
			logging.String("event_type", string(ev.Type)),
			logging.Err(err),
		)
		return err
	}

	prometheus.NotificationDeliveries.WithLabelValues("delivered").Inc()
	h.log.Info("notification delivered",
		logging.String("event_id", ev.ID),
		logging.String("event_type", string(ev.Type)),
		logging.String("recipient_id", ev.RecipientID),
	)
	return nil
}

// render produces the subject and plain-text body for an event.  The third
// return value is false for event types this worker does not handle.
func render(ev notification.Event) (subject, body string, ok bool) {
	complaintID := dataString(ev, "complaint_id")

	switch ev.Type {
	case notification.EventComplaintFiled:
		subject = "Your complaint has been received"
		body = lines(
			fmt.Sprintf("We have received your complaint %q.", dataString(ev, "title")),
			fmt.Sprintf("Reference number: %s", complaintID),
			"A legal officer will review it shortly.",
		)
	case notification.EventComplaintStatusChange:
		subject = fmt.Sprintf("Complaint status updated: %s", dataString(ev, "status"))
		body = lines(
			fmt.Sprintf("The status of complaint %s is now %s.", complaintID, dataString(ev, "status")),
			reasonLine(dataString(ev, "reason")),
		)
	case notification.EventComplaintAssigned:
		subject = "Complaint assigned"
		body = lines(
			fmt.Sprintf("Complaint %s has been assigned to a legal officer.", complaintID),
		)
	case notification.EventAppointmentBooked:
		subject = "Legal consultation scheduled"
		body = lines(
			fmt.Sprintf("A consultation for complaint %s has been scheduled for %s.",
				complaintID, dataString(ev, "scheduled_at")),
			"The meeting will be held online. You will receive joining details once the appointment is confirmed.",
		)
	case notification.EventAppointmentConfirmed:
		subject = "Consultation confirmed"
		body = lines(
			fmt.Sprintf("Your consultation on %s has been confirmed.", dataString(ev, "scheduled_at")),
			meetingLine(dataString(ev, "meeting_details")),
		)
	case notification.EventAppointmentRescheduled:
		subject = "Consultation rescheduled"
		body = lines(
			fmt.Sprintf("Your consultation has been moved to %s.", dataString(ev, "scheduled_at")),
			reasonLine(dataString(ev, "reason")),
		)
	case notification.EventAppointmentCancelled:
		subject = "Consultation cancelled"
		body = lines(
			"Your consultation has been cancelled.",
			reasonLine(dataString(ev, "reason")),
		)
	default:
		return "", "", false
	}
	return subject, body, true
}

func dataString(ev notification.Event, key string) string {
	if ev.Data == nil {
		return ""
	}
	if s, ok := ev.Data[key].(string); ok {
		return s
	}
	return ""
}

func reasonLine(reason string) string {
	if reason == "" {
		return ""
	}
	return "Reason: " + reason
}

func meetingLine(details string) string {
	if details == "" {
		return ""
	}
	return "Meeting details: " + details
}

// lines joins non-empty parts into a paragraph-per-line body.
func lines(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
