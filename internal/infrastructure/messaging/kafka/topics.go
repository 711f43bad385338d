// Package kafka implements the notification event transport.
package kafka

import (
	"encoding/json"
	"time"
)

// Topic names.  Keep these stable; the notifier worker and any downstream
// consumers subscribe by name.
const (
	// TopicNotificationSend carries notification events awaiting delivery.
	TopicNotificationSend = "notification.send"
)

// envelopeSource identifies this service as the event origin.
const envelopeSource = "complaint-service"

// EventEnvelope is the wire format for every event this service produces.
type EventEnvelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a payload for publishing.
func NewEnvelope(eventID, eventType string, payload json.RawMessage) EventEnvelope {
	return EventEnvelope{
		EventID:   eventID,
		EventType: eventType,
		Source:    envelopeSource,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
