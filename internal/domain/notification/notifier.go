package notification

import (
	"context"
	"time"

	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
)

// Publisher transports events to the notification channel.  The production
// implementation writes to Kafka; tests substitute an in-memory recorder.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// publishTimeout bounds each background publish attempt.
const publishTimeout = 10 * time.Second

// Dispatcher wraps a Publisher with fire-and-forget semantics.  Dispatch
// returns immediately; publish failures are logged and counted but never
// surface to the caller, so a broker outage cannot fail a workflow operation.
type Dispatcher struct {
	pub       Publisher
	log       logging.Logger
	onFailure func()
}

// NewDispatcher builds a Dispatcher.  onFailure is invoked once per failed
// publish (used to feed a metrics counter); pass nil to disable.
func NewDispatcher(pub Publisher, log logging.Logger, onFailure func()) *Dispatcher {
	return &Dispatcher{pub: pub, log: log, onFailure: onFailure}
}

// Dispatch publishes events in the background.  A nil Dispatcher is a no-op
// so services can run without a notification channel wired.
func (d *Dispatcher) Dispatch(events ...Event) {
	if d == nil || d.pub == nil {
		return
	}
	for _, ev := range events {
		ev := ev
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()
			if err := d.pub.Publish(ctx, ev); err != nil {
				if d.onFailure != nil {
					d.onFailure()
				}
				d.log.Error("notification publish failed",
					logging.String("event_type", string(ev.Type)),
					logging.String("recipient_id", ev.RecipientID),
					logging.Err(err),
				)
			}
		}()
	}
}
