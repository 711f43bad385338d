package kafka

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/laborguard/complaint-service/internal/config"
	"github.com/laborguard/complaint-service/internal/domain/notification"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/pkg/errors"
)

// EventHandler processes one decoded notification event.  Returning an error
// leaves the message uncommitted so it is redelivered.
type EventHandler func(ctx context.Context, ev notification.Event) error

// Consumer reads the notification topic as part of a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	log    logging.Logger
}

// NewConsumer builds a Consumer for the notification topic.
func NewConsumer(cfg config.KafkaConfig, log logging.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   TopicNotificationSend,
	})
	return &Consumer{reader: reader, log: log}
}

// Run consumes until ctx is cancelled.  Undecodable messages are committed
// and skipped; handler failures leave the offset uncommitted for redelivery.
func (c *Consumer) Run(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to fetch message")
		}

		ev, err := decodeEvent(msg.Value)
		if err != nil {
			c.log.Error("dropping undecodable message",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to commit message")
			}
			continue
		}

		if err := handler(ctx, ev); err != nil {
			c.log.Error("event handling failed, message will be redelivered",
				logging.String("event_type", string(ev.Type)),
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
			continue
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to commit message")
		}
	}
}

func decodeEvent(raw []byte) (notification.Event, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return notification.Event{}, errors.Wrap(err, errors.ErrCodeSerialization, "invalid event envelope")
	}
	var ev notification.Event
	if err := json.Unmarshal(envelope.Payload, &ev); err != nil {
		return notification.Event{}, errors.Wrap(err, errors.ErrCodeSerialization, "invalid event payload")
	}
	return ev, nil
}

// Close shuts the reader down.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
