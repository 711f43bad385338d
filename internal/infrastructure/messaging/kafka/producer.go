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

// Producer publishes notification events to Kafka.  It satisfies
// notification.Publisher.
type Producer struct {
	writer *kafkago.Writer
	log    logging.Logger
}

var _ notification.Publisher = (*Producer)(nil)

// NewProducer builds a Producer for the notification topic.  Messages are
// keyed by recipient so per-recipient ordering is preserved across
// partitions.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        TopicNotificationSend,
		Balancer:     &kafkago.Hash{},
		WriteTimeout: cfg.WriteTimeout,
		BatchTimeout: cfg.BatchTimeout,
		MaxAttempts:  cfg.MaxRetries,
		RequiredAcks: kafkago.RequireOne,
	}
	return &Producer{writer: writer, log: log}
}

// Publish wraps the event in an envelope and writes it to the topic.
func (p *Producer) Publish(ctx context.Context, ev notification.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode notification event")
	}
	envelope, err := json.Marshal(NewEnvelope(ev.ID, string(ev.Type), payload))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event envelope")
	}

	msg := kafkago.Message{
		Key:   []byte(ev.RecipientID),
		Value: envelope,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to publish notification event")
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
