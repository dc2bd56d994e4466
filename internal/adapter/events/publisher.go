package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// ErrDisabled is returned when no brokers are configured.
var ErrDisabled = errors.New("event stream disabled")

const eventTypeHeader = "event_type"

// Publisher delivers order events to the event stream.
type Publisher interface {
	Publish(ctx context.Context, events ...model.OrderEvent) error
	Enabled() bool
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by order number, so all events of one
// order land in the same partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher builds a publisher for the topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, topic, logger)
}

func newKafkaPublisher(w messageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...model.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, toMessage(e))
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	p.logger.Debug("order events published", slog.String("topic", p.topic), slog.Int("count", len(msgs)))
	return nil
}

func (p *KafkaPublisher) Enabled() bool { return true }

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(e model.OrderEvent) kafka.Message {
	return kafka.Message{
		Key:   []byte(e.Key),
		Value: e.Payload,
		Time:  e.CreatedAt.UTC(),
		Headers: []kafka.Header{
			{Key: eventTypeHeader, Value: []byte(e.Type)},
			{Key: "event_id", Value: []byte(e.EventID)},
		},
	}
}

// DisabledPublisher keeps events in the outbox when no brokers are configured.
type DisabledPublisher struct{}

func (DisabledPublisher) Publish(context.Context, ...model.OrderEvent) error { return ErrDisabled }
func (DisabledPublisher) Enabled() bool                                     { return false }
func (DisabledPublisher) Close() error                                      { return nil }
