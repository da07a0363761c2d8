// Package events publishes transaction status changes for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/config"
	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/segmentio/kafka-go"
)

// EventTypeStatusChanged is sent in the event-type header of every message.
const EventTypeStatusChanged = "transaction.status_changed"

// Publisher delivers transaction events
type Publisher interface {
	Publish(ctx context.Context, event models.TransactionEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by order id, so all events of one order
// land on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher for cfg.Topic on cfg.Brokers
func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Debug(fmt.Sprintf(msg, args...), "component", "kafka")
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Error(fmt.Sprintf(msg, args...), "component", "kafka")
		}),
	}

	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish writes event synchronously
func (p *KafkaPublisher) Publish(ctx context.Context, event models.TransactionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode transaction event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventTypeStatusChanged)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish transaction event: %w", err)
	}

	p.logger.Debug("published transaction event",
		"order_id", event.OrderID,
		"status", event.Status,
	)
	return nil
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events; used when no brokers are configured
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.TransactionEvent) error { return nil }

func (NopPublisher) Close() error { return nil }

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NopPublisher{}
)
