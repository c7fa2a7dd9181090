package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaPublisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes records as JSON to a Kafka topic, keyed by room code
// so one room's records stay on one partition.
type KafkaPublisher struct {
	writer MessageWriter
	logger *slog.Logger
}

// NewKafkaPublisher creates an asynchronous publisher. Writes never block the
// caller; delivery failures are logged.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("audit publish failed", "count", len(messages), "error", err)
			}
		},
	}
	return newKafkaPublisher(w, logger)
}

func newKafkaPublisher(w MessageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger}
}

// Publish encodes rec and hands it to the writer
func (p *KafkaPublisher) Publish(ctx context.Context, rec RoundRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(rec.RoomCode),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// Close flushes pending records and closes the writer
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Warn("error closing audit writer", "error", err)
		return err
	}
	return nil
}
