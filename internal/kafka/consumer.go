package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type EventHandler func(ctx context.Context, event QuotationEvent) error

type Consumer struct {
	reader MessageReader
	log    *logger.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *logger.Logger) *Consumer {
	return NewConsumerWithReader(kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          1,
		MaxBytes:          1 << 20,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	}), log)
}

func NewConsumerWithReader(reader MessageReader, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.Nop()
	}
	return &Consumer{reader: reader, log: log}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume hands every decodable event to handle and commits it once handled.
// Malformed messages are logged and committed so they are not redelivered.
// It returns nil when ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context, handle EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		event, err := DecodeEvent(msg)
		if err != nil {
			c.log.Warn(ctx, "skipping malformed event", err, map[string]any{"topic": msg.Topic, "offset": msg.Offset})
		} else if err := handle(ctx, event); err != nil {
			return fmt.Errorf("handle %s event for %s: %w", event.Type, event.OrderNumber, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

func DecodeEvent(msg kafka.Message) (QuotationEvent, error) {
	var event QuotationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return QuotationEvent{}, fmt.Errorf("decode event at offset %d: %w", msg.Offset, err)
	}
	if event.Type == "" {
		return QuotationEvent{}, fmt.Errorf("event at offset %d has no type", msg.Offset)
	}
	return event, nil
}
