package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/segmentio/kafka-go"
)

const (
	EventQuoteGenerated = "quote_generated"
	EventQuoteSent      = "quote_sent"
	EventFlightAssigned = "flight_assigned"
)

// QuotationEvent is published for every quotation lifecycle transition and flight assignment.
type QuotationEvent struct {
	Type            string    `json:"type"`
	OrderID         int64     `json:"order_id"`
	OrderNumber     string    `json:"order_number"`
	QuotationID     int64     `json:"quotation_id,omitempty"`
	FlightID        int64     `json:"flight_id,omitempty"`
	FlightNumber    string    `json:"flight_number,omitempty"`
	FinalQuotePrice float64   `json:"final_quote_price,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Key partitions events by order so a consumer sees one order's history in sequence.
func (e QuotationEvent) Key() string {
	return e.OrderNumber
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
	log     *logger.Logger
}

func NewProducer(brokers []string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
		log:     log,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.Debug(ctx, "published to kafka", map[string]any{"topic": topic, "key": key})
	return nil
}

func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := p.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}

		lastErr = err
		p.log.Warn(ctx, "kafka publish attempt failed", err, map[string]any{"attempt": i + 1, "topic": topic})

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and lists its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	p.log.Info(ctx, "connected to kafka", map[string]any{"partitions": len(partitions)})
	return nil
}
