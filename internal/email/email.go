package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/cargoquote/internal/kafka"
	"github.com/Domenick1991/cargoquote/internal/logger"
)

// Formatter renders an amount in the operator's display currency.
type Formatter interface {
	Format(amount float64) string
}

type Sender struct {
	log    *logger.Logger
	format Formatter
}

func NewSender(log *logger.Logger, format Formatter) *Sender {
	if log == nil {
		log = logger.Nop()
	}
	return &Sender{log: log, format: format}
}

// Compose builds the notification text for an event. Event types without a
// customer-facing message yield an empty string.
func (s *Sender) Compose(event kafka.QuotationEvent) string {
	switch event.Type {
	case kafka.EventQuoteSent:
		return fmt.Sprintf("Quotation #%d for order %s has been sent: %s", event.QuotationID, event.OrderNumber, s.amount(event.FinalQuotePrice))
	case kafka.EventFlightAssigned:
		return fmt.Sprintf("Order %s is booked on flight %s", event.OrderNumber, event.FlightNumber)
	default:
		return ""
	}
}

func (s *Sender) Send(ctx context.Context, event kafka.QuotationEvent) error {
	body := s.Compose(event)
	if body == "" {
		s.log.Debug(ctx, "no notification for event", map[string]any{"type": event.Type})
		return nil
	}
	s.log.Info(ctx, "notification sent", map[string]any{
		"type":         event.Type,
		"order_number": event.OrderNumber,
		"body":         body,
	})
	return nil
}

func (s *Sender) amount(v float64) string {
	if s.format == nil {
		return fmt.Sprintf("%.2f", v)
	}
	return s.format.Format(v)
}
