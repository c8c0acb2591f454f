package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/Domenick1991/cargoquote/internal/repository"
)

const (
	contextLimit  = 5
	FallbackReply = "I apologize, but I encountered an error. Please try again or rephrase your question."
	emptyReply    = "I'm here to help!"
)

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type AssistantUseCase interface {
	Ask(ctx context.Context, history []Message, message string) (*Message, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AssistantService struct {
	completer  Completer
	orders     repository.OrderRepository
	quotations repository.QuotationRepository
	vendors    repository.VendorRepository
	log        *logger.Logger
}

func NewAssistantService(
	completer Completer,
	orders repository.OrderRepository,
	quotations repository.QuotationRepository,
	vendors repository.VendorRepository,
	log *logger.Logger,
) *AssistantService {
	if log == nil {
		log = logger.Nop()
	}
	return &AssistantService{completer: completer, orders: orders, quotations: quotations, vendors: vendors, log: log}
}

// Ask answers message using current store data as context. Store failures are
// returned; completion failures are logged and answered with FallbackReply.
func (s *AssistantService) Ask(ctx context.Context, history []Message, message string) (*Message, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"message": "is required"})
	}

	prompt, err := s.prompt(ctx, history, message)
	if err != nil {
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.log.Error(ctx, "assistant completion failed", err, nil)
		return &Message{Role: "assistant", Content: FallbackReply}, nil
	}
	if strings.TrimSpace(reply) == "" {
		reply = emptyReply
	}
	return &Message{Role: "assistant", Content: reply}, nil
}

func (s *AssistantService) prompt(ctx context.Context, history []Message, message string) (string, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list orders: %w", err)
	}
	quotations, err := s.quotations.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list quotations: %w", err)
	}
	vendors, err := s.vendors.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list vendors: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are an AI assistant for a cargo quotation system. Here's the current data:\n\n")
	fmt.Fprintf(&b, "ORDERS (%d total):\n%s\n\n", len(orders), indentJSON(head(orders)))
	fmt.Fprintf(&b, "QUOTATIONS (%d total):\n%s\n\n", len(quotations), indentJSON(headQuotations(quotations)))
	fmt.Fprintf(&b, "VENDORS (%d total):\n%s\n\n", len(vendors), indentJSON(vendors))
	if len(history) > 0 {
		b.WriteString("CONVERSATION SO FAR:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "User query: %s\n\n", message)
	b.WriteString("Provide helpful, concise responses. If the user wants to:\n")
	b.WriteString("- Calculate costs: Explain the process and show relevant orders\n")
	b.WriteString("- Generate quotes: Summarize quotation details\n")
	b.WriteString("- Find orders: Search and display matching orders\n")
	b.WriteString("- Get vendor info: Show vendor details and rates\n\n")
	b.WriteString("Be friendly and professional. Format responses with markdown for readability.\n")
	return b.String(), nil
}

func head(orders []domain.Order) []domain.Order {
	if len(orders) > contextLimit {
		return orders[:contextLimit]
	}
	return orders
}

func headQuotations(quotations []domain.Quotation) []domain.Quotation {
	if len(quotations) > contextLimit {
		return quotations[:contextLimit]
	}
	return quotations
}

func indentJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

var _ AssistantUseCase = (*AssistantService)(nil)
