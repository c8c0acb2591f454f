package quotation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/kafka"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/Domenick1991/cargoquote/internal/metrics"
	"github.com/Domenick1991/cargoquote/internal/repository"
	"github.com/Domenick1991/cargoquote/internal/service/costing"
	"github.com/Domenick1991/cargoquote/internal/service/orders"
	"github.com/shopspring/decimal"
)

type QuotationUseCase interface {
	EstimateCosts(ctx context.Context, orderID int64) (*costing.Costs, error)
	GenerateQuote(ctx context.Context, order *domain.Order, costs costing.Costs) (*View, error)
	GenerateQuoteForOrder(ctx context.Context, orderID int64) (*View, error)
	ListValid(ctx context.Context) ([]View, error)
	ListForOrder(ctx context.Context, orderID int64) ([]View, error)
	Get(ctx context.Context, id int64) (*View, error)
	SetMargin(ctx context.Context, id int64, percent float64) (*View, error)
	SetValidity(ctx context.Context, id int64, days int) (*View, error)
	MarkSent(ctx context.Context, id int64) (*View, error)
	Unlock(ctx context.Context, id int64, confirmed bool) (*View, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// View is a quotation together with its edit lock. Status is reported as
// persisted: an unlocked quotation still reads back as "sent".
type View struct {
	domain.Quotation
	Locked bool `json:"locked"`
}

type Policy struct {
	DefaultMarginPercent float64
	MinMarginPercent     float64
	MaxMarginPercent     float64
	DefaultValidityDays  int
	DefaultTerms         string
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultMarginPercent: 15,
		MinMarginPercent:     5,
		MaxMarginPercent:     50,
		DefaultValidityDays:  14,
		DefaultTerms:         "Standard terms and conditions apply. Quote valid for 14 days.",
	}
}

type QuotationService struct {
	quotations         repository.QuotationRepository
	orders             repository.OrderRepository
	vendors            repository.VendorRepository
	producer           Producer
	quotationTopic     string
	notificationsTopic string
	policy             Policy
	metrics            *metrics.Quoting
	log                *logger.Logger
	now                func() time.Time

	mu       sync.Mutex
	unlocked map[int64]struct{}
}

type QuotationServiceOption func(*QuotationService)

func WithPolicy(p Policy) QuotationServiceOption {
	return func(s *QuotationService) {
		s.policy = p
	}
}

func WithProducer(producer Producer, quotationTopic, notificationsTopic string) QuotationServiceOption {
	return func(s *QuotationService) {
		s.producer = producer
		s.quotationTopic = quotationTopic
		s.notificationsTopic = notificationsTopic
	}
}

func WithMetrics(m *metrics.Quoting) QuotationServiceOption {
	return func(s *QuotationService) {
		s.metrics = m
	}
}

func WithLogger(log *logger.Logger) QuotationServiceOption {
	return func(s *QuotationService) {
		s.log = log
	}
}

func WithClock(now func() time.Time) QuotationServiceOption {
	return func(s *QuotationService) {
		s.now = now
	}
}

func NewQuotationService(
	quotations repository.QuotationRepository,
	orders repository.OrderRepository,
	vendors repository.VendorRepository,
	opts ...QuotationServiceOption,
) *QuotationService {
	s := &QuotationService{
		quotations: quotations,
		orders:     orders,
		vendors:    vendors,
		policy:     DefaultPolicy(),
		metrics:    metrics.NewQuoting(nil),
		log:        logger.Nop(),
		now:        time.Now,
		unlocked:   make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EstimateCosts prices an order against its vendor. An unresolvable vendor
// reference falls through to the default rate.
func (s *QuotationService) EstimateCosts(ctx context.Context, orderID int64) (*costing.Costs, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	vendor, err := s.resolveVendor(ctx, order)
	if err != nil {
		return nil, err
	}
	costs := costing.Estimate(*order, vendor)
	return &costs, nil
}

func (s *QuotationService) resolveVendor(ctx context.Context, order *domain.Order) (*domain.TruckingVendor, error) {
	if order.TruckingVendorID == nil {
		return nil, nil
	}
	vendor, err := s.vendors.GetByID(ctx, *order.TruckingVendorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve vendor: %w", err)
	}
	return vendor, nil
}

func (s *QuotationService) GenerateQuoteForOrder(ctx context.Context, orderID int64) (*View, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	vendor, err := s.resolveVendor(ctx, order)
	if err != nil {
		return nil, err
	}
	return s.GenerateQuote(ctx, order, costing.Estimate(*order, vendor))
}

// GenerateQuote creates a draft quotation at the default margin and advances
// the order to calculated. When the order write fails the quotation is
// deleted again and the order error is returned.
func (s *QuotationService) GenerateQuote(ctx context.Context, order *domain.Order, costs costing.Costs) (*View, error) {
	if order == nil {
		return nil, apperr.New(apperr.CodeValidation, "order is required")
	}
	markup, final := price(costs.Total, s.policy.DefaultMarginPercent)
	q := &domain.Quotation{
		OrderID:             order.ID,
		OrderNumber:         order.OrderNumber,
		TruckingCost:        costs.Trucking,
		AirFreightCost:      costs.AirlineOperating,
		TotalInternalCost:   costs.Total,
		ProfitMarginPercent: s.policy.DefaultMarginPercent,
		MarkupAmount:        markup,
		FinalQuotePrice:     final,
		ValidityDays:        s.policy.DefaultValidityDays,
		Status:              domain.QuotationStatusDraft,
		Terms:               s.policy.DefaultTerms,
	}
	if err := s.quotations.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	if _, err := orders.Advance(ctx, s.orders, order, domain.OrderStatusCalculated); err != nil {
		compErr := s.quotations.Delete(ctx, q.ID)
		s.metrics.Compensation("generate_quote", compErr == nil)
		if compErr != nil {
			s.log.Error(ctx, "failed to remove quotation after order update failure", compErr, map[string]any{"quotation_id": q.ID, "order_id": order.ID})
		}
		return nil, fmt.Errorf("advance order %d: %w", order.ID, err)
	}

	s.metrics.QuoteGenerated()
	s.publish(ctx, kafka.EventQuoteGenerated, q, false)
	s.log.Info(ctx, "quotation generated", map[string]any{"quotation_id": q.ID, "order_id": order.ID, "final_quote_price": q.FinalQuotePrice})
	return s.view(*q), nil
}

// ListValid keeps the most recent quotation per order, dropping quotations
// whose order no longer exists.
func (s *QuotationService) ListValid(ctx context.Context) ([]View, error) {
	all, err := s.quotations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	orderList, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	live := make(map[int64]struct{}, len(orderList))
	for _, o := range orderList {
		live[o.ID] = struct{}{}
	}

	latest := make(map[int64]domain.Quotation)
	var seq []int64
	for _, q := range all {
		if _, ok := live[q.OrderID]; !ok {
			continue
		}
		cur, seen := latest[q.OrderID]
		if !seen {
			seq = append(seq, q.OrderID)
		}
		if !seen || newer(q, cur) {
			latest[q.OrderID] = q
		}
	}

	out := make([]View, 0, len(seq))
	for _, id := range seq {
		out = append(out, *s.view(latest[id]))
	}
	return out, nil
}

// ListForOrder returns every quotation generated for an order, newest first.
func (s *QuotationService) ListForOrder(ctx context.Context, orderID int64) ([]View, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	list, err := s.quotations.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list quotations for order %d: %w", orderID, err)
	}
	out := make([]View, 0, len(list))
	for _, q := range list {
		out = append(out, *s.view(q))
	}
	return out, nil
}

func newer(a, b domain.Quotation) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (s *QuotationService) Get(ctx context.Context, id int64) (*View, error) {
	q, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(*q), nil
}

// SetMargin persists a new margin with markup and final price recomputed from
// the stored internal cost.
func (s *QuotationService) SetMargin(ctx context.Context, id int64, percent float64) (*View, error) {
	if percent < s.policy.MinMarginPercent || percent > s.policy.MaxMarginPercent {
		return nil, apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"profit_margin_percent": fmt.Sprintf("must be between %v and %v", s.policy.MinMarginPercent, s.policy.MaxMarginPercent)})
	}
	q, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	markup, final := price(q.TotalInternalCost, percent)
	updated, err := s.quotations.Update(ctx, id, domain.QuotationPatch{
		ProfitMarginPercent: &percent,
		MarkupAmount:        &markup,
		FinalQuotePrice:     &final,
	})
	if err != nil {
		return nil, fmt.Errorf("update quotation %d: %w", id, err)
	}
	return s.view(*updated), nil
}

func (s *QuotationService) SetValidity(ctx context.Context, id int64, days int) (*View, error) {
	if days < 1 {
		return nil, apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"validity_days": "must be at least 1"})
	}
	if _, err := s.editable(ctx, id); err != nil {
		return nil, err
	}
	updated, err := s.quotations.Update(ctx, id, domain.QuotationPatch{ValidityDays: &days})
	if err != nil {
		return nil, fmt.Errorf("update quotation %d: %w", id, err)
	}
	return s.view(*updated), nil
}

// MarkSent seals a draft quotation and moves its order to quoted. A failed
// order write restores the quotation's previous status.
func (s *QuotationService) MarkSent(ctx context.Context, id int64) (*View, error) {
	q, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status.Sealed() {
		return nil, apperr.Newf(apperr.CodeStateConflict, "quotation is already %s", q.Status)
	}
	order, err := s.orders.GetByID(ctx, q.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", q.OrderID, err)
	}

	sent := domain.QuotationStatusSent
	updated, err := s.quotations.Update(ctx, id, domain.QuotationPatch{Status: &sent})
	if err != nil {
		return nil, fmt.Errorf("update quotation %d: %w", id, err)
	}

	if _, err := orders.Advance(ctx, s.orders, order, domain.OrderStatusQuoted); err != nil {
		previous := q.Status
		_, compErr := s.quotations.Update(ctx, id, domain.QuotationPatch{Status: &previous})
		s.metrics.Compensation("mark_sent", compErr == nil)
		if compErr != nil {
			s.log.Error(ctx, "failed to restore quotation status after order update failure", compErr, map[string]any{"quotation_id": id, "order_id": order.ID})
		}
		return nil, fmt.Errorf("advance order %d: %w", order.ID, err)
	}

	s.mu.Lock()
	delete(s.unlocked, id)
	s.mu.Unlock()

	s.metrics.QuoteSent()
	s.publish(ctx, kafka.EventQuoteSent, updated, true)
	s.log.Info(ctx, "quotation sent", map[string]any{"quotation_id": id, "order_id": order.ID})
	return s.view(*updated), nil
}

// Unlock lifts the edit lock on a sent quotation. The persisted status is left
// as sent. Accepted quotations cannot be unlocked.
func (s *QuotationService) Unlock(ctx context.Context, id int64, confirmed bool) (*View, error) {
	if !confirmed {
		return nil, apperr.New(apperr.CodeValidation, "unlock requires explicit confirmation").
			WithDetails(map[string]string{"confirmed": "must be true"})
	}
	q, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status == domain.QuotationStatusAccepted {
		return nil, apperr.New(apperr.CodeStateConflict, "accepted quotations cannot be unlocked")
	}
	if q.Status == domain.QuotationStatusSent {
		s.mu.Lock()
		s.unlocked[id] = struct{}{}
		s.mu.Unlock()
		s.log.Info(ctx, "quotation unlocked", map[string]any{"quotation_id": id})
	}
	return s.view(*q), nil
}

func (s *QuotationService) editable(ctx context.Context, id int64) (*domain.Quotation, error) {
	q, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.locked(*q) {
		return nil, apperr.Newf(apperr.CodeStateConflict, "quotation is %s and locked for editing", q.Status)
	}
	return q, nil
}

func (s *QuotationService) locked(q domain.Quotation) bool {
	if !q.Status.Sealed() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.unlocked[q.ID]
	return !ok
}

func (s *QuotationService) view(q domain.Quotation) *View {
	return &View{Quotation: q, Locked: s.locked(q)}
}

func (s *QuotationService) publish(ctx context.Context, eventType string, q *domain.Quotation, notify bool) {
	if s.producer == nil {
		return
	}
	event := kafka.QuotationEvent{
		Type:            eventType,
		OrderID:         q.OrderID,
		OrderNumber:     q.OrderNumber,
		QuotationID:     q.ID,
		FinalQuotePrice: q.FinalQuotePrice,
		OccurredAt:      s.now(),
	}
	if err := s.producer.Publish(ctx, s.quotationTopic, event.Key(), event); err != nil {
		s.log.Warn(ctx, "failed to publish quotation event", err, map[string]any{"type": eventType, "quotation_id": q.ID})
		return
	}
	if notify && s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.Key(), event); err != nil {
			s.log.Warn(ctx, "failed to publish notification", err, map[string]any{"type": eventType, "quotation_id": q.ID})
		}
	}
}

// price returns markup and final price for total at margin percent, rounded to cents.
func price(total, marginPercent float64) (markup, final float64) {
	t := decimal.NewFromFloat(total)
	m := t.Mul(decimal.NewFromFloat(marginPercent)).Div(decimal.NewFromInt(100)).Round(2)
	return m.InexactFloat64(), t.Add(m).Round(2).InexactFloat64()
}

var _ QuotationUseCase = (*QuotationService)(nil)
