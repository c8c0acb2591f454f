package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/Domenick1991/cargoquote/internal/repository"
	"github.com/Domenick1991/cargoquote/internal/validation"
)

type OrderUseCase interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type CreateOrderInput struct {
	OrderNumber         string                   `json:"order_number"`
	OriginAirport       string                   `json:"origin_airport" validate:"required,len=3"`
	DestinationAirport  string                   `json:"destination_airport" validate:"required,len=3"`
	DistributionCenters []string                 `json:"distribution_centers" validate:"min=1,dive,required"`
	WeightKg            float64                  `json:"weight_kg" validate:"gt=0"`
	Dimensions          string                   `json:"dimensions"`
	CargoType           domain.CargoType         `json:"cargo_type" validate:"omitempty,oneof=General Perishable Hazardous Valuable 'Live Animals'"`
	TruckingVendorID    *int64                   `json:"trucking_vendor_id"`
	TruckingCostModel   domain.TruckingCostModel `json:"trucking_cost_model" validate:"omitempty,oneof=per_100kg per_uld per_truck"`
	CustomTruckingRate  float64                  `json:"custom_trucking_rate" validate:"gte=0"`
	ULDCount            int                      `json:"uld_count" validate:"gte=0"`
	TruckCount          int                      `json:"truck_count" validate:"gte=0"`
}

type OrderService struct {
	orders  repository.OrderRepository
	vendors repository.VendorRepository
	log     *logger.Logger
	now     func() time.Time
}

type OrderServiceOption func(*OrderService)

func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) {
		s.now = now
	}
}

func WithLogger(log *logger.Logger) OrderServiceOption {
	return func(s *OrderService) {
		s.log = log
	}
}

func NewOrderService(orders repository.OrderRepository, vendors repository.VendorRepository, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{orders: orders, vendors: vendors, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	input.OriginAirport = strings.ToUpper(strings.TrimSpace(input.OriginAirport))
	input.DestinationAirport = strings.ToUpper(strings.TrimSpace(input.DestinationAirport))
	input.DistributionCenters = dedupe(input.DistributionCenters)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if input.TruckingVendorID != nil {
		if _, err := s.vendors.GetByID(ctx, *input.TruckingVendorID); err != nil {
			if apperr.IsNotFound(err) {
				return nil, apperr.New(apperr.CodeValidation, "validation failed").
					WithDetails(map[string]string{"trucking_vendor_id": "unknown vendor"})
			}
			return nil, fmt.Errorf("resolve vendor: %w", err)
		}
	}

	order := &domain.Order{
		OrderNumber:         strings.TrimSpace(input.OrderNumber),
		OriginAirport:       input.OriginAirport,
		DestinationAirport:  input.DestinationAirport,
		DistributionCenters: input.DistributionCenters,
		WeightKg:            input.WeightKg,
		Dimensions:          input.Dimensions,
		CargoType:           input.CargoType,
		TruckingVendorID:    input.TruckingVendorID,
		TruckingCostModel:   input.TruckingCostModel,
		CustomTruckingRate:  input.CustomTruckingRate,
		ULDCount:            input.ULDCount,
		TruckCount:          input.TruckCount,
		Status:              domain.OrderStatusDraft,
	}
	if order.OrderNumber == "" {
		order.OrderNumber = fmt.Sprintf("ORD-%d", s.now().UnixMilli())
	}
	if order.CargoType == "" {
		order.CargoType = domain.CargoGeneral
	}
	if order.TruckingCostModel == "" {
		order.TruckingCostModel = domain.CostModelPer100Kg
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.log.Info(ctx, "order created", map[string]any{"order_id": order.ID, "order_number": order.OrderNumber})
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// Delete removes a draft or calculated order. Quoted and completed orders are
// rejected before the store is touched.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !order.Status.Deletable() {
		return apperr.New(apperr.CodeStateConflict, "Cannot delete orders that have been quoted or completed").
			WithDetails(map[string]string{"status": string(order.Status)})
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	s.log.Info(ctx, "order deleted", map[string]any{"order_id": id})
	return nil
}

// Advance moves order forward to target. Orders already at or past target are
// returned unchanged without a write.
func Advance(ctx context.Context, repo repository.OrderRepository, order *domain.Order, target domain.OrderStatus) (*domain.Order, error) {
	if order.Status.Reaches(target) {
		return order, nil
	}
	status := target
	return repo.Update(ctx, order.ID, domain.OrderPatch{Status: &status})
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

var _ OrderUseCase = (*OrderService)(nil)
