package dashboard

import (
	"context"
	"fmt"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/repository"
	"github.com/Domenick1991/cargoquote/internal/service/quotation"
	"github.com/shopspring/decimal"
)

const listLimit = 5

type DashboardUseCase interface {
	Summary(ctx context.Context) (*Summary, error)
}

type ValidQuotations interface {
	ListValid(ctx context.Context) ([]quotation.View, error)
}

type DispatchedFlight struct {
	domain.Flight
	AssignedOrders int `json:"assigned_orders"`
}

type Summary struct {
	TotalOrders          int                `json:"total_orders"`
	QuotedOrders         int                `json:"quoted_orders"`
	TotalRevenue         float64            `json:"total_revenue"`
	AverageMarginPercent float64            `json:"average_margin_percent"`
	DispatchedFlights    []DispatchedFlight `json:"dispatched_flights"`
	PendingShipments     []domain.Order     `json:"pending_shipments"`
}

type DashboardService struct {
	orders     repository.OrderRepository
	flights    repository.FlightRepository
	quotations ValidQuotations
}

func NewDashboardService(orders repository.OrderRepository, flights repository.FlightRepository, quotations ValidQuotations) *DashboardService {
	return &DashboardService{orders: orders, flights: flights, quotations: quotations}
}

func (s *DashboardService) Summary(ctx context.Context) (*Summary, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	quotes, err := s.quotations.ListValid(ctx)
	if err != nil {
		return nil, err
	}
	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}

	summary := &Summary{
		TotalOrders:       len(orders),
		DispatchedFlights: make([]DispatchedFlight, 0, listLimit),
		PendingShipments:  make([]domain.Order, 0, listLimit),
	}

	quoted := make(map[int64]bool, len(orders))
	assigned := make(map[int64]int)
	for _, o := range orders {
		if o.Status.Reaches(domain.OrderStatusQuoted) {
			summary.QuotedOrders++
			quoted[o.ID] = true
		}
		if o.AssignedFlightID != nil {
			assigned[*o.AssignedFlightID]++
		} else if len(summary.PendingShipments) < listLimit {
			summary.PendingShipments = append(summary.PendingShipments, o)
		}
	}

	revenue := decimal.Zero
	margins := decimal.Zero
	counted := 0
	for _, q := range quotes {
		if !quoted[q.OrderID] {
			continue
		}
		revenue = revenue.Add(decimal.NewFromFloat(q.FinalQuotePrice))
		margins = margins.Add(decimal.NewFromFloat(q.ProfitMarginPercent))
		counted++
	}
	summary.TotalRevenue = revenue.Round(2).InexactFloat64()
	if counted > 0 {
		summary.AverageMarginPercent = margins.Div(decimal.NewFromInt(int64(counted))).Round(2).InexactFloat64()
	}

	for _, f := range flights {
		if len(summary.DispatchedFlights) == listLimit {
			break
		}
		if n := assigned[f.ID]; n > 0 {
			summary.DispatchedFlights = append(summary.DispatchedFlights, DispatchedFlight{Flight: f, AssignedOrders: n})
		}
	}
	return summary, nil
}

var _ DashboardUseCase = (*DashboardService)(nil)
