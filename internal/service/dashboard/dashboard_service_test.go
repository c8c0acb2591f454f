package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/repository/memory"
	"github.com/Domenick1991/cargoquote/internal/service/quotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockValidQuotations struct {
	mock.Mock
}

func (m *MockValidQuotations) ListValid(ctx context.Context) ([]quotation.View, error) {
	args := m.Called(ctx)
	return args.Get(0).([]quotation.View), args.Error(1)
}

func TestDashboardService_Summary(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	flight := &domain.Flight{FlightNumber: "CX880", OriginAirport: "HKG", DestinationAirport: "LAX", AvailableCapacityKg: 1000, Status: domain.FlightStatusScheduled}
	idle := &domain.Flight{FlightNumber: "CX882", OriginAirport: "HKG", DestinationAirport: "LAX", Status: domain.FlightStatusScheduled}
	require.NoError(t, store.Flights().Create(ctx, flight))
	require.NoError(t, store.Flights().Create(ctx, idle))

	statuses := []domain.OrderStatus{
		domain.OrderStatusDraft, domain.OrderStatusCalculated, domain.OrderStatusQuoted,
		domain.OrderStatusCompleted, domain.OrderStatusCompleted,
	}
	created := make([]*domain.Order, 0, len(statuses))
	for i, status := range statuses {
		o := &domain.Order{OrderNumber: fmt.Sprintf("ORD-%d", i), OriginAirport: "HKG", DestinationAirport: "LAX", DistributionCenters: []string{"x"}, WeightKg: 100, Status: status}
		if i >= 3 {
			o.AssignedFlightID = &flight.ID
		}
		require.NoError(t, store.Orders().Create(ctx, o))
		created = append(created, o)
	}

	quotes := &MockValidQuotations{}
	quotes.On("ListValid", ctx).Return([]quotation.View{
		{Quotation: domain.Quotation{OrderID: created[1].ID, FinalQuotePrice: 999, ProfitMarginPercent: 40}},
		{Quotation: domain.Quotation{OrderID: created[2].ID, FinalQuotePrice: 5635, ProfitMarginPercent: 15}},
		{Quotation: domain.Quotation{OrderID: created[3].ID, FinalQuotePrice: 1150.5, ProfitMarginPercent: 20}},
	}, nil).Once()

	service := NewDashboardService(store.Orders(), store.Flights(), quotes)
	summary, err := service.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalOrders)
	assert.Equal(t, 3, summary.QuotedOrders)
	assert.Equal(t, 6785.5, summary.TotalRevenue)
	assert.Equal(t, 17.5, summary.AverageMarginPercent)
	require.Len(t, summary.DispatchedFlights, 1)
	assert.Equal(t, "CX880", summary.DispatchedFlights[0].FlightNumber)
	assert.Equal(t, 2, summary.DispatchedFlights[0].AssignedOrders)
	assert.Len(t, summary.PendingShipments, 3)
}

func TestDashboardService_Summary_Empty(t *testing.T) {
	store := memory.NewStore()
	quotes := &MockValidQuotations{}
	quotes.On("ListValid", mock.Anything).Return([]quotation.View{}, nil)

	summary, err := NewDashboardService(store.Orders(), store.Flights(), quotes).Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalOrders)
	assert.Zero(t, summary.AverageMarginPercent)
	assert.NotNil(t, summary.PendingShipments)
}

func TestDashboardService_Summary_QuotationError(t *testing.T) {
	store := memory.NewStore()
	quotes := &MockValidQuotations{}
	expected := errors.New("boom")
	quotes.On("ListValid", mock.Anything).Return([]quotation.View(nil), expected)

	_, err := NewDashboardService(store.Orders(), store.Flights(), quotes).Summary(context.Background())
	assert.ErrorIs(t, err, expected)
}
