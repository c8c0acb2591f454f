package api

import (
	"context"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/service/availability"
	"github.com/Domenick1991/cargoquote/internal/service/costing"
	"github.com/Domenick1991/cargoquote/internal/service/flights"
	"github.com/Domenick1991/cargoquote/internal/service/orders"
	"github.com/Domenick1991/cargoquote/internal/service/quotation"
	"github.com/Domenick1991/cargoquote/internal/service/vendors"
	"github.com/stretchr/testify/mock"
)

type MockOrderUseCase struct {
	mock.Mock
}

func (m *MockOrderUseCase) Create(ctx context.Context, input orders.CreateOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) List(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) Get(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) MatchingFlights(ctx context.Context, orderID int64, window domain.DateRange) ([]domain.Flight, error) {
	args := m.Called(ctx, orderID, window)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Assign(ctx context.Context, orderID, flightID int64) (*flights.Assignment, error) {
	args := m.Called(ctx, orderID, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.Assignment), args.Error(1)
}

func (m *MockFlightUseCase) PendingOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockFlightUseCase) ConfirmedOrders(ctx context.Context) ([]flights.ConfirmedOrder, error) {
	args := m.Called(ctx)
	return args.Get(0).([]flights.ConfirmedOrder), args.Error(1)
}

type MockQuotationUseCase struct {
	mock.Mock
}

func (m *MockQuotationUseCase) view(args mock.Arguments) (*quotation.View, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.View), args.Error(1)
}

func (m *MockQuotationUseCase) EstimateCosts(ctx context.Context, orderID int64) (*costing.Costs, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*costing.Costs), args.Error(1)
}

func (m *MockQuotationUseCase) GenerateQuote(ctx context.Context, order *domain.Order, costs costing.Costs) (*quotation.View, error) {
	return m.view(m.Called(ctx, order, costs))
}

func (m *MockQuotationUseCase) GenerateQuoteForOrder(ctx context.Context, orderID int64) (*quotation.View, error) {
	return m.view(m.Called(ctx, orderID))
}

func (m *MockQuotationUseCase) ListValid(ctx context.Context) ([]quotation.View, error) {
	args := m.Called(ctx)
	return args.Get(0).([]quotation.View), args.Error(1)
}

func (m *MockQuotationUseCase) ListForOrder(ctx context.Context, orderID int64) ([]quotation.View, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quotation.View), args.Error(1)
}

func (m *MockQuotationUseCase) Get(ctx context.Context, id int64) (*quotation.View, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockQuotationUseCase) SetMargin(ctx context.Context, id int64, percent float64) (*quotation.View, error) {
	return m.view(m.Called(ctx, id, percent))
}

func (m *MockQuotationUseCase) SetValidity(ctx context.Context, id int64, days int) (*quotation.View, error) {
	return m.view(m.Called(ctx, id, days))
}

func (m *MockQuotationUseCase) MarkSent(ctx context.Context, id int64) (*quotation.View, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockQuotationUseCase) Unlock(ctx context.Context, id int64, confirmed bool) (*quotation.View, error) {
	return m.view(m.Called(ctx, id, confirmed))
}

type MockVendorUseCase struct {
	mock.Mock
}

func (m *MockVendorUseCase) vendor(args mock.Arguments) (*domain.TruckingVendor, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TruckingVendor), args.Error(1)
}

func (m *MockVendorUseCase) Create(ctx context.Context, input vendors.VendorInput) (*domain.TruckingVendor, error) {
	return m.vendor(m.Called(ctx, input))
}

func (m *MockVendorUseCase) Update(ctx context.Context, id int64, input vendors.VendorInput) (*domain.TruckingVendor, error) {
	return m.vendor(m.Called(ctx, id, input))
}

func (m *MockVendorUseCase) Get(ctx context.Context, id int64) (*domain.TruckingVendor, error) {
	return m.vendor(m.Called(ctx, id))
}

func (m *MockVendorUseCase) List(ctx context.Context, filter vendors.Filter) ([]domain.TruckingVendor, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.TruckingVendor), args.Error(1)
}

func (m *MockVendorUseCase) ListActive(ctx context.Context) ([]domain.TruckingVendor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TruckingVendor), args.Error(1)
}

func (m *MockVendorUseCase) Regions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type MockBoard struct {
	mock.Mock
}

func (m *MockBoard) Current(ctx context.Context, by availability.SortBy) (availability.Snapshot, error) {
	args := m.Called(ctx, by)
	return args.Get(0).(availability.Snapshot), args.Error(1)
}

func (m *MockBoard) SetRoute(ctx context.Context, origin, destination string) (availability.Snapshot, error) {
	args := m.Called(ctx, origin, destination)
	return args.Get(0).(availability.Snapshot), args.Error(1)
}

type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockSessionManager) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
