package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.Order, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func validInput() CreateOrderInput {
	return CreateOrderInput{
		OriginAirport:       "hkg",
		DestinationAirport:  "LAX",
		DistributionCenters: []string{"Downtown LA Hub", "Downtown LA Hub", "Long Beach Distribution"},
		WeightKg:            1000,
	}
}

func TestOrderService_Create_AppliesDefaults(t *testing.T) {
	store := memory.NewStore()
	fixed := time.UnixMilli(1735689600000)
	service := NewOrderService(store.Orders(), store.Vendors(), WithClock(func() time.Time { return fixed }))

	order, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "ORD-1735689600000", order.OrderNumber)
	assert.Equal(t, "HKG", order.OriginAirport)
	assert.Equal(t, []string{"Downtown LA Hub", "Long Beach Distribution"}, order.DistributionCenters)
	assert.Equal(t, domain.CargoGeneral, order.CargoType)
	assert.Equal(t, domain.CostModelPer100Kg, order.TruckingCostModel)
	assert.Equal(t, domain.OrderStatusDraft, order.Status)
}

func TestOrderService_Create_ValidationNeverReachesStore(t *testing.T) {
	repo := &MockOrderRepository{}
	service := NewOrderService(repo, memory.NewStore().Vendors())

	cases := map[string]func(*CreateOrderInput){
		"missing destination": func(in *CreateOrderInput) { in.DestinationAirport = "" },
		"zero weight":         func(in *CreateOrderInput) { in.WeightKg = 0 },
		"negative weight":     func(in *CreateOrderInput) { in.WeightKg = -5 },
		"no centers":          func(in *CreateOrderInput) { in.DistributionCenters = nil },
		"bad cost model":      func(in *CreateOrderInput) { in.TruckingCostModel = "per_pallet" },
		"negative rate":       func(in *CreateOrderInput) { in.CustomTruckingRate = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := service.Create(context.Background(), in)
			assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Create_UnknownVendor(t *testing.T) {
	store := memory.NewStore()
	service := NewOrderService(store.Orders(), store.Vendors())

	in := validInput()
	missing := int64(42)
	in.TruckingVendorID = &missing

	_, err := service.Create(context.Background(), in)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestOrderService_Delete_DraftRemovedFromList(t *testing.T) {
	store := memory.NewStore()
	service := NewOrderService(store.Orders(), store.Vendors())
	ctx := context.Background()

	order, err := service.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, order.ID))

	list, err := service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrderService_Delete_GuardsQuotedAndCompleted(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderStatusQuoted, domain.OrderStatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			repo := &MockOrderRepository{}
			service := NewOrderService(repo, nil)
			ctx := context.Background()

			repo.On("GetByID", ctx, int64(5)).Return(&domain.Order{ID: 5, Status: status}, nil).Once()

			err := service.Delete(ctx, 5)

			assert.Equal(t, apperr.CodeStateConflict, apperr.CodeOf(err))
			repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_Delete_StoreFailureSurfaces(t *testing.T) {
	repo := &MockOrderRepository{}
	service := NewOrderService(repo, nil)
	ctx := context.Background()

	storeErr := errors.New("network down")
	repo.On("GetByID", ctx, int64(5)).Return(&domain.Order{ID: 5, Status: domain.OrderStatusCalculated}, nil).Once()
	repo.On("Delete", ctx, int64(5)).Return(storeErr).Once()

	err := service.Delete(ctx, 5)
	assert.ErrorIs(t, err, storeErr)
	repo.AssertExpectations(t)
}

func TestAdvance_NeverRegresses(t *testing.T) {
	repo := &MockOrderRepository{}
	ctx := context.Background()
	order := &domain.Order{ID: 3, Status: domain.OrderStatusQuoted}

	got, err := Advance(ctx, repo, order, domain.OrderStatusCalculated)

	require.NoError(t, err)
	assert.Same(t, order, got)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvance_WritesForwardStatus(t *testing.T) {
	repo := &MockOrderRepository{}
	ctx := context.Background()
	order := &domain.Order{ID: 3, Status: domain.OrderStatusDraft}
	status := domain.OrderStatusCalculated

	repo.On("Update", ctx, int64(3), domain.OrderPatch{Status: &status}).
		Return(&domain.Order{ID: 3, Status: status}, nil).Once()

	got, err := Advance(ctx, repo, order, status)
	require.NoError(t, err)
	assert.Equal(t, status, got.Status)
	repo.AssertExpectations(t)
}
