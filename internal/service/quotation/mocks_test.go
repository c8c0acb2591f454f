package quotation

import (
	"context"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/stretchr/testify/mock"
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

type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) List(ctx context.Context) ([]domain.Quotation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.Quotation, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	args := m.Called(ctx, q)
	if args.Error(0) == nil {
		q.ID = 77
	}
	return args.Error(0)
}

func (m *MockQuotationRepository) Update(ctx context.Context, id int64, patch domain.QuotationPatch) (*domain.Quotation, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	return m.Called(ctx, topic, key, value).Error(0)
}
