package mocks

import (
	"context"
	"time"

	"storefront-engine/internal/domain"
	"storefront-engine/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(id uint64) (*domain.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) AdjustStock(productID uint64, delta int) (repository.DebitResult, error) {
	args := m.Called(productID, delta)
	return args.Get(0).(repository.DebitResult), args.Error(1)
}

type MockInventoryAdjustmentRepository struct {
	mock.Mock
}

func (m *MockInventoryAdjustmentRepository) Append(adj *domain.InventoryAdjustment) error {
	args := m.Called(adj)
	return args.Error(0)
}

func (m *MockInventoryAdjustmentRepository) ListByProduct(productID uint64, limit int) ([]domain.InventoryAdjustment, error) {
	args := m.Called(productID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryAdjustment), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(order *domain.Order) ([]repository.DebitResult, error) {
	args := m.Called(order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DebitResult), args.Error(1)
}

func (m *MockOrderRepository) FindByID(id uint64) (*domain.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(userID uint64) ([]domain.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id uint64, status domain.OrderStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateNextDeliveryDate(id uint64, next time.Time) error {
	args := m.Called(id, next)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateFrequency(id uint64, freq domain.SubscriptionFrequency) error {
	args := m.Called(id, freq)
	return args.Error(0)
}

type MockSubscriptionEventRepository struct {
	mock.Mock
}

func (m *MockSubscriptionEventRepository) Append(ev *domain.SubscriptionStatusEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

func (m *MockSubscriptionEventRepository) LatestByOrder(orderID uint64) (*domain.SubscriptionStatusEvent, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscriptionStatusEvent), args.Error(1)
}

func (m *MockSubscriptionEventRepository) ListByOrder(orderID uint64) ([]domain.SubscriptionStatusEvent, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubscriptionStatusEvent), args.Error(1)
}

type MockReturnRepository struct {
	mock.Mock
}

func (m *MockReturnRepository) Create(req *domain.ReturnRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockReturnRepository) FindByID(id string) (*domain.ReturnRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReturnRequest), args.Error(1)
}

func (m *MockReturnRepository) List(status domain.ReturnStatus, limit int) ([]domain.ReturnRequest, error) {
	args := m.Called(status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReturnRequest), args.Error(1)
}

func (m *MockReturnRepository) ListByOrder(orderID uint64) ([]domain.ReturnRequest, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReturnRequest), args.Error(1)
}

func (m *MockReturnRepository) Update(req *domain.ReturnRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data interface{}) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

type MockInventoryAdjuster struct {
	mock.Mock
}

func (m *MockInventoryAdjuster) AdjustStock(ctx context.Context, productID uint64, delta int, reason domain.AdjustmentReason, note, actor string) (*domain.StockLevel, error) {
	args := m.Called(ctx, productID, delta, reason, note, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockLevel), args.Error(1)
}
