package repository

import (
	"time"

	"storefront-engine/internal/domain"
)

// DebitResult reports what one in-transaction stock debit actually did.
// Delta is the applied change, which is smaller in magnitude than the
// requested quantity when the stock floor clamped it.
type DebitResult struct {
	ProductID    uint64
	Delta        int
	ResultingQty int
}

type OrderRepository interface {
	// CreateWithItems persists the order, its items and the per-line sale
	// debits in a single transaction. Stock is clamped at zero, never
	// rejected: the sale goes through even when bookkeeping says otherwise.
	CreateWithItems(order *domain.Order) ([]DebitResult, error)
	FindByID(id uint64) (*domain.Order, error)
	FindByUser(userID uint64) ([]domain.Order, error)
	UpdateStatus(id uint64, status domain.OrderStatus) error
	UpdateNextDeliveryDate(id uint64, next time.Time) error
	UpdateFrequency(id uint64, freq domain.SubscriptionFrequency) error
}
