package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys for the topic exchange.
const (
	EventOrderCreated        = "order.created"
	EventInventoryAdjusted   = "inventory.adjusted"
	EventSubscriptionChanged = "subscription.status_changed"
	EventReturnStatusChanged = "return.status_changed"
	EventReturnRestockFailed = "returns.restock_failed"
)

type OrderCreatedEvent struct {
	OrderID     uint64          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      uint64          `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

type InventoryAdjustedEvent struct {
	ProductID    uint64           `json:"product_id"`
	Delta        int              `json:"delta"`
	ResultingQty int              `json:"resulting_qty"`
	Reason       AdjustmentReason `json:"reason"`
	Actor        string           `json:"actor,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

type SubscriptionChangedEvent struct {
	OrderID        uint64             `json:"order_id"`
	Status         SubscriptionStatus `json:"status"`
	PreviousStatus SubscriptionStatus `json:"previous_status"`
	PausedUntil    *time.Time         `json:"paused_until,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

type ReturnStatusChangedEvent struct {
	ReturnID string       `json:"return_id"`
	OrderID  uint64       `json:"order_id"`
	Status   ReturnStatus `json:"status"`
}

// ReturnRestockFailedEvent flags a return item whose restock call failed at
// receive time, so an external reconciler can retry the credit.
type ReturnRestockFailedEvent struct {
	ReturnID  string `json:"return_id"`
	ProductID uint64 `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Error     string `json:"error"`
}
