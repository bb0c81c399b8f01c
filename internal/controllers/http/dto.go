package http

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartLineRequest struct {
	ProductID      uint64          `json:"product_id" binding:"required"`
	ProductName    string          `json:"product_name" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity" binding:"required,min=1"`
	IsSubscription bool            `json:"is_subscription"`
	Frequency      string          `json:"frequency,omitempty"`
}

type PlaceOrderRequest struct {
	Items           []CartLineRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string            `json:"shipping_address"`
	ShippingCost    decimal.Decimal   `json:"shipping_cost"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
	Note   string `json:"note,omitempty"`
	Actor  string `json:"actor,omitempty"`
}

type SetSubscriptionStatusRequest struct {
	Status      string     `json:"status" binding:"required,oneof=active paused cancelled"`
	Reason      string     `json:"reason,omitempty"`
	PausedUntil *time.Time `json:"paused_until,omitempty"`
}

type UpdateFrequencyRequest struct {
	Frequency string `json:"frequency" binding:"required,oneof=weekly biweekly monthly quarterly"`
}

type ReturnLineRequest struct {
	OrderItemID uint64 `json:"order_item_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Reason      string `json:"reason,omitempty"`
}

type FileReturnRequest struct {
	OrderID uint64              `json:"order_id" binding:"required"`
	Reason  string              `json:"reason" binding:"required"`
	Items   []ReturnLineRequest `json:"items" binding:"required,min=1,dive"`
}

type ReviewReturnRequest struct {
	Notes string `json:"notes,omitempty"`
}

type ProcessRefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
