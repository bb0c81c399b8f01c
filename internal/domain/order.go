package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further fulfillment transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type SubscriptionFrequency string

const (
	FrequencyWeekly    SubscriptionFrequency = "weekly"
	FrequencyBiweekly  SubscriptionFrequency = "biweekly"
	FrequencyMonthly   SubscriptionFrequency = "monthly"
	FrequencyQuarterly SubscriptionFrequency = "quarterly"
)

// Period returns the recurrence interval for the frequency.
func (f SubscriptionFrequency) Period() (time.Duration, bool) {
	switch f {
	case FrequencyWeekly:
		return 7 * 24 * time.Hour, true
	case FrequencyBiweekly:
		return 14 * 24 * time.Hour, true
	case FrequencyMonthly:
		return 30 * 24 * time.Hour, true
	case FrequencyQuarterly:
		return 91 * 24 * time.Hour, true
	}
	return 0, false
}

type Order struct {
	ID                    uint64                `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber           string                `json:"order_number" gorm:"size:32;uniqueIndex;not null"`
	UserID                uint64                `json:"user_id" gorm:"not null;index"`
	TotalAmount           decimal.Decimal       `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status                OrderStatus           `json:"status" gorm:"type:enum('pending','processing','shipped','delivered','cancelled');default:'pending'"`
	IsSubscription        bool                  `json:"is_subscription" gorm:"not null;default:false"`
	SubscriptionFrequency SubscriptionFrequency `json:"subscription_frequency,omitempty" gorm:"size:16"`
	NextDeliveryDate      *time.Time            `json:"next_delivery_date,omitempty"`
	ShippingAddress       string                `json:"shipping_address,omitempty" gorm:"size:500"`
	CreatedAt             time.Time             `json:"created_at" gorm:"autoCreateTime"`
	Items                 []OrderItem           `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots name and unit price at purchase time. Snapshots are
// immutable: they must never be re-derived from the current Product row.
type OrderItem struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     uint64          `json:"order_id" gorm:"not null;index"`
	ProductID   uint64          `json:"product_id" gorm:"not null;index"`
	ProductName string          `json:"product_name" gorm:"size:255;not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
}
