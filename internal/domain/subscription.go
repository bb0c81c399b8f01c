package domain

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionPaused, SubscriptionCancelled:
		return true
	}
	return false
}

// SubscriptionStatusEvent is one row of the append-only subscription log.
// The current status of an order is a projection over this log (latest
// event by created_at), never a column of its own.
type SubscriptionStatusEvent struct {
	ID             string             `json:"id" gorm:"size:36;primaryKey"`
	OrderID        uint64             `json:"order_id" gorm:"not null;index:idx_sub_events_order_created,priority:1"`
	Status         SubscriptionStatus `json:"status" gorm:"type:enum('active','paused','cancelled');not null"`
	PreviousStatus SubscriptionStatus `json:"previous_status" gorm:"type:enum('active','paused','cancelled');not null"`
	Reason         string             `json:"reason,omitempty" gorm:"size:500"`
	PausedUntil    *time.Time         `json:"paused_until,omitempty"`
	CreatedAt      time.Time          `json:"created_at" gorm:"autoCreateTime;index:idx_sub_events_order_created,priority:2"`
}

// SubscriptionState is the projected current state for one order.
type SubscriptionState struct {
	OrderID          uint64                `json:"order_id"`
	Status           SubscriptionStatus    `json:"status"`
	Frequency        SubscriptionFrequency `json:"frequency,omitempty"`
	NextDeliveryDate *time.Time            `json:"next_delivery_date,omitempty"`
	PausedUntil      *time.Time            `json:"paused_until,omitempty"`
}
