package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReturnStatus string

const (
	ReturnRequested ReturnStatus = "requested"
	ReturnApproved  ReturnStatus = "approved"
	ReturnRejected  ReturnStatus = "rejected"
	ReturnReceived  ReturnStatus = "received"
	ReturnRefunded  ReturnStatus = "refunded"
)

// ReturnWindow is how long after placement an order stays returnable.
const ReturnWindow = 30 * 24 * time.Hour

type ReturnRequest struct {
	ID           string          `json:"id" gorm:"size:36;primaryKey"`
	OrderID      uint64          `json:"order_id" gorm:"not null;index"`
	UserID       uint64          `json:"user_id" gorm:"not null;index"`
	Reason       string          `json:"reason" gorm:"size:500;not null"`
	RefundAmount decimal.Decimal `json:"refund_amount" gorm:"type:decimal(10,2);not null"`
	Status       ReturnStatus    `json:"status" gorm:"type:enum('requested','approved','rejected','received','refunded');default:'requested'"`
	AdminNotes   string          `json:"admin_notes,omitempty" gorm:"size:1000"`
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	Items        []ReturnItem    `json:"items,omitempty" gorm:"foreignKey:ReturnRequestID"`
}

type ReturnItem struct {
	ID              string `json:"id" gorm:"size:36;primaryKey"`
	ReturnRequestID string `json:"return_request_id" gorm:"size:36;not null;index"`
	OrderItemID     uint64 `json:"order_item_id" gorm:"not null"`
	ProductID       uint64 `json:"product_id" gorm:"not null"`
	Quantity        int    `json:"quantity" gorm:"not null"`
	Reason          string `json:"reason,omitempty" gorm:"size:500"`
}
