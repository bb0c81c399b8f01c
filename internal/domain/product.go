package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string          `json:"name" gorm:"size:255;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock     int             `json:"stock" gorm:"not null;default:0"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}
