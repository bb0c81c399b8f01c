package domain

import "time"

type AdjustmentReason string

const (
	ReasonRestock AdjustmentReason = "restock"
	ReasonSale    AdjustmentReason = "sale"
	ReasonReturn  AdjustmentReason = "return"
	ReasonDamaged AdjustmentReason = "damaged"
	ReasonManual  AdjustmentReason = "manual-adjustment"
)

func (r AdjustmentReason) Valid() bool {
	switch r {
	case ReasonRestock, ReasonSale, ReasonReturn, ReasonDamaged, ReasonManual:
		return true
	}
	return false
}

// InventoryAdjustment is one row of the append-only stock ledger. Rows are
// never updated or deleted; ResultingQty snapshots the stock level right
// after the adjustment so the history is self-describing.
type InventoryAdjustment struct {
	ID           string           `json:"id" gorm:"size:36;primaryKey"`
	ProductID    uint64           `json:"product_id" gorm:"not null;index:idx_adjustments_product_created,priority:1"`
	Delta        int              `json:"delta" gorm:"not null"`
	ResultingQty int              `json:"resulting_qty" gorm:"not null"`
	Reason       AdjustmentReason `json:"reason" gorm:"type:enum('restock','sale','return','damaged','manual-adjustment');not null"`
	Note         string           `json:"note,omitempty" gorm:"size:500"`
	Actor        string           `json:"actor,omitempty" gorm:"size:100"`
	CreatedAt    time.Time        `json:"created_at" gorm:"autoCreateTime;index:idx_adjustments_product_created,priority:2"`
}

// StockLevel is what an adjustment reports back to its caller.
type StockLevel struct {
	ProductID   uint64 `json:"product_id"`
	NewQuantity int    `json:"new_quantity"`
}
