package repository

import "storefront-engine/internal/domain"

type InventoryAdjustmentRepository interface {
	Append(adj *domain.InventoryAdjustment) error
	// ListByProduct returns up to limit adjustments, newest first.
	ListByProduct(productID uint64, limit int) ([]domain.InventoryAdjustment, error)
}
