package repository

import "storefront-engine/internal/domain"

type ProductRepository interface {
	FindByID(id uint64) (*domain.Product, error)
	// AdjustStock applies delta atomically under a row lock, clamping the
	// result at zero. The returned DebitResult carries the delta actually
	// applied, which the ledger records so replaying history reconstructs
	// the stock level exactly.
	AdjustStock(productID uint64, delta int) (DebitResult, error)
}
