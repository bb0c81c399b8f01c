package mysql

import (
	"log"

	"storefront-engine/internal/domain"
	"storefront-engine/internal/repository"

	"gorm.io/gorm"
)

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryAdjustmentRepository(db *gorm.DB) repository.InventoryAdjustmentRepository {
	return &inventoryRepo{db: db}
}

func (r *inventoryRepo) Append(adj *domain.InventoryAdjustment) error {
	if err := r.db.Create(adj).Error; err != nil {
		log.Printf("adjustment append error: %v", err)
		return err
	}
	return nil
}

func (r *inventoryRepo) ListByProduct(productID uint64, limit int) ([]domain.InventoryAdjustment, error) {
	var out []domain.InventoryAdjustment
	q := r.db.Where("product_id = ?", productID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		log.Printf("adjustment ListByProduct error: %v", err)
		return nil, err
	}
	return out, nil
}
