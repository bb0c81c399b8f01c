package mysql

import (
	"errors"
	"log"

	"storefront-engine/internal/domain"
	"storefront-engine/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindByID(id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("product FindByID error: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) AdjustStock(productID uint64, delta int) (repository.DebitResult, error) {
	var result repository.DebitResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = adjustStockTx(tx, productID, delta)
		return err
	})
	if err != nil {
		return repository.DebitResult{}, err
	}
	return result, nil
}

// adjustStockTx applies delta to the product's stock under a row lock,
// clamping at zero. The lock closes the lost-update window between the
// read and the write.
func adjustStockTx(tx *gorm.DB, productID uint64, delta int) (repository.DebitResult, error) {
	var p domain.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.DebitResult{}, domain.ErrProductNotFound
		}
		return repository.DebitResult{}, err
	}

	newQty := p.Stock + delta
	if newQty < 0 {
		newQty = 0
	}
	if err := tx.Model(&domain.Product{}).Where("id = ?", productID).Update("stock", newQty).Error; err != nil {
		return repository.DebitResult{}, err
	}

	return repository.DebitResult{
		ProductID:    productID,
		Delta:        newQty - p.Stock,
		ResultingQty: newQty,
	}, nil
}
