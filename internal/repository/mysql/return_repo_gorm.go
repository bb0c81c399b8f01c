package mysql

import (
	"errors"
	"log"

	"storefront-engine/internal/domain"
	"storefront-engine/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type returnRepo struct {
	db *gorm.DB
}

func NewReturnRepository(db *gorm.DB) repository.ReturnRepository {
	return &returnRepo{db: db}
}

func (r *returnRepo) Create(req *domain.ReturnRequest) error {
	// Create cascades to Items through the association.
	if err := r.db.Create(req).Error; err != nil {
		log.Printf("return create error: %v", err)
		return err
	}
	return nil
}

func (r *returnRepo) FindByID(id string) (*domain.ReturnRequest, error) {
	var req domain.ReturnRequest
	if err := r.db.Preload("Items").Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("return FindByID error: %v", err)
		return nil, err
	}
	return &req, nil
}

func (r *returnRepo) List(status domain.ReturnStatus, limit int) ([]domain.ReturnRequest, error) {
	var out []domain.ReturnRequest
	q := r.db.Preload("Items").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		log.Printf("return List error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *returnRepo) ListByOrder(orderID uint64) ([]domain.ReturnRequest, error) {
	var out []domain.ReturnRequest
	if err := r.db.Preload("Items").Where("order_id = ?", orderID).Find(&out).Error; err != nil {
		log.Printf("return ListByOrder error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *returnRepo) Update(req *domain.ReturnRequest) error {
	// Items are immutable once filed; only the request row is written.
	if err := r.db.Omit(clause.Associations).Save(req).Error; err != nil {
		log.Printf("return update error: %v", err)
		return err
	}
	return nil
}
