package mysql

import (
	"errors"
	"log"

	"storefront-engine/internal/domain"
	"storefront-engine/internal/repository"

	"gorm.io/gorm"
)

type subscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionEventRepository(db *gorm.DB) repository.SubscriptionEventRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) Append(ev *domain.SubscriptionStatusEvent) error {
	if err := r.db.Create(ev).Error; err != nil {
		log.Printf("subscription event append error: %v", err)
		return err
	}
	return nil
}

func (r *subscriptionRepo) LatestByOrder(orderID uint64) (*domain.SubscriptionStatusEvent, error) {
	var ev domain.SubscriptionStatusEvent
	err := r.db.Where("order_id = ?", orderID).Order("created_at DESC, id DESC").First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("subscription LatestByOrder error: %v", err)
		return nil, err
	}
	return &ev, nil
}

func (r *subscriptionRepo) ListByOrder(orderID uint64) ([]domain.SubscriptionStatusEvent, error) {
	var out []domain.SubscriptionStatusEvent
	if err := r.db.Where("order_id = ?", orderID).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		log.Printf("subscription ListByOrder error: %v", err)
		return nil, err
	}
	return out, nil
}
