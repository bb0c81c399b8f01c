package mysql

import (
	"errors"
	"log"
	"sort"
	"time"

	"storefront-engine/internal/domain"
	"storefront-engine/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) CreateWithItems(order *domain.Order) ([]repository.DebitResult, error) {
	var results []repository.DebitResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			log.Printf("order create error: %v", err)
			return err
		}
		for _, item := range debitSequence(order.Items) {
			res, err := adjustStockTx(tx, item.ProductID, -item.Quantity)
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					// The sale stands even when the catalog row is gone;
					// there is simply no stock to debit.
					log.Printf("order %s: no product row %d to debit", order.OrderNumber, item.ProductID)
					continue
				}
				return err
			}
			results = append(results, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// debitSequence copies the lines into ascending product id order, so
// concurrent placements take their row locks in the same sequence.
func debitSequence(items []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (r *orderRepo) FindByID(id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.Preload("Items").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("order FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUser(userID uint64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	if err != nil {
		log.Printf("order FindByUser error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(id uint64, status domain.OrderStatus) error {
	res := r.db.Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) UpdateNextDeliveryDate(id uint64, next time.Time) error {
	res := r.db.Model(&domain.Order{}).Where("id = ?", id).Update("next_delivery_date", next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) UpdateFrequency(id uint64, freq domain.SubscriptionFrequency) error {
	res := r.db.Model(&domain.Order{}).Where("id = ?", id).Update("subscription_frequency", freq)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
