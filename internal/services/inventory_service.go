package services

import (
	"context"
	"log"
	"time"

	"storefront-engine/internal/domain"
	rabbit "storefront-engine/internal/infra/rabbitmq"
	"storefront-engine/internal/repository"

	"github.com/google/uuid"
)

// InventoryAdjuster is the ledger surface other services call to move
// stock. The returns workflow restocks through it.
type InventoryAdjuster interface {
	AdjustStock(ctx context.Context, productID uint64, delta int, reason domain.AdjustmentReason, note, actor string) (*domain.StockLevel, error)
}

// InventoryService owns stock truth and its append-only adjustment history.
// The stock row is primary state; the history row is advisory audit. A
// failed history append is logged, never surfaced.
type InventoryService struct {
	products    repository.ProductRepository
	adjustments repository.InventoryAdjustmentRepository
	publisher   rabbit.PublisherInterface
	cache       *ProductCache
}

func NewInventoryService(p repository.ProductRepository, a repository.InventoryAdjustmentRepository, pub rabbit.PublisherInterface) *InventoryService {
	return &InventoryService{
		products:    p,
		adjustments: a,
		publisher:   pub,
	}
}

func (s *InventoryService) SetProductCache(cache *ProductCache) {
	s.cache = cache
}

func (s *InventoryService) AdjustStock(ctx context.Context, productID uint64, delta int, reason domain.AdjustmentReason, note, actor string) (*domain.StockLevel, error) {
	if delta == 0 {
		return nil, domain.Validationf("delta must be a nonzero integer")
	}
	if !reason.Valid() {
		return nil, domain.Validationf("unknown adjustment reason %q", reason)
	}

	res, err := s.products.AdjustStock(productID, delta)
	if err != nil {
		return nil, err
	}

	adj := &domain.InventoryAdjustment{
		ID:           uuid.NewString(),
		ProductID:    productID,
		Delta:        res.Delta,
		ResultingQty: res.ResultingQty,
		Reason:       reason,
		Note:         note,
		Actor:        actor,
		CreatedAt:    time.Now(),
	}
	if err := s.adjustments.Append(adj); err != nil {
		log.Printf("history append failed for product %d (stock already at %d): %v", productID, res.ResultingQty, err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, productID)
	}

	go s.publishAdjusted(context.Background(), adj)

	return &domain.StockLevel{ProductID: productID, NewQuantity: res.ResultingQty}, nil
}

func (s *InventoryService) GetHistory(ctx context.Context, productID uint64, limit int) ([]domain.InventoryAdjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.adjustments.ListByProduct(productID, limit)
}

func (s *InventoryService) publishAdjusted(ctx context.Context, adj *domain.InventoryAdjustment) {
	evt := domain.InventoryAdjustedEvent{
		ProductID:    adj.ProductID,
		Delta:        adj.Delta,
		ResultingQty: adj.ResultingQty,
		Reason:       adj.Reason,
		Actor:        adj.Actor,
		CreatedAt:    adj.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, domain.EventInventoryAdjusted, evt); err != nil {
		log.Printf("Failed to publish %s: %v", domain.EventInventoryAdjusted, err)
	}
}
