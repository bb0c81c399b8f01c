package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront-engine/internal/domain"
	rabbit "storefront-engine/internal/infra/rabbitmq"
	"storefront-engine/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one checkout line. Name and price are snapshotted into the
// order item from here, never re-read from the catalog.
type CartLine struct {
	ProductID      uint64
	ProductName    string
	UnitPrice      decimal.Decimal
	Quantity       int
	IsSubscription bool
	Frequency      domain.SubscriptionFrequency
}

type ShippingInfo struct {
	Address string
	Cost    decimal.Decimal
}

var statusRank = map[domain.OrderStatus]int{
	domain.StatusPending:    0,
	domain.StatusProcessing: 1,
	domain.StatusShipped:    2,
	domain.StatusDelivered:  3,
}

type OrderService struct {
	orders      repository.OrderRepository
	adjustments repository.InventoryAdjustmentRepository
	publisher   rabbit.PublisherInterface
	cache       *ProductCache
}

func NewOrderService(o repository.OrderRepository, a repository.InventoryAdjustmentRepository, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		orders:      o,
		adjustments: a,
		publisher:   pub,
	}
}

func (s *OrderService) SetProductCache(cache *ProductCache) {
	s.cache = cache
}

// PlaceOrder creates the order, its item snapshots and the per-line sale
// debits in one transaction, then appends the sale ledger rows. A line that
// hits the stock floor clamps to zero and still sells.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint64, lines []CartLine, shipping ShippingInfo) (*domain.Order, error) {
	if userID == 0 {
		return nil, domain.Validationf("user is required")
	}
	if len(lines) == 0 {
		return nil, domain.Validationf("cart is empty")
	}

	total := shipping.Cost
	items := make([]domain.OrderItem, 0, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, domain.Validationf("line %d: quantity must be positive", i+1)
		}
		if line.ProductName == "" {
			return nil, domain.Validationf("line %d: product name is required", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return nil, domain.Validationf("line %d: price must not be negative", i+1)
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
	}

	now := time.Now()
	order := &domain.Order{
		OrderNumber:     newOrderNumber(now),
		UserID:          userID,
		TotalAmount:     total,
		Status:          domain.StatusPending,
		ShippingAddress: shipping.Address,
		CreatedAt:       now,
		Items:           items,
	}

	// First subscription line wins when the cart mixes frequencies.
	for _, line := range lines {
		if line.IsSubscription {
			if _, ok := line.Frequency.Period(); !ok {
				return nil, domain.Validationf("unknown subscription frequency %q", line.Frequency)
			}
			order.IsSubscription = true
			order.SubscriptionFrequency = line.Frequency
			break
		}
	}

	s.warnOnShortStock(ctx, lines)

	debits, err := s.orders.CreateWithItems(order)
	if err != nil {
		return nil, err
	}

	for _, d := range debits {
		adj := &domain.InventoryAdjustment{
			ID:           uuid.NewString(),
			ProductID:    d.ProductID,
			Delta:        d.Delta,
			ResultingQty: d.ResultingQty,
			Reason:       domain.ReasonSale,
			Note:         fmt.Sprintf("order %s", order.OrderNumber),
			Actor:        fmt.Sprintf("user:%d", userID),
			CreatedAt:    now,
		}
		if err := s.adjustments.Append(adj); err != nil {
			log.Printf("sale ledger row lost for product %d on order %s: %v", d.ProductID, order.OrderNumber, err)
		}
		if s.cache != nil {
			s.cache.Invalidate(ctx, d.ProductID)
		}
	}

	go s.publishOrderCreated(context.Background(), order)

	return order, nil
}

// warnOnShortStock flags lines the floor will clamp. Advisory only: the
// clamp policy sells anyway, so a cache miss here never blocks checkout.
func (s *OrderService) warnOnShortStock(ctx context.Context, lines []CartLine) {
	if s.cache == nil {
		return
	}
	for _, line := range lines {
		p, err := s.cache.Get(ctx, line.ProductID)
		if err != nil {
			continue
		}
		if p.Stock < line.Quantity {
			log.Printf("product %d: ordering %d with %d on hand, debit will clamp", line.ProductID, line.Quantity, p.Stock)
		}
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.orders.FindByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.orders.FindByUser(userID)
}

// UpdateOrderStatus moves fulfillment forward (pending, processing,
// shipped, delivered) or cancels a non-terminal order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Validationf("unknown order status %q", status)
	}

	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() {
		return nil, domain.Conflictf("order %d is %s, no further transitions", id, o.Status)
	}
	if status != domain.StatusCancelled && statusRank[status] <= statusRank[o.Status] {
		return nil, domain.Conflictf("order %d cannot move from %s to %s", id, o.Status, status)
	}

	if err := s.orders.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	o.Status = status
	return o, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, domain.EventOrderCreated, evt); err != nil {
		log.Printf("Failed to publish %s: %v", domain.EventOrderCreated, err)
	}
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102150405"), suffix)
}
