package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront-engine/internal/domain"
	rabbit "storefront-engine/internal/infra/rabbitmq"
	"storefront-engine/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnLine is one item of a return request as filed by the customer.
type ReturnLine struct {
	OrderItemID uint64
	Quantity    int
	Reason      string
}

// ReturnsService runs the return lifecycle: requested -> approved ->
// received -> refunded, or requested -> rejected. Restocking happens
// exactly once, when the package is received.
type ReturnsService struct {
	returns   repository.ReturnRepository
	orders    repository.OrderRepository
	inventory InventoryAdjuster
	publisher rabbit.PublisherInterface
}

func NewReturnsService(r repository.ReturnRepository, o repository.OrderRepository, inv InventoryAdjuster, pub rabbit.PublisherInterface) *ReturnsService {
	return &ReturnsService{
		returns:   r,
		orders:    o,
		inventory: inv,
		publisher: pub,
	}
}

// FileReturn validates eligibility (order shipped or delivered, within the
// return window, items within the ordered quantities) and files the
// request. Claims are summed per order item across the request's lines and
// across prior non-rejected returns, so the total returned quantity can
// never exceed what was sold. The refund amount is precomputed from the
// item snapshots.
func (s *ReturnsService) FileReturn(ctx context.Context, orderID, userID uint64, reason string, lines []ReturnLine) (*domain.ReturnRequest, error) {
	if reason == "" {
		return nil, domain.Validationf("return reason is required")
	}
	if len(lines) == 0 {
		return nil, domain.Validationf("return must contain at least one item")
	}

	o, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status != domain.StatusShipped && o.Status != domain.StatusDelivered {
		return nil, domain.Conflictf("order %d is %s, only shipped or delivered orders can be returned", orderID, o.Status)
	}
	if time.Since(o.CreatedAt) > domain.ReturnWindow {
		return nil, domain.Conflictf("order %d is outside the %d-day return window", orderID, int(domain.ReturnWindow.Hours()/24))
	}

	itemsByID := make(map[uint64]domain.OrderItem, len(o.Items))
	for _, item := range o.Items {
		itemsByID[item.ID] = item
	}

	prior, err := s.returns.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	returned := make(map[uint64]int)
	for _, pr := range prior {
		if pr.Status == domain.ReturnRejected {
			continue
		}
		for _, item := range pr.Items {
			returned[item.OrderItemID] += item.Quantity
		}
	}

	now := time.Now()
	requestID := uuid.NewString()
	refund := decimal.Zero
	claimed := make(map[uint64]int, len(lines))
	returnItems := make([]domain.ReturnItem, 0, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, domain.Validationf("item %d: quantity must be positive", i+1)
		}
		item, ok := itemsByID[line.OrderItemID]
		if !ok {
			return nil, domain.Validationf("item %d: order item %d is not part of order %d", i+1, line.OrderItemID, orderID)
		}
		claimed[item.ID] += line.Quantity
		if claimed[item.ID] > item.Quantity {
			return nil, domain.Validationf("item %d: cannot return %d of %q, only %d were ordered", i+1, claimed[item.ID], item.ProductName, item.Quantity)
		}
		if claimed[item.ID]+returned[item.ID] > item.Quantity {
			return nil, domain.Validationf("item %d: %d of %q already returned, only %d left", i+1, returned[item.ID], item.ProductName, item.Quantity-returned[item.ID])
		}
		refund = refund.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		returnItems = append(returnItems, domain.ReturnItem{
			ID:              uuid.NewString(),
			ReturnRequestID: requestID,
			OrderItemID:     item.ID,
			ProductID:       item.ProductID,
			Quantity:        line.Quantity,
			Reason:          line.Reason,
		})
	}

	req := &domain.ReturnRequest{
		ID:           requestID,
		OrderID:      orderID,
		UserID:       userID,
		Reason:       reason,
		RefundAmount: refund,
		Status:       domain.ReturnRequested,
		CreatedAt:    now,
		UpdatedAt:    now,
		Items:        returnItems,
	}
	if err := s.returns.Create(req); err != nil {
		return nil, err
	}

	go s.publishStatusChanged(context.Background(), req)

	return req, nil
}

func (s *ReturnsService) GetReturn(ctx context.Context, id string) (*domain.ReturnRequest, error) {
	req, err := s.returns.FindByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrReturnNotFound
	}
	return req, nil
}

func (s *ReturnsService) ListReturns(ctx context.Context, status domain.ReturnStatus, limit int) ([]domain.ReturnRequest, error) {
	if status != "" {
		switch status {
		case domain.ReturnRequested, domain.ReturnApproved, domain.ReturnRejected, domain.ReturnReceived, domain.ReturnRefunded:
		default:
			return nil, domain.Validationf("unknown return status %q", status)
		}
	}
	if limit <= 0 {
		limit = 50
	}
	return s.returns.List(status, limit)
}

func (s *ReturnsService) Approve(ctx context.Context, id, notes string) (*domain.ReturnRequest, error) {
	req, err := s.GetReturn(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.ReturnRequested {
		return nil, domain.Conflictf("return %s is %s, only requested returns can be approved", id, req.Status)
	}

	req.Status = domain.ReturnApproved
	appendNotes(req, notes)
	req.UpdatedAt = time.Now()
	if err := s.returns.Update(req); err != nil {
		return nil, err
	}

	go s.publishStatusChanged(context.Background(), req)
	return req, nil
}

// Reject closes a requested return without ever touching stock. A note
// explaining the rejection is mandatory.
func (s *ReturnsService) Reject(ctx context.Context, id, notes string) (*domain.ReturnRequest, error) {
	if notes == "" {
		return nil, domain.Validationf("rejection requires a note")
	}

	req, err := s.GetReturn(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.ReturnRequested {
		return nil, domain.Conflictf("return %s is %s, only requested returns can be rejected", id, req.Status)
	}

	req.Status = domain.ReturnRejected
	appendNotes(req, notes)
	req.UpdatedAt = time.Now()
	if err := s.returns.Update(req); err != nil {
		return nil, err
	}

	go s.publishStatusChanged(context.Background(), req)
	return req, nil
}

// MarkReceived advances an approved return and credits stock back, one
// adjustment per item. Only the approved->received edge restocks, so a
// repeated call cannot double-credit. Restock failures are logged and
// published for external retry; the status still advances.
func (s *ReturnsService) MarkReceived(ctx context.Context, id, notes string) (*domain.ReturnRequest, error) {
	req, err := s.GetReturn(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.ReturnApproved {
		return nil, domain.Conflictf("return %s is %s, only approved returns can be received", id, req.Status)
	}

	req.Status = domain.ReturnReceived
	appendNotes(req, notes)
	req.UpdatedAt = time.Now()
	if err := s.returns.Update(req); err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		note := fmt.Sprintf("return %s", req.ID)
		_, err := s.inventory.AdjustStock(ctx, item.ProductID, item.Quantity, domain.ReasonReturn, note, "returns-workflow")
		if err != nil {
			log.Printf("restock failed for product %d on return %s: %v", item.ProductID, req.ID, err)
			go s.publishRestockFailed(context.Background(), req.ID, item, err)
		}
	}

	go s.publishStatusChanged(context.Background(), req)
	return req, nil
}

// ProcessRefund records the refunded amount, which may differ from the
// requested one (partial refunds are allowed).
func (s *ReturnsService) ProcessRefund(ctx context.Context, id string, amount decimal.Decimal) (*domain.ReturnRequest, error) {
	if !amount.IsPositive() {
		return nil, domain.Validationf("refund amount must be positive")
	}

	req, err := s.GetReturn(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.ReturnApproved && req.Status != domain.ReturnReceived {
		return nil, domain.Conflictf("return %s is %s, only approved or received returns can be refunded", id, req.Status)
	}

	req.Status = domain.ReturnRefunded
	req.RefundAmount = amount
	req.UpdatedAt = time.Now()
	if err := s.returns.Update(req); err != nil {
		return nil, err
	}

	go s.publishStatusChanged(context.Background(), req)
	return req, nil
}

func appendNotes(req *domain.ReturnRequest, notes string) {
	if notes == "" {
		return
	}
	if req.AdminNotes != "" {
		req.AdminNotes += "\n" + notes
		return
	}
	req.AdminNotes = notes
}

func (s *ReturnsService) publishStatusChanged(ctx context.Context, req *domain.ReturnRequest) {
	evt := domain.ReturnStatusChangedEvent{
		ReturnID: req.ID,
		OrderID:  req.OrderID,
		Status:   req.Status,
	}
	if err := s.publisher.Publish(ctx, domain.EventReturnStatusChanged, evt); err != nil {
		log.Printf("Failed to publish %s: %v", domain.EventReturnStatusChanged, err)
	}
}

func (s *ReturnsService) publishRestockFailed(ctx context.Context, returnID string, item domain.ReturnItem, cause error) {
	evt := domain.ReturnRestockFailedEvent{
		ReturnID:  returnID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Error:     cause.Error(),
	}
	if err := s.publisher.Publish(ctx, domain.EventReturnRestockFailed, evt); err != nil {
		log.Printf("Failed to publish %s: %v", domain.EventReturnRestockFailed, err)
	}
}
