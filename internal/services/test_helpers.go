package services

import (
	"time"

	"storefront-engine/internal/domain"

	"github.com/shopspring/decimal"
)

func testOrder(id, userID uint64, status domain.OrderStatus, items ...domain.OrderItem) *domain.Order {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return &domain.Order{
		ID:          id,
		OrderNumber: "ORD-20250101120000-TEST0001",
		UserID:      userID,
		TotalAmount: total,
		Status:      status,
		CreatedAt:   time.Now().Add(-24 * time.Hour),
		Items:       items,
	}
}

func testOrderItem(id, productID uint64, name string, price string, qty int) domain.OrderItem {
	return domain.OrderItem{
		ID:          id,
		OrderID:     1,
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   decimal.RequireFromString(price),
		Quantity:    qty,
	}
}

func testSubscriptionOrder(id uint64, freq domain.SubscriptionFrequency, next *time.Time) *domain.Order {
	return &domain.Order{
		ID:                    id,
		OrderNumber:           "ORD-20250101120000-TESTSUB1",
		UserID:                7,
		TotalAmount:           decimal.RequireFromString("49.90"),
		Status:                domain.StatusProcessing,
		IsSubscription:        true,
		SubscriptionFrequency: freq,
		NextDeliveryDate:      next,
		CreatedAt:             time.Now().Add(-48 * time.Hour),
	}
}

func testReturn(id string, orderID uint64, status domain.ReturnStatus, items ...domain.ReturnItem) *domain.ReturnRequest {
	return &domain.ReturnRequest{
		ID:           id,
		OrderID:      orderID,
		UserID:       7,
		Reason:       "damaged in transit",
		RefundAmount: decimal.RequireFromString("29.97"),
		Status:       status,
		CreatedAt:    time.Now().Add(-time.Hour),
		UpdatedAt:    time.Now().Add(-time.Hour),
		Items:        items,
	}
}
