package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-engine/internal/domain"
	"storefront-engine/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func deliveredOrderWithItems() *domain.Order {
	return testOrder(1, 7, domain.StatusDelivered,
		testOrderItem(10, 100, "Colombian Beans", "9.99", 3),
		testOrderItem(11, 101, "Filter Papers", "4.00", 2),
	)
}

func TestReturnsService_FileReturn(t *testing.T) {
	tests := []struct {
		name          string
		order         *domain.Order
		prior         []domain.ReturnRequest
		userID        uint64
		reason        string
		lines         []ReturnLine
		check         func(*testing.T, *domain.ReturnRequest)
		expectedError string
	}{
		{
			name:   "successful filing computes the refund from snapshots",
			order:  deliveredOrderWithItems(),
			userID: 7,
			reason: "damaged in transit",
			lines: []ReturnLine{
				{OrderItemID: 10, Quantity: 3, Reason: "crushed box"},
				{OrderItemID: 11, Quantity: 1},
			},
			check: func(t *testing.T, req *domain.ReturnRequest) {
				// 3*9.99 + 1*4.00
				assert.True(t, req.RefundAmount.Equal(decimal.RequireFromString("33.97")), "refund was %s", req.RefundAmount)
				assert.Equal(t, domain.ReturnRequested, req.Status)
				assert.Len(t, req.Items, 2)
				assert.Equal(t, uint64(100), req.Items[0].ProductID)
				assert.Equal(t, 3, req.Items[0].Quantity)
			},
		},
		{
			name:   "shipped orders are eligible",
			order:  testOrder(1, 7, domain.StatusShipped, testOrderItem(10, 100, "Colombian Beans", "9.99", 3)),
			userID: 7,
			reason: "wrong item",
			lines:  []ReturnLine{{OrderItemID: 10, Quantity: 1}},
			check: func(t *testing.T, req *domain.ReturnRequest) {
				assert.Equal(t, domain.ReturnRequested, req.Status)
			},
		},
		{
			name:          "pending orders are not eligible",
			order:         testOrder(1, 7, domain.StatusPending, testOrderItem(10, 100, "Colombian Beans", "9.99", 3)),
			userID:        7,
			reason:        "changed my mind",
			lines:         []ReturnLine{{OrderItemID: 10, Quantity: 1}},
			expectedError: "only shipped or delivered",
		},
		{
			name: "orders outside the 30-day window are rejected",
			order: func() *domain.Order {
				o := deliveredOrderWithItems()
				o.CreatedAt = time.Now().Add(-31 * 24 * time.Hour)
				return o
			}(),
			userID:        7,
			reason:        "too late",
			lines:         []ReturnLine{{OrderItemID: 10, Quantity: 1}},
			expectedError: "return window",
		},
		{
			name:          "another user's order reads as not found",
			order:         deliveredOrderWithItems(),
			userID:        8,
			reason:        "not mine",
			lines:         []ReturnLine{{OrderItemID: 10, Quantity: 1}},
			expectedError: "order not found",
		},
		{
			name:          "over-claiming a quantity is rejected",
			order:         deliveredOrderWithItems(),
			userID:        7,
			reason:        "damaged",
			lines:         []ReturnLine{{OrderItemID: 10, Quantity: 4}},
			expectedError: "only 3 were ordered",
		},
		{
			name:          "duplicate lines for one item cannot exceed the ordered quantity",
			order:         deliveredOrderWithItems(),
			userID:        7,
			reason:        "damaged",
			lines:         []ReturnLine{{OrderItemID: 10, Quantity: 2}, {OrderItemID: 10, Quantity: 2}},
			expectedError: "only 3 were ordered",
		},
		{
			name:  "prior returns count against the ordered quantity",
			order: deliveredOrderWithItems(),
			prior: []domain.ReturnRequest{
				{ID: "prev-1", OrderID: 1, Status: domain.ReturnRequested, Items: []domain.ReturnItem{
					{OrderItemID: 10, ProductID: 100, Quantity: 2},
				}},
			},
			userID:        7,
			reason:        "damaged",
			lines:         []ReturnLine{{OrderItemID: 10, Quantity: 2}},
			expectedError: "already returned",
		},
		{
			name:  "rejected returns do not count against the quantity",
			order: deliveredOrderWithItems(),
			prior: []domain.ReturnRequest{
				{ID: "prev-1", OrderID: 1, Status: domain.ReturnRejected, Items: []domain.ReturnItem{
					{OrderItemID: 10, ProductID: 100, Quantity: 3},
				}},
			},
			userID: 7,
			reason: "damaged",
			lines:  []ReturnLine{{OrderItemID: 10, Quantity: 3}},
			check: func(t *testing.T, req *domain.ReturnRequest) {
				assert.True(t, req.RefundAmount.Equal(decimal.RequireFromString("29.97")), "refund was %s", req.RefundAmount)
			},
		},
		{
			name:          "unknown order item is rejected",
			order:         deliveredOrderWithItems(),
			userID:        7,
			reason:        "damaged",
			lines:         []ReturnLine{{OrderItemID: 99, Quantity: 1}},
			expectedError: "not part of order",
		},
		{
			name:          "missing reason is rejected",
			order:         nil,
			userID:        7,
			reason:        "",
			lines:         []ReturnLine{{OrderItemID: 10, Quantity: 1}},
			expectedError: "reason is required",
		},
		{
			name:          "empty item list is rejected",
			order:         nil,
			userID:        7,
			reason:        "damaged",
			lines:         nil,
			expectedError: "at least one item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReturns := new(mocks.MockReturnRepository)
			mockOrders := new(mocks.MockOrderRepository)
			mockInv := new(mocks.MockInventoryAdjuster)
			mockPub := new(mocks.MockPublisher)

			if tt.order != nil {
				mockOrders.On("FindByID", uint64(1)).Return(tt.order, nil)
				mockReturns.On("ListByOrder", uint64(1)).Return(tt.prior, nil).Maybe()
			}
			if tt.expectedError == "" {
				mockReturns.On("Create", mock.AnythingOfType("*domain.ReturnRequest")).Return(nil)
				mockPub.On("Publish", mock.Anything, domain.EventReturnStatusChanged, mock.Anything).Return(nil).Maybe()
			}

			service := NewReturnsService(mockReturns, mockOrders, mockInv, mockPub)
			req, err := service.FileReturn(context.Background(), 1, tt.userID, tt.reason, tt.lines)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, req)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, req)
				if tt.check != nil {
					tt.check(t, req)
				}
			}

			time.Sleep(50 * time.Millisecond)

			mockReturns.AssertExpectations(t)
			mockOrders.AssertExpectations(t)
			mockInv.AssertExpectations(t)
			mockPub.AssertExpectations(t)
		})
	}
}

func TestReturnsService_ApproveAndReject(t *testing.T) {
	tests := []struct {
		name          string
		action        string
		current       domain.ReturnStatus
		notes         string
		expectedNext  domain.ReturnStatus
		expectedError string
	}{
		{name: "approve a requested return", action: "approve", current: domain.ReturnRequested, notes: "ok to send back", expectedNext: domain.ReturnApproved},
		{name: "approve without notes is fine", action: "approve", current: domain.ReturnRequested, expectedNext: domain.ReturnApproved},
		{name: "approve an approved return conflicts", action: "approve", current: domain.ReturnApproved, expectedError: "only requested"},
		{name: "approve a rejected return conflicts", action: "approve", current: domain.ReturnRejected, expectedError: "only requested"},
		{name: "reject with a note", action: "reject", current: domain.ReturnRequested, notes: "outside policy", expectedNext: domain.ReturnRejected},
		{name: "reject without a note is a validation error", action: "reject", current: domain.ReturnRequested, expectedError: "requires a note"},
		{name: "reject a received return conflicts", action: "reject", current: domain.ReturnReceived, notes: "too late", expectedError: "only requested"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReturns := new(mocks.MockReturnRepository)
			mockOrders := new(mocks.MockOrderRepository)
			mockInv := new(mocks.MockInventoryAdjuster)
			mockPub := new(mocks.MockPublisher)

			loadNeeded := !(tt.action == "reject" && tt.notes == "")
			if loadNeeded {
				mockReturns.On("FindByID", "ret-1").Return(testReturn("ret-1", 1, tt.current), nil)
			}
			if tt.expectedError == "" {
				mockReturns.On("Update", mock.MatchedBy(func(req *domain.ReturnRequest) bool {
					return req.Status == tt.expectedNext
				})).Return(nil)
				mockPub.On("Publish", mock.Anything, domain.EventReturnStatusChanged, mock.Anything).Return(nil).Maybe()
			}

			service := NewReturnsService(mockReturns, mockOrders, mockInv, mockPub)

			var req *domain.ReturnRequest
			var err error
			if tt.action == "approve" {
				req, err = service.Approve(context.Background(), "ret-1", tt.notes)
			} else {
				req, err = service.Reject(context.Background(), "ret-1", tt.notes)
			}

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, req)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedNext, req.Status)
				if tt.notes != "" {
					assert.Contains(t, req.AdminNotes, tt.notes)
				}
			}

			time.Sleep(50 * time.Millisecond)

			mockReturns.AssertExpectations(t)
			// Neither approval nor rejection ever touches stock.
			mockInv.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			mockPub.AssertExpectations(t)
		})
	}
}

func TestReturnsService_MarkReceived_RestocksExactlyOnce(t *testing.T) {
	mockReturns := new(mocks.MockReturnRepository)
	mockOrders := new(mocks.MockOrderRepository)
	mockInv := new(mocks.MockInventoryAdjuster)
	mockPub := new(mocks.MockPublisher)

	approved := testReturn("ret-1", 1, domain.ReturnApproved,
		domain.ReturnItem{ID: "ri-1", ReturnRequestID: "ret-1", OrderItemID: 10, ProductID: 100, Quantity: 3},
		domain.ReturnItem{ID: "ri-2", ReturnRequestID: "ret-1", OrderItemID: 11, ProductID: 101, Quantity: 1},
	)
	mockReturns.On("FindByID", "ret-1").Return(approved, nil).Once()
	mockReturns.On("Update", mock.MatchedBy(func(req *domain.ReturnRequest) bool {
		return req.Status == domain.ReturnReceived
	})).Return(nil).Once()
	mockInv.On("AdjustStock", mock.Anything, uint64(100), 3, domain.ReasonReturn, mock.Anything, "returns-workflow").
		Return(&domain.StockLevel{ProductID: 100, NewQuantity: 13}, nil).Once()
	mockInv.On("AdjustStock", mock.Anything, uint64(101), 1, domain.ReasonReturn, mock.Anything, "returns-workflow").
		Return(&domain.StockLevel{ProductID: 101, NewQuantity: 21}, nil).Once()
	mockPub.On("Publish", mock.Anything, domain.EventReturnStatusChanged, mock.Anything).Return(nil).Maybe()

	service := NewReturnsService(mockReturns, mockOrders, mockInv, mockPub)

	req, err := service.MarkReceived(context.Background(), "ret-1", "arrived intact")
	assert.NoError(t, err)
	assert.Equal(t, domain.ReturnReceived, req.Status)

	// A second receive sees the return already received and must not
	// restock again.
	mockReturns.On("FindByID", "ret-1").Return(testReturn("ret-1", 1, domain.ReturnReceived), nil).Once()
	req, err = service.MarkReceived(context.Background(), "ret-1", "")
	assert.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Nil(t, req)

	time.Sleep(50 * time.Millisecond)

	mockReturns.AssertExpectations(t)
	mockInv.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestReturnsService_MarkReceived_RestockFailureStillAdvances(t *testing.T) {
	mockReturns := new(mocks.MockReturnRepository)
	mockOrders := new(mocks.MockOrderRepository)
	mockInv := new(mocks.MockInventoryAdjuster)
	mockPub := new(mocks.MockPublisher)

	approved := testReturn("ret-1", 1, domain.ReturnApproved,
		domain.ReturnItem{ID: "ri-1", ReturnRequestID: "ret-1", OrderItemID: 10, ProductID: 100, Quantity: 3},
	)
	mockReturns.On("FindByID", "ret-1").Return(approved, nil)
	mockReturns.On("Update", mock.AnythingOfType("*domain.ReturnRequest")).Return(nil)
	mockInv.On("AdjustStock", mock.Anything, uint64(100), 3, domain.ReasonReturn, mock.Anything, "returns-workflow").
		Return(nil, errors.New("database error"))
	mockPub.On("Publish", mock.Anything, domain.EventReturnStatusChanged, mock.Anything).Return(nil).Maybe()
	mockPub.On("Publish", mock.Anything, domain.EventReturnRestockFailed, mock.MatchedBy(func(data interface{}) bool {
		evt, ok := data.(domain.ReturnRestockFailedEvent)
		return ok && evt.ProductID == 100 && evt.Quantity == 3
	})).Return(nil).Maybe()

	service := NewReturnsService(mockReturns, mockOrders, mockInv, mockPub)

	req, err := service.MarkReceived(context.Background(), "ret-1", "")
	assert.NoError(t, err)
	assert.Equal(t, domain.ReturnReceived, req.Status)

	time.Sleep(100 * time.Millisecond)

	mockReturns.AssertExpectations(t)
	mockInv.AssertExpectations(t)
}

func TestReturnsService_ProcessRefund(t *testing.T) {
	tests := []struct {
		name          string
		current       domain.ReturnStatus
		amount        string
		expectedError string
	}{
		{name: "refund a received return", current: domain.ReturnReceived, amount: "29.97"},
		{name: "partial refund straight from approved", current: domain.ReturnApproved, amount: "10.00"},
		{name: "refund a requested return conflicts", current: domain.ReturnRequested, amount: "29.97", expectedError: "only approved or received"},
		{name: "refund a refunded return conflicts", current: domain.ReturnRefunded, amount: "29.97", expectedError: "only approved or received"},
		{name: "non-positive amount rejected", current: domain.ReturnReceived, amount: "0", expectedError: "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReturns := new(mocks.MockReturnRepository)
			mockOrders := new(mocks.MockOrderRepository)
			mockInv := new(mocks.MockInventoryAdjuster)
			mockPub := new(mocks.MockPublisher)

			amount := decimal.RequireFromString(tt.amount)
			if amount.IsPositive() {
				mockReturns.On("FindByID", "ret-1").Return(testReturn("ret-1", 1, tt.current), nil)
			}
			if tt.expectedError == "" {
				mockReturns.On("Update", mock.MatchedBy(func(req *domain.ReturnRequest) bool {
					return req.Status == domain.ReturnRefunded && req.RefundAmount.Equal(amount)
				})).Return(nil)
				mockPub.On("Publish", mock.Anything, domain.EventReturnStatusChanged, mock.Anything).Return(nil).Maybe()
			}

			service := NewReturnsService(mockReturns, mockOrders, mockInv, mockPub)
			req, err := service.ProcessRefund(context.Background(), "ret-1", amount)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, req)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, domain.ReturnRefunded, req.Status)
				assert.True(t, req.RefundAmount.Equal(amount))
			}

			time.Sleep(50 * time.Millisecond)

			mockReturns.AssertExpectations(t)
			mockPub.AssertExpectations(t)
		})
	}
}

// Full cycle: a sale debits stock, the matching return credits it back, and
// the ledger carries exactly one row for each side.
func TestSaleThenReturnRestoresStock(t *testing.T) {
	fake := newFakeProductRepo(map[uint64]int{100: 10})
	mockAdj := new(mocks.MockInventoryAdjustmentRepository)
	mockPub := new(mocks.MockPublisher)

	var ledger []domain.InventoryAdjustment
	mockAdj.On("Append", mock.AnythingOfType("*domain.InventoryAdjustment")).Return(nil).Run(func(args mock.Arguments) {
		ledger = append(ledger, *args.Get(0).(*domain.InventoryAdjustment))
	})
	mockPub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	inventory := NewInventoryService(fake, mockAdj, mockPub)
	ctx := context.Background()

	// The sale debit.
	level, err := inventory.AdjustStock(ctx, 100, -3, domain.ReasonSale, "order ORD-TEST", "user:7")
	assert.NoError(t, err)
	assert.Equal(t, 7, level.NewQuantity)

	// The return credit at receive time.
	mockReturns := new(mocks.MockReturnRepository)
	mockOrders := new(mocks.MockOrderRepository)
	approved := testReturn("ret-1", 1, domain.ReturnApproved,
		domain.ReturnItem{ID: "ri-1", ReturnRequestID: "ret-1", OrderItemID: 10, ProductID: 100, Quantity: 3},
	)
	mockReturns.On("FindByID", "ret-1").Return(approved, nil)
	mockReturns.On("Update", mock.AnythingOfType("*domain.ReturnRequest")).Return(nil)

	returns := NewReturnsService(mockReturns, mockOrders, inventory, mockPub)
	req, err := returns.MarkReceived(ctx, "ret-1", "")
	assert.NoError(t, err)
	assert.Equal(t, domain.ReturnReceived, req.Status)

	time.Sleep(100 * time.Millisecond)

	current, err := fake.FindByID(100)
	assert.NoError(t, err)
	assert.Equal(t, 10, current.Stock)

	assert.Len(t, ledger, 2)
	assert.Equal(t, -3, ledger[0].Delta)
	assert.Equal(t, domain.ReasonSale, ledger[0].Reason)
	assert.Equal(t, 7, ledger[0].ResultingQty)
	assert.Equal(t, 3, ledger[1].Delta)
	assert.Equal(t, domain.ReasonReturn, ledger[1].Reason)
	assert.Equal(t, 10, ledger[1].ResultingQty)
}
