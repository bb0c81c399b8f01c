package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-engine/internal/domain"
	"storefront-engine/internal/middlewares"
	"storefront-engine/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type Handler struct {
	orders        *services.OrderService
	inventory     *services.InventoryService
	subscriptions *services.SubscriptionService
	returns       *services.ReturnsService
	rdb           *redis.Client
}

func NewHandler(o *services.OrderService, inv *services.InventoryService, sub *services.SubscriptionService, ret *services.ReturnsService, rdb *redis.Client) *Handler {
	return &Handler{
		orders:        o,
		inventory:     inv,
		subscriptions: sub,
		returns:       ret,
		rdb:           rdb,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		api.POST("/orders", h.PlaceOrder)
		api.GET("/orders", h.GetUserOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.PUT("/orders/:id/status", h.UpdateOrderStatus)

		api.GET("/orders/:id/subscription", h.GetSubscription)
		api.PUT("/orders/:id/subscription/status", h.SetSubscriptionStatus)
		api.POST("/orders/:id/subscription/skip", h.SkipNextDelivery)
		api.PUT("/orders/:id/subscription/frequency", h.UpdateFrequency)

		api.POST("/returns", h.FileReturn)
		api.GET("/returns", h.ListReturns)
		api.GET("/returns/:id", h.GetReturn)
		api.POST("/returns/:id/approve", h.ApproveReturn)
		api.POST("/returns/:id/reject", h.RejectReturn)
		api.POST("/returns/:id/receive", h.ReceiveReturn)
		api.POST("/returns/:id/refund", h.RefundReturn)

		api.POST("/inventory/:productId/adjust", h.AdjustStock)
		api.GET("/inventory/:productId/history", h.GetHistory)
	}
}

func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrReturnNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func currentUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return 0, false
	}
	return v.(uint64), true
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("place_order", ok) }()

	userID, authed := currentUserID(c)
	if !authed {
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]services.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, services.CartLine{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			IsSubscription: item.IsSubscription,
			Frequency:      domain.SubscriptionFrequency(item.Frequency),
		})
	}
	shipping := services.ShippingInfo{
		Address: req.ShippingAddress,
		Cost:    req.ShippingCost,
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), userID, lines, shipping)
	if err != nil {
		respondError(c, err)
		return
	}

	ok = true
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetUserOrders(c *gin.Context) {
	userID, authed := currentUserID(c)
	if !authed {
		return
	}

	orders, err := h.orders.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	userID, authed := currentUserID(c)
	if !authed {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrOrderNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("update_order_status", ok) }()

	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	ok = true
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetSubscription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	state, err := h.subscriptions.CurrentStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) SetSubscriptionStatus(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("set_subscription_status", ok) }()

	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req SetSubscriptionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := h.subscriptions.SetStatus(c.Request.Context(), id, domain.SubscriptionStatus(req.Status), req.Reason, req.PausedUntil)
	if err != nil {
		respondError(c, err)
		return
	}
	ok = true
	c.JSON(http.StatusOK, ev)
}

func (h *Handler) SkipNextDelivery(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("skip_next_delivery", ok) }()

	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	next, err := h.subscriptions.SkipNextDelivery(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok = true
	c.JSON(http.StatusOK, gin.H{"order_id": id, "next_delivery_date": next})
}

func (h *Handler) UpdateFrequency(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("update_frequency", ok) }()

	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req UpdateFrequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.subscriptions.UpdateFrequency(c.Request.Context(), id, domain.SubscriptionFrequency(req.Frequency))
	if err != nil {
		respondError(c, err)
		return
	}
	ok = true
	c.JSON(http.StatusOK, order)
}

func (h *Handler) FileReturn(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("file_return", ok) }()

	userID, authed := currentUserID(c)
	if !authed {
		return
	}
	var req FileReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]services.ReturnLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, services.ReturnLine{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
			Reason:      item.Reason,
		})
	}

	ret, err := h.returns.FileReturn(c.Request.Context(), req.OrderID, userID, req.Reason, lines)
	if err != nil {
		respondError(c, err)
		return
	}
	ok = true
	c.JSON(http.StatusCreated, ret)
}

func (h *Handler) ListReturns(c *gin.Context) {
	status := domain.ReturnStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	returns, err := h.returns.ListReturns(c.Request.Context(), status, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, returns)
}

func (h *Handler) GetReturn(c *gin.Context) {
	ret, err := h.returns.GetReturn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

func (h *Handler) ApproveReturn(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("approve_return", ok) }()

	var req ReviewReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ret, err := h.returns.Approve(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	ok = true
	c.JSON(http.StatusOK, ret)
}

func (h *Handler) RejectReturn(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("reject_return", ok) }()

	var req ReviewReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ret, err := h.returns.Reject(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	ok = true
	c.JSON(http.StatusOK, ret)
}

func (h *Handler) ReceiveReturn(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("receive_return", ok) }()

	var req ReviewReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ret, err := h.returns.MarkReceived(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	ok = true
	c.JSON(http.StatusOK, ret)
}

func (h *Handler) RefundReturn(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("refund_return", ok) }()

	var req ProcessRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ret, err := h.returns.ProcessRefund(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	ok = true
	c.JSON(http.StatusOK, ret)
}

func (h *Handler) AdjustStock(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordOperation("adjust_stock", ok) }()

	productID, valid := pathID(c, "productId")
	if !valid {
		return
	}
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level, err := h.inventory.AdjustStock(c.Request.Context(), productID, req.Delta, domain.AdjustmentReason(req.Reason), req.Note, req.Actor)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.rdb != nil {
		h.rdb.Del(context.Background(), historyCacheKey(productID))
	}

	ok = true
	c.JSON(http.StatusOK, level)
}

func (h *Handler) GetHistory(c *gin.Context) {
	productID, valid := pathID(c, "productId")
	if !valid {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	cacheKey := historyCacheKey(productID)
	ctx := c.Request.Context()

	if h.rdb != nil && limit == 0 {
		if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var history []domain.InventoryAdjustment
			if err := json.Unmarshal([]byte(b), &history); err == nil {
				c.JSON(http.StatusOK, history)
				return
			}
		}
	}

	history, err := h.inventory.GetHistory(ctx, productID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.rdb != nil && limit == 0 {
		if data, err := json.Marshal(history); err == nil {
			h.rdb.Set(ctx, cacheKey, data, 10*time.Second)
		}
	}

	c.JSON(http.StatusOK, history)
}

func historyCacheKey(productID uint64) string {
	return "inventory:history:" + strconv.FormatUint(productID, 10)
}
