package handler

import (
	"github.com/gin-gonic/gin"

	appvendor "github.com/verdantmarket/backend/internal/application/vendor"
)

// OrderHandler exposes the vendor order ledger over HTTP
type OrderHandler struct {
	BaseHandler
	orderService *appvendor.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *appvendor.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /api/v1/vendor/orders
func (h *OrderHandler) Create(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}

	var req appvendor.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), vendorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get handles GET /api/v1/vendor/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), vendorID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByNumber handles GET /api/v1/vendor/orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}

	orderNumber := c.Param("number")
	if orderNumber == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetByOrderNumber(c.Request.Context(), vendorID, orderNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /api/v1/vendor/orders
func (h *OrderHandler) List(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}

	var filter appvendor.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.orderService.List(c.Request.Context(), vendorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateStatus handles PUT /api/v1/vendor/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req appvendor.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), vendorID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// SetTracking handles PUT /api/v1/vendor/orders/:id/tracking
func (h *OrderHandler) SetTracking(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req appvendor.SetTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.SetTracking(c.Request.Context(), vendorID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel handles POST /api/v1/vendor/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req appvendor.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), vendorID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Return handles POST /api/v1/vendor/orders/:id/return
func (h *OrderHandler) Return(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req appvendor.ReturnOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.MarkReturned(c.Request.Context(), vendorID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkPaid handles POST /api/v1/vendor/orders/:id/payment/paid
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req appvendor.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.MarkPaid(c.Request.Context(), vendorID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkPaymentFailed handles POST /api/v1/vendor/orders/:id/payment/failed
func (h *OrderHandler) MarkPaymentFailed(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.MarkPaymentFailed(c.Request.Context(), vendorID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Refund handles POST /api/v1/vendor/orders/:id/refund
func (h *OrderHandler) Refund(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req appvendor.RefundOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.Refund(c.Request.Context(), vendorID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Stats handles GET /api/v1/vendor/orders/stats
func (h *OrderHandler) Stats(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}

	stats, err := h.orderService.GetStats(c.Request.Context(), vendorID, c.Query("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
