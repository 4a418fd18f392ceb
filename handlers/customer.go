package handlers

import (
	"net/http"

	"fuelmate-api/middleware"
	"fuelmate-api/models"
	"fuelmate-api/services"

	"github.com/gin-gonic/gin"
)

type noteRequest struct {
	Reason string `json:"reason"`
	Note   string `json:"note"`
}

func (r noteRequest) text() string {
	if r.Reason != "" {
		return r.Reason
	}
	return r.Note
}

// PlaceOrder creates a new fuel order (customer only)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please provide all required order details")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	order, err := h.orders.Create(ctx, middleware.Identity(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully!",
		"order":   order,
	})
}

// GetMyOrders returns the caller's orders, newest first
func (h *Handler) GetMyOrders(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	orders, err := h.orders.ListMine(ctx, middleware.Identity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderList(orders))
}

// GetOrderDetail returns one order with its status history
func (h *Handler) GetOrderDetail(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	order, err := h.orders.Get(ctx, middleware.Identity(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels an order that no driver is carrying yet
func (h *Handler) CancelOrder(c *gin.Context) {
	var req noteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	order, err := h.orders.Cancel(ctx, middleware.Identity(c), c.Param("id"), req.text())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order cancelled",
		"order":   order,
	})
}

// orderList never serializes as null
func orderList(orders []models.Order) []models.Order {
	if orders == nil {
		return []models.Order{}
	}
	return orders
}
