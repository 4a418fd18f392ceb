package handlers

import (
	"net/http"

	"fuelmate-api/middleware"

	"github.com/gin-gonic/gin"
)

// GetPendingOrders lists orders that are waiting for a driver
func (h *Handler) GetPendingOrders(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	orders, err := h.orders.ListPending(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderList(orders))
}

// GetMyDeliveries returns the active orders assigned to the logged-in driver
func (h *Handler) GetMyDeliveries(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	orders, err := h.orders.ListMyDeliveries(ctx, middleware.Identity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderList(orders))
}

// AcceptOrder assigns the order to the calling driver
func (h *Handler) AcceptOrder(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	order, err := h.orders.Accept(ctx, middleware.Identity(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order accepted successfully!",
		"order":   order,
	})
}

// RejectOrder marks the order Rejected
func (h *Handler) RejectOrder(c *gin.Context) {
	var req noteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	order, err := h.orders.Reject(ctx, middleware.Identity(c), c.Param("id"), req.text())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order rejected",
		"order":   order,
	})
}

type statusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// UpdateOrderStatus moves an assigned order to In_Transit or Delivered
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	order, err := h.orders.UpdateStatus(ctx, middleware.Identity(c), c.Param("id"), req.Status, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order marked as " + string(order.Status),
		"order":   order,
	})
}
