package handlers

import (
	"net/http"

	"fuelmate-api/middleware"
	"fuelmate-api/models"
	"fuelmate-api/services"

	"github.com/gin-gonic/gin"
)

// AdminGetAllOrders returns all orders as a plain array, admin only
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	report, ok := h.orderReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report.Orders)
}

// AdminGetOrderReport returns the same orders with a per-status summary and delivered revenue
func (h *Handler) AdminGetOrderReport(c *gin.Context) {
	report, ok := h.orderReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) orderReport(c *gin.Context) (*services.OrderReport, bool) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	report, err := h.admin.ListOrders(ctx, services.AdminOrderFilter{
		Status:   c.Query("status"),
		UserID:   c.Query("userId"),
		DriverID: c.Query("driverId"),
	})
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return report, true
}

// AdminGetAllUsers returns all users as a plain array, admin only
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	users, err := h.admin.ListUsers(ctx, c.Query("role"), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// AdminSetOrderStatus applies an admin transition such as supplier acceptance
func (h *Handler) AdminSetOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	order, err := h.orders.AdminSetStatus(ctx, middleware.Identity(c), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated to " + string(order.Status),
		"order":   order,
	})
}

func (h *Handler) AdminGetPendingDrivers(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	drivers, err := h.admin.ListPendingDrivers(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

func (h *Handler) AdminApproveDriver(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	user, err := h.admin.ApproveDriver(ctx, middleware.Identity(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, driverDecision("Driver approved", user))
}

func (h *Handler) AdminRejectDriver(c *gin.Context) {
	var req noteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	user, err := h.admin.RejectDriver(ctx, middleware.Identity(c), c.Param("id"), req.text())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, driverDecision("Driver rejected", user))
}

func driverDecision(message string, user *models.User) gin.H {
	return gin.H{"success": true, "message": message, "user": user}
}
