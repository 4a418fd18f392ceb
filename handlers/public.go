package handlers

import (
	"context"
	"net/http"
	"time"

	"fuelmate-api/models"
	"fuelmate-api/statemachine"

	"github.com/gin-gonic/gin"
)

// Welcome is the API landing document
func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the " + h.appName,
		"docs":    "/api/state-machine",
		"health":  "/health",
		"roles":   []models.UserRole{models.RoleCustomer, models.RoleDriver, models.RoleAdmin},
	})
}

// Health reports whether the backing store answers
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "healthy", http.StatusOK
	store := "up"
	if err := h.store.Ping(ctx); err != nil {
		status, code, store = "unhealthy", http.StatusServiceUnavailable, "down"
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": h.appName,
		"version": h.version,
		"store":   store,
	})
}

// GetStateMachineInfo returns the full order state machine for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	var terminal []models.OrderStatus
	for _, s := range models.AllStatuses {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"stateMachine":   statemachine.GetAllTransitions(),
		"statuses":       models.AllStatuses,
		"terminalStates": terminal,
		"description":    "Fuel Delivery Order Lifecycle State Machine",
	})
}
