package handlers

import (
	"net/http"

	"fuelmate-api/services"

	"github.com/gin-gonic/gin"
)

// Register creates a new customer or driver account
func (h *Handler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	res, err := h.auth.Register(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse("Account created successfully", res))
}

// Login authenticates a user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	res, err := h.auth.Login(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse("Login successful", res))
}

// authResponse keeps the flat identity fields the mobile apps read next to the full user
func authResponse(message string, res *services.AuthResult) gin.H {
	return gin.H{
		"message": message,
		"_id":     res.User.ID,
		"name":    res.User.Name,
		"email":   res.User.Email,
		"role":    res.User.Role,
		"status":  res.User.Status,
		"token":   res.Token,
		"user":    res.User,
	}
}
