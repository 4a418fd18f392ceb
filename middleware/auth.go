package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"fuelmate-api/models"
	"fuelmate-api/services"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identifier resolves a bearer token to the user it was issued for
type Identifier interface {
	Identify(ctx context.Context, token string) (*models.User, error)
}

// Identify validates the bearer token, loads the user and stores it on the context
func Identify(ids Identifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortJSON(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		user, err := ids.Identify(c.Request.Context(), tokenStr)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				abortJSON(c, http.StatusInternalServerError, "Server error")
				return
			}
			detail := strings.TrimPrefix(err.Error(), services.ErrUnauthenticated.Error()+": ")
			abortJSON(c, http.StatusUnauthorized, "Not authorized, "+detail)
			return
		}
		c.Set(identityKey, user)
		c.Next()
	}
}

// Identity returns the user attached by Identify, or nil on public routes
func Identity(c *gin.Context) *models.User {
	val, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}

// GetUserID extracts caller user ID from context
func GetUserID(c *gin.Context) string {
	if u := Identity(c); u != nil {
		return u.ID
	}
	return ""
}

// GetRole extracts caller role from context
func GetRole(c *gin.Context) models.UserRole {
	if u := Identity(c); u != nil {
		return u.Role
	}
	return ""
}

func abortJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg, "error": msg})
}
