package middleware

import (
	"net/http"
	"strings"

	"fuelmate-api/models"

	"github.com/gin-gonic/gin"
)

// Capability names one thing a route lets the caller do
type Capability string

const (
	CapOrderCreate         Capability = "order:create"
	CapOrderListMine       Capability = "order:list-mine"
	CapOrderListPending    Capability = "order:list-pending"
	CapOrderListDeliveries Capability = "order:list-deliveries"
	CapOrderRead           Capability = "order:read"
	CapOrderAccept         Capability = "order:accept"
	CapOrderReject         Capability = "order:reject"
	CapOrderUpdateStatus   Capability = "order:update-status"
	CapOrderCancel         Capability = "order:cancel"
	CapProfileManage       Capability = "profile:manage"
	CapAdminRead           Capability = "admin:read"
	CapAdminWrite          Capability = "admin:write"
)

// capabilities is the single role table; ownership (owner, assigned driver) is checked by the order service
var capabilities = map[Capability][]models.UserRole{
	CapOrderCreate:         {models.RoleCustomer},
	CapOrderListMine:       {models.RoleCustomer},
	CapOrderListPending:    {models.RoleDriver, models.RoleAdmin},
	CapOrderListDeliveries: {models.RoleDriver},
	CapOrderRead:           {models.RoleCustomer, models.RoleDriver, models.RoleAdmin},
	CapOrderAccept:         {models.RoleDriver},
	CapOrderReject:         {models.RoleDriver, models.RoleAdmin},
	CapOrderUpdateStatus:   {models.RoleDriver},
	CapOrderCancel:         {models.RoleCustomer, models.RoleAdmin},
	CapProfileManage:       {models.RoleCustomer, models.RoleDriver, models.RoleAdmin},
	CapAdminRead:           {models.RoleAdmin},
	CapAdminWrite:          {models.RoleAdmin},
}

// Allowed reports whether role holds capability; unknown capabilities are denied
func Allowed(role models.UserRole, capability Capability) bool {
	for _, r := range capabilities[capability] {
		if r == role {
			return true
		}
	}
	return false
}

// Require must run after Identify
func Require(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := Identity(c)
		if user == nil {
			abortJSON(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		if !Allowed(user.Role, capability) {
			abortJSON(c, http.StatusForbidden, "Access denied. Required role(s): "+rolesString(capabilities[capability]))
			return
		}
		c.Next()
	}
}

func rolesString(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
