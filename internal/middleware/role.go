package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agencyhub/internal/pkg/jwt"
	"agencyhub/internal/pkg/response"
)

// RequireRole ensures the authenticated user has one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}
		if _, ok := allowed[role]; !ok {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(jwt.RoleAdmin)
}

// StaffOnly admits admins and assistants.
func StaffOnly() gin.HandlerFunc {
	return RequireRole(jwt.RoleAdmin, jwt.RoleAssistant)
}
