package middleware

import (
	"github.com/gin-gonic/gin"

	"agency-erp/internal/shared/response"
)

// RequireRole chỉ cho phép các role được liệt kê (chạy sau AuthMiddleware)
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, _ := c.Get(ContextRole)
		roleStr, ok := role.(string)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		if _, ok := allowed[roleStr]; !ok {
			response.Forbidden(c, "Access denied: insufficient role")
			c.Abort()
			return
		}

		c.Next()
	}
}
