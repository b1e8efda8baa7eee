package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"agency-erp/internal/shared/response"
	"agency-erp/pkg/logger"
)

// CronAuth bảo vệ /api/cron/* bằng bearer secret.
// Ngoài production thì bỏ qua hoàn toàn để dev có thể trigger job bằng curl.
func CronAuth(secret string, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !production {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			logger.Warn("cron request rejected", map[string]interface{}{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			})
			response.Unauthorized(c, "invalid cron secret")
			c.Abort()
			return
		}

		c.Next()
	}
}
