package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencyhub/internal/pkg/response"
)

// CronSecret protects scheduler-triggered endpoints with a shared bearer secret.
func CronSecret(secret string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if secret == "" {
			log.Error("cron secret is not configured", zap.String("path", c.Request.URL.Path))
			response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Cron secret is not configured")
			c.Abort()
			return
		}

		h := c.GetHeader("Authorization")
		if h == "" {
			logCronFailure(log, c, "missing_auth")
			response.CustomError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}
		token, ok := bearerToken(h)
		if !ok {
			logCronFailure(log, c, "invalid_auth_format")
			response.CustomError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			logCronFailure(log, c, "invalid_token")
			response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid cron secret")
			c.Abort()
			return
		}
		c.Next()
	}
}

func logCronFailure(log *zap.Logger, c *gin.Context, reason string) {
	log.Warn("cron auth failed",
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", RequestIDFrom(c)),
	)
}
