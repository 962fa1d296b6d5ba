// internal/middleware/recovery_middleware.go
package middleware

import (
	"net/http"

	"mealkit-service/internal/pkg/metrics"
	"mealkit-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into a 500 envelope, logs the
// stack with the caller identity when known and counts it per route.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPPanics.WithLabelValues(route).Inc()

			fields := []zap.Field{
				zap.Any("panic", rec),
				zap.String("method", c.Request.Method),
				zap.String("route", route),
				zap.Stack("stack"),
			}
			if userID, ok := GetUserID(c); ok {
				fields = append(fields, zap.Int64("user_id", userID))
			}
			logger.Error("panic recovered", fields...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		}()
		c.Next()
	}
}
