package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/roguepikachu/scriptlab/pkg/ctxutil"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

// Recovery recovers from panics, logs them, and returns 500 with the request id.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Request.Context()
				logger.With(ctx, map[string]any{"panic": r, "stack": string(debug.Stack())}).Error("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{
						"code":       "internal_error",
						"message":    "internal server error",
						"request_id": ctxutil.RequestID(ctx),
					},
				})
			}
		}()
		c.Next()
	}
}
