// Package middleware provides HTTP middleware functions.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roguepikachu/scriptlab/pkg/ctxutil"
)

const (
	headerRequestID = "X-Request-ID"
	headerClientID  = "X-Client-ID"

	maxIDLength = 128
)

// RequestIDMiddleware tags every request with a request and client id, taken
// from the incoming headers or generated, and echoes them in the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := headerID(c, headerRequestID)
		clientID := headerID(c, headerClientID)

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithClientID(ctx, clientID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerRequestID, requestID)
		c.Header(headerClientID, clientID)
		c.Next()
	}
}

// headerID returns the trimmed header value, or a fresh UUID when it is
// missing or too long to log.
func headerID(c *gin.Context, name string) string {
	v := strings.TrimSpace(c.GetHeader(name))
	if v == "" || len(v) > maxIDLength {
		return uuid.New().String()
	}
	return v
}
