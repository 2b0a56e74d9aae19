package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

// RequestLogger logs one line per request once the handler chain has run.
// Paths listed in quiet, such as probes, are logged at debug level unless
// they fail.
func RequestLogger(quiet ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(quiet))
	for _, p := range quiet {
		skip[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.With(c.Request.Context(), requestFields(c, time.Since(start)))
		switch {
		case skip[c.Request.URL.Path] && status < 400:
			entry.Debug("request completed")
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

func requestFields(c *gin.Context, latency time.Duration) map[string]any {
	path := c.Request.URL.Path
	if raw := c.Request.URL.RawQuery; raw != "" {
		path += "?" + raw
	}
	fields := map[string]any{
		"method":     c.Request.Method,
		"path":       path,
		"route":      c.FullPath(),
		"status":     c.Writer.Status(),
		"latency_ms": latency.Milliseconds(),
		"bytes":      max(c.Writer.Size(), 0),
		"ip":         c.ClientIP(),
	}
	if _, ok := c.Request.Header[HeaderConfirm]; ok {
		fields["confirm"] = true
	}
	if id := c.Param("id"); id != "" {
		fields["snippet_id"] = id
	}
	if len(c.Errors) > 0 {
		msgs := make([]string, 0, len(c.Errors))
		for _, e := range c.Errors {
			msgs = append(msgs, e.Error())
		}
		fields["errors"] = strings.Join(msgs, "; ")
	}
	return fields
}
