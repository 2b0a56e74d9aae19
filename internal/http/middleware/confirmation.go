package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roguepikachu/scriptlab/pkg/ctxutil"
)

// HeaderConfirm carries the answer to a delete confirmation, e.g. "Yes".
const HeaderConfirm = "X-Confirm"

// Confirmation copies the X-Confirm header into the request context so a
// context-backed prompt can answer with it. Requests without the header are
// left untouched and their prompts are dismissed.
func Confirmation() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Request.Header[HeaderConfirm]; ok && len(v) > 0 {
			ctx := ctxutil.WithConfirmation(c.Request.Context(), strings.TrimSpace(v[0]))
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
