package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-imager/internal/shared/server/respond"
	"resume-imager/internal/shared/telemetry"
)

// Recovery turns a handler panic into a logged 500 so one bad render never
// takes the process down.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			renderID, _ := c.Get(RenderIDKey)
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"render_id":  renderID,
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
