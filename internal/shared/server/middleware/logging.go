package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-imager/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	RenderIDKey = "renderId"
	BlendedKey  = "blended"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		renderID, _ := c.Get(RenderIDKey)
		blended, _ := c.Get(BlendedKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"render_id":   renderID,
			"blended":     blended,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
