package respond

import (
	"github.com/gin-gonic/gin"

	"resume-imager/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// FailureResponse is the flat error shape served by the public generation route.
type FailureResponse struct {
	Error string `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	logError(c, status, map[string]any{"code": code, "message": message})

	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Failure sends {"error": message} with the given status.
func Failure(c *gin.Context, status int, message string) {
	logError(c, status, map[string]any{"message": message})

	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(status, FailureResponse{Error: message})
}

func logError(c *gin.Context, status int, extra map[string]any) {
	fields := map[string]any{
		"status":     status,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	for k, v := range extra {
		fields[k] = v
	}
	telemetry.Error("http.error", fields)
}
