package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with the given status. Every body is produced for a
// single request, so intermediaries must not store it.
func JSON(c *gin.Context, status int, payload any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, payload)
}

// OK writes payload with status 200.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}
