package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-imager/internal/generate"
	"resume-imager/internal/services/health"
	"resume-imager/internal/shared/config"
	"resume-imager/internal/shared/metrics"
	"resume-imager/internal/shared/server/middleware"
	"resume-imager/internal/shared/server/respond"
)

// RouterDeps holds the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	GenerateHandler *generate.Handler
	Health          *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	if deps.GenerateHandler != nil {
		deps.GenerateHandler.RegisterRoutes(r)
	}
	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	r.GET("/metrics", metrics.Handler())

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
