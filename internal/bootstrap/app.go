package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"resume-imager/internal/diffusion"
	"resume-imager/internal/generate"
	"resume-imager/internal/services/health"
	"resume-imager/internal/shared/config"
	"resume-imager/internal/shared/server"
	"resume-imager/internal/shared/telemetry"
	"resume-imager/resume/render"
	"resume-imager/resume/service"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Fonts           *render.FontSource
	Pipeline        *diffusion.Handle
	Generator       *service.Generator
	GenerateHandler *generate.Handler
	Health          *health.Service
}

// Build loads fonts and the diffusion pipeline, then wires the router.
// Neither dependency is fatal: missing fonts fall back to the bitmap face and
// a pipeline that fails to load leaves the service rendering text only.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	return build(cfg, loadPipeline(ctx, cfg.Diffusion))
}

// BuildWithPipeline wires the app around an already constructed pipeline.
// A nil handle means no pipeline.
func BuildWithPipeline(cfg config.Config, handle *diffusion.Handle) (*App, error) {
	return build(cfg, handle)
}

func build(cfg config.Config, handle *diffusion.Handle) (*App, error) {
	fonts := loadFonts(cfg.FontPath)

	var pipeline diffusion.Pipeline
	if handle != nil {
		pipeline = handle.Pipeline
	}

	app := &App{
		Config:    cfg,
		Fonts:     fonts,
		Pipeline:  handle,
		Generator: service.NewGenerator(fonts, pipeline),
	}
	if handle != nil && handle.Pipeline != nil {
		app.Health = health.NewService(true, handle.Model, handle.Device)
	} else {
		app.Health = health.NewService(false, "", "")
	}
	app.GenerateHandler = generate.NewHandler(app.Generator)
	if app.GenerateHandler == nil || app.Health == nil {
		return nil, errors.New("failed to initialize handlers")
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		GenerateHandler: app.GenerateHandler,
		Health:          app.Health,
	})
	return app, nil
}

func loadPipeline(ctx context.Context, cfg config.DiffusionConfig) *diffusion.Handle {
	handle, err := diffusion.Load(ctx, diffusion.Options{
		Enabled:        cfg.Enabled,
		Endpoint:       cfg.Endpoint,
		Model:          cfg.Model,
		APIToken:       cfg.APIToken,
		Device:         cfg.Device,
		Timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxConcurrency: cfg.MaxConcurrency,
	})
	if err != nil {
		telemetry.Warn("diffusion.load_failed", map[string]any{
			"model": cfg.Model,
			"error": err,
		})
		return nil
	}
	return handle
}

func loadFonts(path string) *render.FontSource {
	fonts, err := render.LoadFontSource(path)
	if err != nil {
		telemetry.Warn("fonts.fallback", map[string]any{
			"font_path": path,
			"error":     err,
		})
		return nil
	}
	telemetry.Info("fonts.loaded", map[string]any{"font_path": fonts.Path})
	return fonts
}
