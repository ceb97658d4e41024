package generate

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-imager/internal/shared/metrics"
	"resume-imager/internal/shared/server/middleware"
	"resume-imager/internal/shared/server/respond"
	"resume-imager/internal/shared/telemetry"
	"resume-imager/resume/model"
	"resume-imager/resume/service"
)

const (
	maxBodySize = 1 << 20 // 1MB

	// FailureMessage is the only error text clients ever see.
	FailureMessage = "Resume generation failed"
)

// Generator renders decoded resume data.
type Generator interface {
	Generate(ctx context.Context, data model.ResumeData) (service.Result, error)
}

// Response is the success payload.
type Response struct {
	ResumeImage string `json:"resume_image"`
}

// Handler serves the resume image route.
type Handler struct {
	Gen Generator
}

// NewHandler constructs a Handler.
func NewHandler(gen Generator) *Handler {
	return &Handler{Gen: gen}
}

// RegisterRoutes attaches the generation route.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/generate-resume", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.rejectBody(c, "read_body", err)
		return
	}

	data, err := model.Decode(raw)
	if err != nil {
		h.rejectBody(c, "decode_body", err)
		return
	}

	res, err := h.Gen.Generate(c.Request.Context(), data)
	c.Set(middleware.RenderIDKey, res.RenderID)
	if err != nil {
		// Generate has already logged and counted the failure.
		respond.Failure(c, http.StatusInternalServerError, FailureMessage)
		return
	}
	c.Set(middleware.BlendedKey, res.Blended)

	respond.OK(c, Response{ResumeImage: res.DataURI()})
}

// rejectBody answers a body that never reached the generator. It still counts
// as a failed render.
func (h *Handler) rejectBody(c *gin.Context, stage string, err error) {
	metrics.IncRenderFailed()
	telemetry.Warn("generate.failed", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"stage":      stage,
		"error":      err,
	})
	respond.Failure(c, http.StatusInternalServerError, FailureMessage)
}
