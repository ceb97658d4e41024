package service

import (
	"context"
	"fmt"
	"image"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"resume-imager/internal/diffusion"
	"resume-imager/internal/shared/metrics"
	"resume-imager/internal/shared/telemetry"
	"resume-imager/resume/model"
	"resume-imager/resume/render"
)

const defaultPromptName = "Professional"

// Result is a finished resume image.
type Result struct {
	RenderID string
	Image    image.Image
	PNG      []byte
	Blended  bool
}

// DataURI returns the PNG as a data:image/png;base64 URI.
func (r Result) DataURI() string {
	return render.DataURI(r.PNG)
}

// Generator draws resumes and, when Pipeline is set, blends them over a
// generated background. A nil Pipeline yields plain text canvases.
type Generator struct {
	Fonts    *render.FontSource
	Pipeline diffusion.Pipeline
	now      func() time.Time
}

// NewGenerator constructs a Generator. Both arguments may be nil.
func NewGenerator(fonts *render.FontSource, pipeline diffusion.Pipeline) *Generator {
	return &Generator{Fonts: fonts, Pipeline: pipeline, now: time.Now}
}

// BuildPrompt returns the background prompt for data.
func BuildPrompt(data model.ResumeData) string {
	name := data.Name
	if !data.HasName {
		name = defaultPromptName
	}
	return fmt.Sprintf("Professional resume design for %s with clean and modern layout", name)
}

// Generate renders data into a PNG. Any failure, including a panic in a
// drawing or decoding dependency, is logged and returned wrapped in
// ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, data model.ResumeData) (res Result, err error) {
	renderID := uuid.NewString()
	start := g.clock()()
	metrics.IncRenderStarted()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			telemetry.Error("resume.render_panic", map[string]any{
				"render_id": renderID,
				"error":     fmt.Sprint(rec),
				"stack":     string(debug.Stack()),
			})
		}
		metrics.ObserveRenderDurationMs(float64(g.clock()().Sub(start).Microseconds()) / 1000.0)
		if err != nil {
			metrics.IncRenderFailed()
			telemetry.Error("resume.generate_failed", map[string]any{
				"render_id": renderID,
				"error":     err.Error(),
			})
			res = Result{RenderID: renderID}
			err = fmt.Errorf("%w: %v", ErrGenerationFailed, err)
			return
		}
		metrics.IncRenderCompleted()
		if res.Blended {
			metrics.IncRenderBlended()
		}
	}()

	faces, err := g.Fonts.Faces()
	if err != nil {
		return Result{}, err
	}
	defer faces.Close()

	canvas := render.DrawResume(data, faces)

	final := image.Image(canvas)
	blended := false
	if g.Pipeline != nil {
		bg, err := g.Pipeline.Generate(ctx, diffusion.Params{
			Prompt: BuildPrompt(data),
			Width:  render.CanvasWidth,
			Height: render.CanvasHeight,
		})
		if err != nil {
			return Result{}, fmt.Errorf("generate background: %w", err)
		}
		if bg == nil {
			return Result{}, diffusion.ErrEmptyResult
		}
		out, err := render.Blend(render.FitCanvas(bg), canvas, render.BlendAlpha)
		if err != nil {
			return Result{}, err
		}
		final = out
		blended = true
	}

	pngBytes, err := render.EncodePNG(final)
	if err != nil {
		return Result{}, err
	}

	telemetry.Info("resume.generated", map[string]any{
		"render_id": renderID,
		"blended":   blended,
		"bytes":     len(pngBytes),
	})
	return Result{
		RenderID: renderID,
		Image:    final,
		PNG:      pngBytes,
		Blended:  blended,
	}, nil
}

func (g *Generator) clock() func() time.Time {
	if g.now == nil {
		return time.Now
	}
	return g.now
}
