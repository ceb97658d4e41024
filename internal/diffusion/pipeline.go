package diffusion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // decode jpeg results
	_ "image/png"  // decode png results

	_ "golang.org/x/image/webp" // decode webp results
)

var (
	// ErrNotConfigured means no inference backend was configured.
	ErrNotConfigured = errors.New("diffusion pipeline not configured")

	// ErrEmptyResult means the backend answered without an image.
	ErrEmptyResult = errors.New("diffusion pipeline returned no image")
)

// Params describes a single text-to-image request.
type Params struct {
	Prompt string
	Width  int
	Height int
}

// Pipeline turns a prompt into one raster image.
type Pipeline interface {
	Generate(ctx context.Context, params Params) (image.Image, error)
}

func decodeImage(raw []byte) (image.Image, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyResult
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty %s image", ErrEmptyResult, format)
	}
	return img, nil
}
