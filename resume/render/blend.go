package render

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Blend composites fg over bg with fg weighted by alpha:
// out = bg + alpha*(fg-bg) per RGB channel, truncated toward zero. Both
// images must share the same size; the result is opaque.
func Blend(bg, fg image.Image, alpha float64) (*image.RGBA, error) {
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("blend alpha %v outside [0,1]", alpha)
	}
	bs, fs := bg.Bounds().Size(), fg.Bounds().Size()
	if bs != fs {
		return nil, fmt.Errorf("blend size mismatch: background %v, foreground %v", bs, fs)
	}

	b := toRGBA(bg)
	f := toRGBA(fg)
	out := image.NewRGBA(image.Rect(0, 0, bs.X, bs.Y))
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = mix(b.Pix[i], f.Pix[i], alpha)
		out.Pix[i+1] = mix(b.Pix[i+1], f.Pix[i+1], alpha)
		out.Pix[i+2] = mix(b.Pix[i+2], f.Pix[i+2], alpha)
		out.Pix[i+3] = 0xff
	}
	return out, nil
}

// FitCanvas scales img to the canvas size when it differs.
func FitCanvas(img image.Image) image.Image {
	if img.Bounds().Dx() == CanvasWidth && img.Bounds().Dy() == CanvasHeight {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

func mix(bg, fg uint8, alpha float64) uint8 {
	v := float64(bg) + alpha*(float64(fg)-float64(bg))
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// toRGBA returns a zero-origin, tightly packed RGBA copy with any alpha
// flattened onto white.
func toRGBA(img image.Image) *image.RGBA {
	r := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && r.Min == (image.Point{}) && rgba.Stride == 4*r.Dx() && opaque(rgba) {
		return rgba
	}
	out := NewCanvasSized(r.Dx(), r.Dy())
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Over)
	return out
}

func opaque(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return false
		}
	}
	return true
}
