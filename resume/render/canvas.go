package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"resume-imager/resume/model"
)

var (
	background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ink        = color.RGBA{A: 255}
)

// NewCanvas returns a white CanvasWidth x CanvasHeight surface.
func NewCanvas() *image.RGBA {
	return NewCanvasSized(CanvasWidth, CanvasHeight)
}

// NewCanvasSized returns a white w x h surface.
func NewCanvasSized(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return img
}

// DrawResume draws the resume text onto a fresh canvas. Text is neither
// wrapped nor measured; anything past the canvas edge is clipped.
func DrawResume(data model.ResumeData, faces Faces) *image.RGBA {
	img := NewCanvas()

	drawText(img, faces.Title, MarginX, NameY, data.Name)
	drawText(img, faces.Body, MarginX, EmailY, "Email: "+data.Email)
	drawText(img, faces.Body, MarginX, PhoneY, "Phone: "+data.Phone)

	y := SectionStartY
	for _, section := range data.Sections() {
		drawText(img, faces.Header, MarginX, y, section.Title)
		drawText(img, faces.Body, MarginX, y+SectionBodyDY, section.Body)
		y += SectionStep
	}
	return img
}

// drawText places text so that (x, y) is the top-left of its first line.
// Embedded newlines advance by the face height plus LineSpacing.
func drawText(dst draw.Image, face font.Face, x, y int, text string) {
	if text == "" {
		return
	}
	metrics := face.Metrics()
	advance := metrics.Height + fixed.I(LineSpacing)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
	}
	baseline := fixed.I(y) + metrics.Ascent
	for _, line := range strings.Split(text, "\n") {
		d.Dot = fixed.Point26_6{X: fixed.I(x), Y: baseline}
		d.DrawString(strings.TrimRight(line, "\r"))
		baseline += advance
	}
}
