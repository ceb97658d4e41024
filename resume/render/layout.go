package render

// Canvas geometry. Coordinates are the top-left corner of a text box.
const (
	CanvasWidth  = 800
	CanvasHeight = 1100

	MarginX = 50

	NameY  = 50
	EmailY = 100
	PhoneY = 120

	SectionStartY = 200
	SectionStep   = 120
	SectionBodyDY = 40

	// LineSpacing is added to the face height between lines of multi-line text.
	LineSpacing = 4
)

// Point sizes per text role.
const (
	TitleSize  = 36
	HeaderSize = 24
	BodySize   = 16
)

// BlendAlpha is the canvas (foreground) contribution when compositing over a
// generated background.
const BlendAlpha = 0.3
