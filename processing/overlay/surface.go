package overlay

import "image/color"

// Surface is a canvas-like drawing target. Resize discards previous content.
type Surface interface {
	Resize(width, height int)
	Width() int
	Height() int

	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillText(text string, x, y float64)
	MeasureText(text string) float64

	SetStrokeStyle(c color.Color)
	SetFillStyle(c color.Color)
	SetLineWidth(w float64)
	SetFont(size float64)
}
