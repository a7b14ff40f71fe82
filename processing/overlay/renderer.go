package overlay

import (
	"image/color"

	"livedetect/internal/models"
)

type Style struct {
	Stroke      color.Color
	LineWidth   float64
	BoxFill     color.Color
	TagFill     color.Color
	TextFill    color.Color
	FontSize    float64
	TagHeight   float64
	TagPadding  float64
	TextOffsetX float64
	TextOffsetY float64
}

func DefaultStyle() Style {
	return Style{
		Stroke:      color.NRGBA{0x00, 0xFF, 0xFF, 0xFF},
		LineWidth:   3,
		BoxFill:     color.NRGBA{0x00, 0xFF, 0xFF, 0x40},
		TagFill:     color.NRGBA{0x00, 0xFF, 0xFF, 0xFF},
		TextFill:    color.NRGBA{0x00, 0x00, 0x00, 0xFF},
		FontSize:    20,
		TagHeight:   20,
		TagPadding:  8,
		TextOffsetX: 4,
		TextOffsetY: 2,
	}
}

// Renderer paints detections onto a Surface. It keeps no state between calls.
type Renderer struct {
	style Style
}

func NewRenderer(style Style) *Renderer {
	return &Renderer{style: style}
}

// Render resizes s to width x height, clears it and draws every detection in
// the order given.
func (r *Renderer) Render(s Surface, detections []models.Detection, width, height int) {
	s.Resize(width, height)
	s.ClearRect(0, 0, float64(s.Width()), float64(s.Height()))

	st := r.style

	for _, det := range detections {
		x, y := det.BBox.X(), det.BBox.Y()
		w, h := det.BBox.Width(), det.BBox.Height()

		s.SetStrokeStyle(st.Stroke)
		s.SetLineWidth(st.LineWidth)
		s.SetFillStyle(st.BoxFill)
		s.FillRect(x, y, w, h)

		s.SetFont(st.FontSize)
		s.SetFillStyle(st.TagFill)
		text := det.Label()
		textWidth := s.MeasureText(text)

		s.FillRect(x, y-st.TagHeight, textWidth+st.TagPadding, st.TagHeight)
		s.SetFillStyle(st.TextFill)
		s.FillText(text, x+st.TextOffsetX, y-st.TextOffsetY)
		s.StrokeRect(x, y, w, h)
	}
}
