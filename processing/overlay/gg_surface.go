package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	labelFont     *truetype.Font
	labelFontOnce sync.Once
)

func loadFont() *truetype.Font {
	labelFontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			panic(err)
		}
		labelFont = f
	})
	return labelFont
}

// GGSurface is a transparent RGBA Surface backed by a gg context.
type GGSurface struct {
	dc *gg.Context

	stroke    color.Color
	fill      color.Color
	lineWidth float64
	fontSize  float64
	face      font.Face
}

func NewGGSurface(width, height int) *GGSurface {
	s := &GGSurface{
		stroke:    color.Black,
		fill:      color.Black,
		lineWidth: 1,
	}
	s.SetFont(10)
	s.Resize(width, height)
	return s
}

func (s *GGSurface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.dc = gg.NewContext(width, height)
	s.dc.SetFontFace(s.face)
}

func (s *GGSurface) Width() int  { return s.dc.Width() }
func (s *GGSurface) Height() int { return s.dc.Height() }

func (s *GGSurface) ClearRect(x, y, w, h float64) {
	img, ok := s.dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	r := image.Rect(int(x), int(y), int(x+w), int(y+h)).Intersect(img.Bounds())
	draw.Draw(img, r, image.Transparent, image.Point{}, draw.Src)
}

func (s *GGSurface) FillRect(x, y, w, h float64) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.SetColor(s.fill)
	s.dc.Fill()
}

func (s *GGSurface) StrokeRect(x, y, w, h float64) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.SetColor(s.stroke)
	s.dc.SetLineWidth(s.lineWidth)
	s.dc.Stroke()
}

// FillText draws with y as the alphabetic baseline.
func (s *GGSurface) FillText(text string, x, y float64) {
	s.dc.SetColor(s.fill)
	s.dc.DrawString(text, x, y)
}

func (s *GGSurface) MeasureText(text string) float64 {
	w, _ := s.dc.MeasureString(text)
	return w
}

func (s *GGSurface) SetStrokeStyle(c color.Color) { s.stroke = c }
func (s *GGSurface) SetFillStyle(c color.Color)   { s.fill = c }
func (s *GGSurface) SetLineWidth(w float64)       { s.lineWidth = w }

func (s *GGSurface) SetFont(size float64) {
	if size == s.fontSize && s.face != nil {
		return
	}
	s.fontSize = size
	s.face = truetype.NewFace(loadFont(), &truetype.Options{Size: size})
	if s.dc != nil {
		s.dc.SetFontFace(s.face)
	}
}

// Image returns a copy of the current pixels.
func (s *GGSurface) Image() *image.RGBA {
	src := s.dc.Image()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
