package models

import (
	"fmt"
	"math"
)

// BBox is x, y, width, height in pixels of the source frame.
type BBox [4]float64

func (b BBox) X() float64      { return b[0] }
func (b BBox) Y() float64      { return b[1] }
func (b BBox) Width() float64  { return b[2] }
func (b BBox) Height() float64 { return b[3] }

type Detection struct {
	BBox  BBox    `json:"bbox"`
	Class string  `json:"class"`
	Score float64 `json:"score"`
}

// Label is the text drawn in the tag above the box, e.g. "person - 87.0%".
// Halves round up, so 0.5625 reads 56.3%.
func (d Detection) Label() string {
	return fmt.Sprintf("%s - %.1f%%", d.Class, percent(d.Score))
}

// percent is score*100 rounded half up to one decimal.
func percent(score float64) float64 {
	return math.Floor(score*1000+0.5) / 10
}
