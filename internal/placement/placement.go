// Package placement holds where each image sits on the page and keeps it
// inside the page margins when constrained mode is active.
package placement

import (
	"github.com/kozaktomas/page-composer/internal/constants"
	"github.com/kozaktomas/page-composer/internal/page"
)

// Dims are the pixel dimensions of a source image.
type Dims struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (d Dims) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Bounds describe the page an image is placed on, in page units.
type Bounds struct {
	PageW  float64
	PageH  float64
	Margin float64
}

// BoundsOf returns the bounds of the geometry's current page.
func BoundsOf(g *page.Geometry) Bounds {
	return Bounds{
		PageW:  float64(g.Width()),
		PageH:  float64(g.Height()),
		Margin: float64(g.Margin()),
	}
}

// MaxContent returns the area inside the margins.
func (b Bounds) MaxContent() (float64, float64) {
	return b.PageW - 2*b.Margin, b.PageH - 2*b.Margin
}

// Placement is an image's scale (page units per source pixel) and the page
// coordinate of its top-left corner.
type Placement struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Footprint returns the on-page size of an image with dimensions d.
func (p Placement) Footprint(d Dims) (float64, float64) {
	return p.Scale * float64(d.Width), p.Scale * float64(d.Height)
}

// MaxScale returns the largest scale at which the image fits inside the margins.
func MaxScale(d Dims, b Bounds) float64 {
	if !d.Valid() {
		return 0
	}
	maxW, maxH := b.MaxContent()
	return min(maxW/float64(d.Width), maxH/float64(d.Height))
}

// Default returns the initial placement: shrunk to fit the content area
// (never enlarged) and centered on the page.
func Default(d Dims, b Bounds) Placement {
	if !d.Valid() {
		return Placement{Scale: 1}
	}
	s := min(MaxScale(d, b), 1.0)
	w, h := float64(d.Width)*s, float64(d.Height)*s
	return Placement{
		Scale: s,
		X:     (b.PageW - w) / 2,
		Y:     (b.PageH - h) / 2,
	}
}

// Clamp caps the scale at MaxScale and pulls the footprint inside the margins,
// pinning it to the nearest edge when it sticks out.
func Clamp(p Placement, d Dims, b Bounds) Placement {
	if !d.Valid() {
		return p
	}
	if limit := MaxScale(d, b); p.Scale > limit {
		p.Scale = limit
	}
	w, h := p.Footprint(d)
	p.X = min(max(p.X, b.Margin), b.PageW-b.Margin-w)
	p.Y = min(max(p.Y, b.Margin), b.PageH-b.Margin-h)
	return p
}

// UpperScale returns the zoom ceiling: MaxScale in constrained mode, a fixed
// ceiling otherwise.
func UpperScale(d Dims, b Bounds, constrained bool) float64 {
	if constrained {
		return MaxScale(d, b)
	}
	return constants.FreeScaleCeiling
}
