// Package page maps a physical paper size onto a pixel grid ("page units")
// and onto the display surface that shows it.
package page

import (
	"fmt"
	"math"
	"strings"

	"github.com/kozaktomas/page-composer/internal/constants"
)

// Orientation selects which paper side is horizontal.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// ParseOrientation accepts "portrait" or "landscape" (case-insensitive).
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait", "p":
		return Portrait, nil
	case "landscape", "l":
		return Landscape, nil
	default:
		return Portrait, fmt.Errorf("unknown orientation %q", s)
	}
}

// Paper is a physical paper size in portrait orientation.
type Paper struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

// A4 is the ISO 216 A4 sheet.
var A4 = Paper{Name: "A4", WidthMM: constants.A4WidthMM, HeightMM: constants.A4HeightMM}

// MMToUnits converts millimeters to page units at the given resolution.
func MMToUnits(mm float64, dpi int) int {
	return int(math.Round(mm / constants.MMPerInch * float64(dpi)))
}

// Geometry is the page in page units plus its current on-screen rectangle.
type Geometry struct {
	paper       Paper
	orientation Orientation
	dpi         int
	margin      int

	width  int
	height int

	displayW   int
	displayH   int
	view       Rect
	viewScale  float64
	renderable bool
}

// NewGeometry creates a page geometry. The display area starts out degenerate
// until Resize is called.
func NewGeometry(paper Paper, orientation Orientation, dpi, margin int) *Geometry {
	g := &Geometry{
		paper:       paper,
		orientation: orientation,
		dpi:         dpi,
		margin:      margin,
	}
	g.recompute()
	return g
}

// NewA4 creates an A4 geometry with the default margin.
func NewA4(orientation Orientation, dpi int) *Geometry {
	return NewGeometry(A4, orientation, dpi, constants.DefaultMarginUnits)
}

func (g *Geometry) recompute() {
	w := MMToUnits(g.paper.WidthMM, g.dpi)
	h := MMToUnits(g.paper.HeightMM, g.dpi)
	if g.orientation == Landscape {
		w, h = h, w
	}
	g.width, g.height = w, h
	g.Resize(g.displayW, g.displayH)
}

// SetOrientation swaps the page dimensions as needed and recomputes the view.
func (g *Geometry) SetOrientation(o Orientation) {
	g.orientation = o
	g.recompute()
}

// SetDPI changes the page resolution. The margin stays in page units.
func (g *Geometry) SetDPI(dpi int) {
	if dpi <= 0 {
		return
	}
	g.dpi = dpi
	g.recompute()
}

// Resize recomputes the view rectangle for a display surface of w x h pixels.
// It reports whether the page can be rendered; a surface of 1x1 or smaller
// (common while a window is being created) leaves the view undefined.
func (g *Geometry) Resize(w, h int) bool {
	g.displayW, g.displayH = w, h
	if w <= constants.MinRenderableSize || h <= constants.MinRenderableSize || g.width <= 0 || g.height <= 0 {
		g.view = Rect{}
		g.viewScale = 0
		g.renderable = false
		return false
	}

	cw, ch := float64(w), float64(h)
	ratio := float64(g.width) / float64(g.height)

	var pageW, pageH float64
	if cw/ch > ratio {
		pageH = ch * constants.ViewFillRatio
		pageW = pageH * ratio
	} else {
		pageW = cw * constants.ViewFillRatio
		pageH = pageW / ratio
	}

	x0 := (cw - pageW) / 2
	y0 := (ch - pageH) / 2
	g.view = Rect{X0: x0, Y0: y0, X1: x0 + pageW, Y1: y0 + pageH}
	g.viewScale = pageW / float64(g.width)
	g.renderable = true
	return true
}

// Renderable reports whether the last display size could hold the page.
func (g *Geometry) Renderable() bool { return g.renderable }

// View returns the current display transform, or false when not renderable.
func (g *Geometry) View() (Transform, bool) {
	if !g.renderable {
		return Transform{}, false
	}
	return Transform{Rect: g.view, Scale: g.viewScale}, true
}

// DisplaySize returns the last display size passed to Resize.
func (g *Geometry) DisplaySize() (int, int) { return g.displayW, g.displayH }

func (g *Geometry) Paper() Paper             { return g.paper }
func (g *Geometry) Orientation() Orientation { return g.orientation }
func (g *Geometry) DPI() int                 { return g.dpi }
func (g *Geometry) Margin() int              { return g.margin }
func (g *Geometry) Width() int               { return g.width }
func (g *Geometry) Height() int              { return g.height }

// MaxContent returns the placeable area inside the margins, in page units.
func (g *Geometry) MaxContent() (float64, float64) {
	return float64(g.width - 2*g.margin), float64(g.height - 2*g.margin)
}

// SizeMM returns the oriented page size in millimeters.
func (g *Geometry) SizeMM() (float64, float64) {
	if g.orientation == Landscape {
		return g.paper.HeightMM, g.paper.WidthMM
	}
	return g.paper.WidthMM, g.paper.HeightMM
}
