// Package compose renders placed images for the on-screen preview and for
// page-sized export buffers.
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/kozaktomas/page-composer/internal/constants"
	"github.com/kozaktomas/page-composer/internal/page"
	"github.com/kozaktomas/page-composer/internal/placement"
)

// ErrUndersizedPlacement is returned when an export footprint rounds to zero pixels.
var ErrUndersizedPlacement = errors.New("undersized placement")

var (
	Background = color.RGBA{0x11, 0x11, 0x11, 0xff}
	PageColor  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	Outline    = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	GridColor  = color.RGBA{0x99, 0x99, 0x99, 0xff}
	MarginLine = color.RGBA{0xbb, 0xbb, 0xbb, 0xff}
)

// Preview is a resized image positioned on the display surface.
type Preview struct {
	Image *image.NRGBA
	At    image.Point
}

// RenderPreview resizes src to its on-page footprint and then to view
// resolution. It returns false when either display dimension is below
// two pixels.
func RenderPreview(src image.Image, p placement.Placement, view page.Transform) (Preview, bool) {
	b := src.Bounds()
	wPage := float64(b.Dx()) * p.Scale
	hPage := float64(b.Dy()) * p.Scale

	cw := int(wPage * view.Scale)
	ch := int(hPage * view.Scale)
	if cw < constants.MinPreviewSize || ch < constants.MinPreviewSize {
		return Preview{}, false
	}

	pw := max(int(math.Round(wPage)), 1)
	ph := max(int(math.Round(hPage)), 1)
	stage := imaging.Resize(src, pw, ph, imaging.Lanczos)
	out := imaging.Resize(stage, cw, ch, imaging.Lanczos)

	x, y := view.ToDisplay(p.X, p.Y)
	return Preview{Image: out, At: image.Pt(int(math.Round(x)), int(math.Round(y)))}, true
}

// RenderExportPage composes src onto a white page-sized buffer. With
// constrained off the decoded image is returned as is.
func RenderExportPage(src image.Image, p placement.Placement, bounds placement.Bounds, constrained bool) (image.Image, error) {
	if !constrained {
		return src, nil
	}

	sb := src.Bounds()
	d := placement.Dims{Width: sb.Dx(), Height: sb.Dy()}
	if !d.Valid() {
		return nil, fmt.Errorf("%w: empty source image", ErrUndersizedPlacement)
	}

	capScale := placement.MaxScale(d, bounds)
	scale := max(constants.MinScale, min(capScale, p.Scale))
	w := int(math.Round(float64(d.Width) * scale))
	h := int(math.Round(float64(d.Height) * scale))
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: footprint %dx%d", ErrUndersizedPlacement, w, h)
	}

	var resized image.Image = src
	if w != d.Width || h != d.Height {
		resized = imaging.Resize(src, w, h, imaging.Lanczos)
	}

	m := bounds.Margin
	x := int(max(m, min(p.X, bounds.PageW-m-float64(w))))
	y := int(max(m, min(p.Y, bounds.PageH-m-float64(h))))

	pageImg := imaging.New(int(bounds.PageW), int(bounds.PageH), PageColor)
	return imaging.Paste(pageImg, resized, image.Pt(x, y)), nil
}

// FrameOptions selects the optional overlays of a display frame.
type FrameOptions struct {
	Grid    bool
	Margins bool
}

// RenderFrame draws the display surface: background, page, overlays and the
// optional preview. A nil preview draws an empty page.
func RenderFrame(displayW, displayH int, view page.Transform, bounds placement.Bounds, preview *Preview, opts FrameOptions) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, max(displayW, 1), max(displayH, 1)))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	if view.Scale <= 0 {
		return frame
	}

	pageRect := displayRect(view, 0, 0, bounds.PageW, bounds.PageH)
	draw.Draw(frame, pageRect, image.NewUniform(PageColor), image.Point{}, draw.Src)

	if opts.Grid {
		drawGrid(frame, view, bounds)
	}
	if opts.Margins {
		m := bounds.Margin
		strokeRect(frame, displayRect(view, m, m, bounds.PageW-m, bounds.PageH-m), MarginLine)
	}
	if preview != nil && preview.Image != nil {
		r := preview.Image.Bounds().Add(preview.At).Intersect(pageRect)
		draw.Draw(frame, r, preview.Image, r.Min.Sub(preview.At), draw.Over)
	}
	strokeRect(frame, pageRect, Outline)
	return frame
}

func drawGrid(dst *image.RGBA, view page.Transform, bounds placement.Bounds) {
	step := float64(constants.GridSpacingUnits)
	c := image.NewUniform(GridColor)
	for x := step; x < bounds.PageW; x += step {
		dx := int(math.Round(view.Rect.X0 + x*view.Scale))
		r := image.Rect(dx, int(view.Rect.Y0), dx+1, int(view.Rect.Y1))
		draw.Draw(dst, r, c, image.Point{}, draw.Src)
	}
	for y := step; y < bounds.PageH; y += step {
		dy := int(math.Round(view.Rect.Y0 + y*view.Scale))
		r := image.Rect(int(view.Rect.X0), dy, int(view.Rect.X1), dy+1)
		draw.Draw(dst, r, c, image.Point{}, draw.Src)
	}
}

func displayRect(view page.Transform, x0, y0, x1, y1 float64) image.Rectangle {
	ax, ay := view.ToDisplay(x0, y0)
	bx, by := view.ToDisplay(x1, y1)
	return image.Rect(int(math.Round(ax)), int(math.Round(ay)), int(math.Round(bx)), int(math.Round(by)))
}

func strokeRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	c := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, c, image.Point{}, draw.Src)
	}
}
