package compose

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/kozaktomas/page-composer/internal/page"
	"github.com/kozaktomas/page-composer/internal/placement"
)

var red = color.RGBA{0xff, 0, 0, 0xff}

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func a4Bounds() placement.Bounds {
	return placement.BoundsOf(page.NewA4(page.Portrait, 300))
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func nearRed(c color.RGBA) bool {
	return c.R >= 0xf8 && c.G <= 0x08 && c.B <= 0x08
}

func TestRenderExportPage_DefaultPlacement(t *testing.T) {
	src := solidImage(1000, 500, red)
	bounds := a4Bounds()
	p := placement.Default(placement.Dims{Width: 1000, Height: 500}, bounds)

	out, err := RenderExportPage(src, p, bounds, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Bounds().Size(); got != image.Pt(2480, 3508) {
		t.Fatalf("expected page 2480x3508, got %v", got)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"top-left corner of image", 740, 1504, red},
		{"bottom-right corner of image", 1739, 2003, red},
		{"left of image", 739, 1504, color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"right of image", 1740, 1504, color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"below image", 740, 2004, color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"page corner", 0, 0, color.RGBA{0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rgbaAt(out, tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d): expected %v, got %v", tt.x, tt.y, tt.want, got)
			}
		})
	}
}

func TestRenderExportPage_CapsScaleAndClampsPosition(t *testing.T) {
	src := solidImage(1000, 500, red)
	bounds := a4Bounds()

	out, err := RenderExportPage(src, placement.Placement{Scale: 3, X: -400, Y: 9000}, bounds, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Capped footprint is 2440x1220, pinned to the left margin and the bottom margin.
	if got := rgbaAt(out, 20, 3508-20-1220); !nearRed(got) {
		t.Errorf("expected image at top-left of clamped footprint, got %v", got)
	}
	if got := rgbaAt(out, 19, 3000); nearRed(got) {
		t.Error("expected margin column to stay white")
	}
	if got := rgbaAt(out, 2459, 3487); !nearRed(got) {
		t.Errorf("expected image at bottom-right of clamped footprint, got %v", got)
	}
	if got := rgbaAt(out, 2460, 3487); nearRed(got) {
		t.Error("expected right margin to stay white")
	}
}

func TestRenderExportPage_Undersized(t *testing.T) {
	src := solidImage(9, 9, red)
	_, err := RenderExportPage(src, placement.Placement{Scale: 0.01, X: 100, Y: 100}, a4Bounds(), true)
	if !errors.Is(err, ErrUndersizedPlacement) {
		t.Fatalf("expected ErrUndersizedPlacement, got %v", err)
	}
}

func TestRenderExportPage_FreeFormReturnsSource(t *testing.T) {
	src := solidImage(300, 200, red)
	out, err := RenderExportPage(src, placement.Placement{Scale: 4, X: -1000, Y: -1000}, a4Bounds(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != image.Image(src) {
		t.Error("expected free-form export to return the decoded image unchanged")
	}
}

func TestRenderPreview(t *testing.T) {
	g := page.NewA4(page.Portrait, 300)
	g.Resize(800, 1100)
	view, _ := g.View()
	src := solidImage(1000, 500, red)

	prev, ok := RenderPreview(src, placement.Placement{Scale: 1, X: 740, Y: 1504}, view)
	if !ok {
		t.Fatal("expected preview to render")
	}
	wantW := int(1000 * view.Scale)
	wantH := int(500 * view.Scale)
	if got := prev.Image.Bounds().Size(); got != image.Pt(wantW, wantH) {
		t.Errorf("expected preview %dx%d, got %v", wantW, wantH, got)
	}
	x, y := view.ToDisplay(740, 1504)
	if prev.At != image.Pt(int(math.Round(x)), int(math.Round(y))) {
		t.Errorf("expected preview at (%v, %v), got %v", x, y, prev.At)
	}
}

func TestRenderPreview_TooSmall(t *testing.T) {
	g := page.NewA4(page.Portrait, 300)
	g.Resize(800, 1100)
	view, _ := g.View()

	if _, ok := RenderPreview(solidImage(20, 20, red), placement.Placement{Scale: 0.05, X: 100, Y: 100}, view); ok {
		t.Error("expected preview below two pixels to be skipped")
	}
}

func TestRenderFrame(t *testing.T) {
	g := page.NewA4(page.Portrait, 300)
	g.Resize(800, 1100)
	view, _ := g.View()
	bounds := placement.BoundsOf(g)

	frame := RenderFrame(800, 1100, view, bounds, nil, FrameOptions{Grid: true, Margins: true})
	if got := frame.Bounds().Size(); got != image.Pt(800, 1100) {
		t.Fatalf("expected 800x1100 frame, got %v", got)
	}
	if got := frame.RGBAAt(0, 0); got != Background {
		t.Errorf("expected background at origin, got %v", got)
	}

	gx, _ := view.ToDisplay(100, 0)
	_, my := view.ToDisplay(0, 50)
	if got := frame.RGBAAt(int(math.Round(gx)), int(math.Round(my))); got != GridColor {
		t.Errorf("expected grid line at page x=100, got %v", got)
	}

	cx, cy := view.ToDisplay(150, 1750)
	if got := frame.RGBAAt(int(cx), int(cy)); got != PageColor {
		t.Errorf("expected white page between grid lines, got %v", got)
	}
}

func TestRenderFrame_DrawsPreview(t *testing.T) {
	g := page.NewA4(page.Portrait, 300)
	g.Resize(800, 1100)
	view, _ := g.View()
	bounds := placement.BoundsOf(g)

	prev, ok := RenderPreview(solidImage(1000, 500, red), placement.Placement{Scale: 1, X: 740, Y: 1504}, view)
	if !ok {
		t.Fatal("expected preview")
	}
	frame := RenderFrame(800, 1100, view, bounds, &prev, FrameOptions{})

	cx, cy := view.ToDisplay(1240, 1754)
	if got := frame.RGBAAt(int(cx), int(cy)); !nearRed(got) {
		t.Errorf("expected red preview at image center, got %v", got)
	}
}

func TestRenderFrame_NotRenderable(t *testing.T) {
	frame := RenderFrame(1, 1, page.Transform{}, a4Bounds(), nil, FrameOptions{Grid: true})
	if got := frame.RGBAAt(0, 0); got != Background {
		t.Errorf("expected only background, got %v", got)
	}
}
