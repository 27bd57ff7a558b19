package page

import (
	"math"
	"testing"
)

func TestMMToUnits(t *testing.T) {
	tests := []struct {
		name     string
		mm       float64
		dpi      int
		expected int
	}{
		{"A4 width at 300 DPI", 210, 300, 2480},
		{"A4 height at 300 DPI", 297, 300, 3508},
		{"A4 width at 150 DPI", 210, 150, 1240},
		{"A4 height at 96 DPI", 297, 96, 1123},
		{"one inch", 25.4, 72, 72},
		{"zero", 0, 300, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MMToUnits(tt.mm, tt.dpi); got != tt.expected {
				t.Errorf("MMToUnits(%v, %d) = %d, want %d", tt.mm, tt.dpi, got, tt.expected)
			}
		})
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		input   string
		want    Orientation
		wantErr bool
	}{
		{"portrait", Portrait, false},
		{"Landscape", Landscape, false},
		{" l ", Landscape, false},
		{"P", Portrait, false},
		{"sideways", Portrait, true},
		{"", Portrait, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOrientation(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOrientation(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOrientation(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGeometry_A4Portrait300(t *testing.T) {
	g := NewA4(Portrait, 300)

	if g.Width() != 2480 || g.Height() != 3508 {
		t.Errorf("expected 2480x3508, got %dx%d", g.Width(), g.Height())
	}
	w, h := g.MaxContent()
	if w != 2440 || h != 3468 {
		t.Errorf("expected max content 2440x3468, got %vx%v", w, h)
	}
	if g.Renderable() {
		t.Error("expected geometry without a display size to be not renderable")
	}
}

func TestGeometry_SetOrientationSwapsExactly(t *testing.T) {
	g := NewA4(Portrait, 300)
	pw, ph := g.Width(), g.Height()

	g.SetOrientation(Landscape)
	if g.Width() != ph || g.Height() != pw {
		t.Errorf("expected landscape %dx%d, got %dx%d", ph, pw, g.Width(), g.Height())
	}

	g.SetOrientation(Portrait)
	if g.Width() != pw || g.Height() != ph {
		t.Errorf("expected portrait %dx%d, got %dx%d", pw, ph, g.Width(), g.Height())
	}
}

func TestGeometry_SetOrientationRecomputesView(t *testing.T) {
	g := NewA4(Portrait, 300)
	g.Resize(1000, 800)
	before, _ := g.View()

	g.SetOrientation(Landscape)
	after, ok := g.View()
	if !ok {
		t.Fatal("expected geometry to stay renderable")
	}
	if after.Rect.W() <= before.Rect.W() {
		t.Errorf("expected wider page rect in landscape, got %v then %v", before.Rect.W(), after.Rect.W())
	}
	if math.Abs(after.Scale-after.Rect.W()/float64(g.Width())) > 1e-12 {
		t.Errorf("view scale %v does not match rect width / page width", after.Scale)
	}
}

func TestGeometry_Resize(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		limitW bool // page width limited by the display width
	}{
		{"tall display", 500, 1000, true},
		{"wide display", 1600, 900, false},
		{"square display", 800, 800, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewA4(Portrait, 300)
			if !g.Resize(tt.w, tt.h) {
				t.Fatal("expected renderable")
			}
			view, ok := g.View()
			if !ok {
				t.Fatal("expected view")
			}

			r := view.Rect
			ratio := float64(g.Width()) / float64(g.Height())
			if math.Abs(r.W()/r.H()-ratio) > 1e-9 {
				t.Errorf("aspect ratio %v, want %v", r.W()/r.H(), ratio)
			}
			if tt.limitW && math.Abs(r.W()-0.96*float64(tt.w)) > 1e-9 {
				t.Errorf("expected width 96%% of display, got %v", r.W())
			}
			if !tt.limitW && math.Abs(r.H()-0.96*float64(tt.h)) > 1e-9 {
				t.Errorf("expected height 96%% of display, got %v", r.H())
			}
			// Centered.
			if math.Abs(r.X0-(float64(tt.w)-r.X1)) > 1e-9 || math.Abs(r.Y0-(float64(tt.h)-r.Y1)) > 1e-9 {
				t.Errorf("page rect %+v not centered in %dx%d", r, tt.w, tt.h)
			}
			if view.Scale <= 0 {
				t.Errorf("expected positive view scale, got %v", view.Scale)
			}
		})
	}
}

func TestGeometry_ResizeDegenerate(t *testing.T) {
	sizes := [][2]int{{1, 1}, {0, 600}, {800, 1}, {-5, -5}}
	for _, s := range sizes {
		g := NewA4(Portrait, 300)
		g.Resize(800, 600)
		if g.Resize(s[0], s[1]) {
			t.Errorf("Resize(%d, %d) reported renderable", s[0], s[1])
		}
		if _, ok := g.View(); ok {
			t.Errorf("Resize(%d, %d) left a view defined", s[0], s[1])
		}
	}
}

func TestGeometry_SetDPIKeepsMargin(t *testing.T) {
	g := NewA4(Portrait, 300)
	g.SetDPI(150)

	if g.Width() != 1240 || g.Height() != 1754 {
		t.Errorf("expected 1240x1754 at 150 DPI, got %dx%d", g.Width(), g.Height())
	}
	if g.Margin() != 20 {
		t.Errorf("expected margin to stay 20 units, got %d", g.Margin())
	}

	g.SetDPI(0)
	if g.DPI() != 150 {
		t.Errorf("expected invalid DPI to be ignored, got %d", g.DPI())
	}
}

func TestGeometry_SizeMM(t *testing.T) {
	g := NewA4(Landscape, 300)
	w, h := g.SizeMM()
	if w != 297 || h != 210 {
		t.Errorf("expected 297x210 mm, got %vx%v", w, h)
	}
}
