package page

// Rect is an axis-aligned rectangle in display pixels.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// W returns the rectangle width.
func (r Rect) W() float64 { return r.X1 - r.X0 }

// H returns the rectangle height.
func (r Rect) H() float64 { return r.Y1 - r.Y0 }

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return r.X0 <= x && x <= r.X1 && r.Y0 <= y && y <= r.Y1
}

// Transform maps between display pixels and page units for one view.
// It is a snapshot: it does not follow later changes to the Geometry.
type Transform struct {
	Rect  Rect    // page rectangle on the display
	Scale float64 // display pixels per page unit
}

// ToDisplay converts a page coordinate to a display coordinate.
func (t Transform) ToDisplay(pageX, pageY float64) (float64, float64) {
	return t.Rect.X0 + pageX*t.Scale, t.Rect.Y0 + pageY*t.Scale
}

// ToPage converts a display coordinate to a page coordinate.
func (t Transform) ToPage(dispX, dispY float64) (float64, float64) {
	return (dispX - t.Rect.X0) / t.Scale, (dispY - t.Rect.Y0) / t.Scale
}

// DeltaToPage converts a display-space offset to a page-space offset.
// Offsets only need the scale, not the origin.
func (t Transform) DeltaToPage(dx, dy float64) (float64, float64) {
	return dx / t.Scale, dy / t.Scale
}

// Contains reports whether a display coordinate lies on the page.
func (t Transform) Contains(dispX, dispY float64) bool {
	return t.Rect.Contains(dispX, dispY)
}
