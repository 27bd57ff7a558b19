// Package interact turns pointer drags and wheel notches into placement changes.
package interact

import (
	"math"

	"github.com/kozaktomas/page-composer/internal/constants"
	"github.com/kozaktomas/page-composer/internal/page"
	"github.com/kozaktomas/page-composer/internal/placement"
)

// State is the controller's drag state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Direction is the zoom direction of a wheel event.
type Direction int

const (
	ZoomOut Direction = iota
	ZoomIn
)

// DirectionFromDelta maps a wheel delta to a direction: positive zooms in.
func DirectionFromDelta(delta float64) Direction {
	if delta > 0 {
		return ZoomIn
	}
	return ZoomOut
}

// Target is what an event acts on: the active image, its placement store and
// the current view. An empty ID means no image is active.
type Target struct {
	ID         string
	Dims       placement.Dims
	View       page.Transform
	Placements *placement.Manager
}

func (t *Target) active() bool {
	return t != nil && t.ID != "" && t.Dims.Valid() && t.Placements != nil && t.View.Scale > 0
}

// Pan moves p by a display-space offset.
func Pan(p placement.Placement, dx, dy float64, view page.Transform) placement.Placement {
	pdx, pdy := view.DeltaToPage(dx, dy)
	p.X += pdx
	p.Y += pdy
	return p
}

// Zoom scales p by one wheel step around the page point (mx, my), keeping
// that point at the same relative position inside the footprint.
// It reports false when the scale would not change noticeably, e.g. at a limit.
func Zoom(p placement.Placement, d placement.Dims, mx, my float64, dir Direction, upper float64) (placement.Placement, bool) {
	z := constants.ZoomStep
	if dir == ZoomOut {
		z = 1 / constants.ZoomStep
	}
	newScale := max(constants.MinScale, min(upper, p.Scale*z))
	if math.Abs(newScale-p.Scale) < constants.ScaleEpsilon {
		return p, false
	}

	oldW, oldH := p.Footprint(d)
	relX := (mx - p.X) / max(oldW, 1)
	relY := (my - p.Y) / max(oldH, 1)

	p.Scale = newScale
	newW, newH := p.Footprint(d)
	p.X = mx - relX*newW
	p.Y = my - relY*newH
	return p, true
}

// Controller tracks drag state between pointer events.
type Controller struct {
	state State
	lastX float64
	lastY float64
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{}
}

// State returns the current drag state.
func (c *Controller) State() State {
	return c.state
}

// PointerDown starts a drag when an image is active and the pointer is on the page.
func (c *Controller) PointerDown(x, y float64, t *Target) bool {
	if !t.active() || !t.View.Contains(x, y) {
		return false
	}
	c.state = Dragging
	c.lastX, c.lastY = x, y
	return true
}

// PointerMove pans the active placement while dragging. It reports whether
// the placement changed and a redraw is due.
func (c *Controller) PointerMove(x, y float64, t *Target) bool {
	if c.state != Dragging {
		return false
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	if !t.active() {
		return false
	}

	p := t.Placements.GetOrInit(t.ID, t.Dims)
	t.Placements.Set(t.ID, Pan(p, dx, dy, t.View))
	t.Placements.ClampToPage(t.ID, t.Dims)
	return true
}

// PointerUp ends a drag.
func (c *Controller) PointerUp(x, y float64) {
	c.state = Idle
	c.lastX, c.lastY = x, y
}

// Cancel drops any drag in progress, e.g. when the active image changes.
func (c *Controller) Cancel() {
	c.state = Idle
}

// Wheel zooms the active placement around the pointer. Valid in any state.
// It reports whether the placement changed.
func (c *Controller) Wheel(x, y float64, dir Direction, t *Target) bool {
	if !t.active() || !t.View.Contains(x, y) {
		return false
	}

	p := t.Placements.GetOrInit(t.ID, t.Dims)
	mx, my := t.View.ToPage(x, y)
	next, changed := Zoom(p, t.Dims, mx, my, dir, t.Placements.UpperScale(t.Dims))
	if !changed {
		return false
	}
	t.Placements.Set(t.ID, next)
	t.Placements.ClampToPage(t.ID, t.Dims)
	return true
}
