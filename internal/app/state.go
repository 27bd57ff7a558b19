// Package app holds the editor state and the single-goroutine loop that
// drives it.
package app

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/kozaktomas/page-composer/internal/asset"
	"github.com/kozaktomas/page-composer/internal/compose"
	"github.com/kozaktomas/page-composer/internal/export"
	"github.com/kozaktomas/page-composer/internal/interact"
	"github.com/kozaktomas/page-composer/internal/page"
	"github.com/kozaktomas/page-composer/internal/placement"
)

var (
	ErrUnknownAsset = errors.New("unknown asset")
	ErrNotLoaded    = errors.New("asset not loaded")
)

// DecodeFunc loads an asset by identifier. It runs on a worker goroutine.
type DecodeFunc func(id string) (*asset.Asset, error)

// State is the editor model: page geometry, placements, queue, decode cache
// and the interaction controller. It is not safe for concurrent use; every
// method must run on the loop goroutine.
type State struct {
	geometry   *page.Geometry
	placements *placement.Manager
	queue      *asset.Queue
	cache      *asset.Cache
	controller *interact.Controller

	active    string
	grid      bool
	outputDir string
	failed    map[string]string
	loading   map[string]bool
	listeners []subscription
	nextSub   int

	post   func(func())
	decode DecodeFunc
	isFile func(path string) bool
}

type subscription struct {
	id int
	fn Listener
}

// NewState creates an empty editor. post hands decode completions back to the
// goroutine that owns the state.
func NewState(g *page.Geometry, constrained bool, outputDir string, post func(func()), decode DecodeFunc) *State {
	if decode == nil {
		decode = asset.Decode
	}
	return &State{
		geometry:   g,
		placements: placement.NewManager(g, constrained),
		queue:      asset.NewQueue(),
		cache:      asset.NewCache(),
		controller: interact.NewController(),
		outputDir:  outputDir,
		failed:     make(map[string]string),
		loading:    make(map[string]bool),
		post:       post,
		decode:     decode,
		isFile:     asset.IsFile,
	}
}

// Subscribe registers a listener for editor events and returns a function
// that removes it.
func (s *State) Subscribe(l Listener) func() {
	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
	}
}

func (s *State) emit(e Event) {
	for _, sub := range s.listeners {
		sub.fn(e)
	}
}

func (s *State) redraw() {
	s.emit(Event{Kind: EventRedraw})
}

// AddAssets queues existing files with a supported image extension. The first
// added asset becomes active when nothing is selected. It returns the queued
// identifiers.
func (s *State) AddAssets(paths ...string) []string {
	var supported []string
	for _, p := range paths {
		if asset.IsSupported(p) && s.isFile(p) {
			supported = append(supported, p)
		}
	}
	added := s.queue.Add(supported...)
	if s.active == "" && len(added) > 0 {
		_ = s.SelectAsset(added[0])
	}
	return added
}

// SelectAsset makes id the active asset. An asset that is not cached yet is
// decoded on a worker goroutine and shown once the decode completes.
func (s *State) SelectAsset(id string) error {
	id = asset.NormalizeID(id)
	if !s.queue.Contains(id) {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	if s.active != id {
		s.controller.Cancel()
	}
	s.active = id

	if a, ok := s.cache.Get(id); ok {
		s.placements.GetOrInit(id, a.Dims())
		s.placements.ClampToPage(id, a.Dims())
	} else {
		s.startDecode(id)
	}
	s.redraw()
	return nil
}

func (s *State) startDecode(id string) {
	if s.loading[id] {
		return
	}
	s.loading[id] = true
	delete(s.failed, id)

	decode, post := s.decode, s.post
	go func() {
		a, err := decode(id)
		post(func() { s.finishDecode(id, a, err) })
	}()
}

// finishDecode runs on the loop goroutine after a worker decode.
func (s *State) finishDecode(id string, a *asset.Asset, err error) {
	delete(s.loading, id)
	if !s.queue.Contains(id) {
		return
	}
	if err != nil {
		s.failed[id] = err.Error()
		s.emit(Event{Kind: EventAssetFailed, ID: id, Error: err.Error()})
		return
	}

	a.ID = id
	s.cache.Put(a)
	if id == s.active {
		s.placements.GetOrInit(id, a.Dims())
		s.placements.ClampToPage(id, a.Dims())
	}
	s.emit(Event{Kind: EventAssetLoaded, ID: id})
	if id == s.active {
		s.redraw()
	}
}

// RemoveAsset drops id from the queue together with its cached pixels and
// placement. When it was active the neighbor that moves into its slot is
// selected, or the previous one when it was last.
func (s *State) RemoveAsset(id string) error {
	id = asset.NormalizeID(id)
	idx := s.queue.Remove(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	s.cache.Evict(id)
	s.placements.Remove(id)
	delete(s.failed, id)

	if s.active == id {
		s.active = ""
		s.controller.Cancel()
		next, ok := s.queue.At(idx)
		if !ok {
			next, ok = s.queue.At(idx - 1)
		}
		if ok {
			return s.SelectAsset(next)
		}
	}
	s.redraw()
	return nil
}

// Active returns the active asset identifier, empty when none.
func (s *State) Active() string {
	return s.active
}

func (s *State) activeDims() (placement.Dims, bool) {
	a, ok := s.cache.Get(s.active)
	if !ok {
		return placement.Dims{}, false
	}
	return a.Dims(), true
}

func (s *State) clampActive() {
	if d, ok := s.activeDims(); ok {
		s.placements.GetOrInit(s.active, d)
		s.placements.ClampToPage(s.active, d)
	}
}

// SetConstrained toggles fit-to-page mode; turning it on re-clamps the active placement.
func (s *State) SetConstrained(on bool) {
	s.placements.SetConstrained(on)
	if on {
		s.clampActive()
	}
	s.redraw()
}

// SetOrientation swaps the page and re-clamps the active placement.
func (s *State) SetOrientation(o page.Orientation) {
	if o == s.geometry.Orientation() {
		return
	}
	s.geometry.SetOrientation(o)
	s.clampActive()
	s.redraw()
}

// SetGrid toggles the grid overlay.
func (s *State) SetGrid(on bool) {
	s.grid = on
	s.redraw()
}

// SetOutputDir sets the export target folder.
func (s *State) SetOutputDir(dir string) {
	s.outputDir = dir
}

// DisplayResize recomputes the view. It reports whether the page can be drawn.
func (s *State) DisplayResize(w, h int) bool {
	ok := s.geometry.Resize(w, h)
	if ok {
		s.redraw()
	}
	return ok
}

func (s *State) target() *interact.Target {
	d, ok := s.activeDims()
	if !ok {
		return nil
	}
	view, ok := s.geometry.View()
	if !ok {
		return nil
	}
	return &interact.Target{ID: s.active, Dims: d, View: view, Placements: s.placements}
}

// PointerDown starts a drag over the page.
func (s *State) PointerDown(x, y float64) bool {
	return s.controller.PointerDown(x, y, s.target())
}

// PointerMove pans the active placement while dragging.
func (s *State) PointerMove(x, y float64) bool {
	changed := s.controller.PointerMove(x, y, s.target())
	if changed {
		s.redraw()
	}
	return changed
}

// PointerUp ends a drag.
func (s *State) PointerUp(x, y float64) {
	s.controller.PointerUp(x, y)
}

// Wheel zooms the active placement around (x, y). Positive deltas zoom in.
func (s *State) Wheel(x, y, delta float64) bool {
	changed := s.controller.Wheel(x, y, interact.DirectionFromDelta(delta), s.target())
	if changed {
		s.redraw()
	}
	return changed
}

// Placement returns the placement of a decoded asset.
func (s *State) Placement(id string) (placement.Placement, error) {
	id = asset.NormalizeID(id)
	if !s.queue.Contains(id) {
		return placement.Placement{}, fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	a, ok := s.cache.Get(id)
	if !ok {
		return placement.Placement{}, fmt.Errorf("%w: %s", ErrNotLoaded, id)
	}
	return s.placements.GetOrInit(id, a.Dims()), nil
}

// Frame renders the display surface. It returns false while the display
// area is degenerate.
func (s *State) Frame() (*image.RGBA, bool) {
	view, ok := s.geometry.View()
	if !ok {
		return nil, false
	}
	w, h := s.geometry.DisplaySize()

	var preview *compose.Preview
	if a, ok := s.cache.Get(s.active); ok {
		p := s.placements.GetOrInit(s.active, a.Dims())
		if pv, ok := compose.RenderPreview(a.Image, p, view); ok {
			preview = &pv
		}
	}

	opts := compose.FrameOptions{Grid: s.grid, Margins: s.placements.Constrained()}
	return compose.RenderFrame(w, h, view, s.placements.Bounds(), preview, opts), true
}

// ExportPlan snapshots every queued asset for an export running off the loop.
func (s *State) ExportPlan() ([]export.Item, export.Options) {
	ids := s.queue.List()
	items := make([]export.Item, 0, len(ids))
	for _, id := range ids {
		item := export.Item{ID: id}
		if a, ok := s.cache.Get(id); ok {
			item.Asset = a
		}
		if p, ok := s.placements.Get(id); ok {
			item.Placement = p
			item.HasPlacement = true
		}
		items = append(items, item)
	}
	return items, export.Options{
		OutputDir:   s.outputDir,
		Constrained: s.placements.Constrained(),
		Bounds:      s.placements.Bounds(),
	}
}
