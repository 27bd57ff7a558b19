package app

import (
	"github.com/kozaktomas/page-composer/internal/interact"
	"github.com/kozaktomas/page-composer/internal/page"
	"github.com/kozaktomas/page-composer/internal/placement"
)

// AssetInfo describes one queued asset.
type AssetInfo struct {
	ID        string               `json:"id"`
	Loaded    bool                 `json:"loaded"`
	Loading   bool                 `json:"loading"`
	Error     string               `json:"error,omitempty"`
	Width     int                  `json:"width,omitempty"`
	Height    int                  `json:"height,omitempty"`
	Placement *placement.Placement `json:"placement,omitempty"`
}

// Snapshot is a read-only copy of the editor state.
type Snapshot struct {
	Assets      []AssetInfo `json:"assets"`
	Active      string      `json:"active,omitempty"`
	Orientation string      `json:"orientation"`
	Constrained bool        `json:"constrained"`
	Grid        bool        `json:"grid"`
	OutputDir   string      `json:"output_dir"`
	DPI         int         `json:"dpi"`
	PageWidth   int         `json:"page_width"`
	PageHeight  int         `json:"page_height"`
	Margin      int         `json:"margin"`
	Renderable  bool        `json:"renderable"`
	View        *page.Rect  `json:"view,omitempty"`
	ViewScale   float64     `json:"view_scale,omitempty"`
	Dragging    bool        `json:"dragging"`
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Active:      s.active,
		Orientation: s.geometry.Orientation().String(),
		Constrained: s.placements.Constrained(),
		Grid:        s.grid,
		OutputDir:   s.outputDir,
		DPI:         s.geometry.DPI(),
		PageWidth:   s.geometry.Width(),
		PageHeight:  s.geometry.Height(),
		Margin:      s.geometry.Margin(),
		Dragging:    s.controller.State() == interact.Dragging,
	}
	if view, ok := s.geometry.View(); ok {
		snap.Renderable = true
		snap.View = &view.Rect
		snap.ViewScale = view.Scale
	}

	for _, id := range s.queue.List() {
		info := AssetInfo{ID: id, Loading: s.loading[id], Error: s.failed[id]}
		if a, ok := s.cache.Get(id); ok {
			d := a.Dims()
			info.Loaded = true
			info.Width, info.Height = d.Width, d.Height
			if p, ok := s.placements.Get(id); ok {
				info.Placement = &p
			}
		}
		snap.Assets = append(snap.Assets, info)
	}
	return snap
}
