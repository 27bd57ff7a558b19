package placement

import (
	"github.com/kozaktomas/page-composer/internal/page"
)

// Manager keeps one Placement per asset id for the whole session, so
// re-selecting an image restores where it was left.
// It is not safe for concurrent use.
type Manager struct {
	geometry    *page.Geometry
	states      map[string]Placement
	constrained bool
}

// NewManager creates a manager for placements on the given page.
func NewManager(g *page.Geometry, constrained bool) *Manager {
	return &Manager{
		geometry:    g,
		states:      make(map[string]Placement),
		constrained: constrained,
	}
}

// Bounds returns the current page bounds.
func (m *Manager) Bounds() Bounds {
	return BoundsOf(m.geometry)
}

// Constrained reports whether constrained (fit to page) mode is active.
func (m *Manager) Constrained() bool {
	return m.constrained
}

// SetConstrained switches constrained mode. Callers re-clamp the active
// placement when turning it on.
func (m *Manager) SetConstrained(on bool) {
	m.constrained = on
}

// GetOrInit returns the placement for id, creating the default one on first access.
func (m *Manager) GetOrInit(id string, d Dims) Placement {
	if p, ok := m.states[id]; ok {
		return p
	}
	p := Default(d, m.Bounds())
	m.states[id] = p
	return p
}

// Get returns the stored placement for id.
func (m *Manager) Get(id string) (Placement, bool) {
	p, ok := m.states[id]
	return p, ok
}

// Set stores p for id as given.
func (m *Manager) Set(id string, p Placement) {
	m.states[id] = p
}

// ClampToPage re-applies the constrained-mode limits to id's placement.
// It is a no-op when constrained mode is off or id has no placement yet.
func (m *Manager) ClampToPage(id string, d Dims) {
	if !m.constrained {
		return
	}
	p, ok := m.states[id]
	if !ok {
		return
	}
	m.states[id] = Clamp(p, d, m.Bounds())
}

// UpperScale returns the zoom ceiling for an image under the current mode.
func (m *Manager) UpperScale(d Dims) float64 {
	return UpperScale(d, m.Bounds(), m.constrained)
}

// Remove forgets the placement for id.
func (m *Manager) Remove(id string) {
	delete(m.states, id)
}

// Len returns the number of stored placements.
func (m *Manager) Len() int {
	return len(m.states)
}
