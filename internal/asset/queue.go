package asset

import (
	"path/filepath"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// NormalizeID cleans a path and normalizes it to NFC so the same file picked
// through different tools maps to one identifier.
func NormalizeID(path string) string {
	return norm.NFC.String(filepath.Clean(path))
}

// Queue is the ordered, de-duplicated list of asset identifiers.
type Queue struct {
	ids []string
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add appends paths that are not queued yet and returns the identifiers that were added.
func (q *Queue) Add(paths ...string) []string {
	var added []string
	for _, p := range paths {
		id := NormalizeID(p)
		if q.Contains(id) {
			continue
		}
		q.ids = append(q.ids, id)
		added = append(added, id)
	}
	return added
}

// Remove drops id and returns its former index, or -1 when it was not queued.
func (q *Queue) Remove(id string) int {
	idx := q.Index(id)
	if idx < 0 {
		return -1
	}
	q.ids = slices.Delete(q.ids, idx, idx+1)
	return idx
}

// Index returns the position of id, or -1.
func (q *Queue) Index(id string) int {
	return slices.Index(q.ids, id)
}

// Contains reports whether id is queued.
func (q *Queue) Contains(id string) bool {
	return q.Index(id) >= 0
}

// At returns the identifier at index i.
func (q *Queue) At(i int) (string, bool) {
	if i < 0 || i >= len(q.ids) {
		return "", false
	}
	return q.ids[i], true
}

// List returns a copy of the queued identifiers in order.
func (q *Queue) List() []string {
	return slices.Clone(q.ids)
}

// Len returns the number of queued identifiers.
func (q *Queue) Len() int {
	return len(q.ids)
}
