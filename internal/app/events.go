package app

// EventKind identifies an editor event.
type EventKind string

const (
	EventAssetLoaded EventKind = "asset_loaded"
	EventAssetFailed EventKind = "asset_failed"
	EventRedraw      EventKind = "redraw"
)

// Event is delivered to listeners on the loop goroutine.
type Event struct {
	Kind  EventKind `json:"kind"`
	ID    string    `json:"id,omitempty"`
	Error string    `json:"error,omitempty"`
}

// Listener receives editor events. Listeners run on the loop goroutine and
// must not block.
type Listener func(Event)
