package app

import (
	"context"

	"github.com/kozaktomas/page-composer/internal/constants"
	"github.com/kozaktomas/page-composer/internal/page"
)

// Editor gives goroutines outside the loop access to a State.
type Editor struct {
	loop  *Loop
	state *State
}

// NewEditor creates an editor whose decodes complete on its own loop.
func NewEditor(g *page.Geometry, constrained bool, outputDir string, decode DecodeFunc) *Editor {
	loop := NewLoop(constants.LoopQueueSize)
	post := func(fn func()) { loop.Post(fn) }
	return &Editor{
		loop:  loop,
		state: NewState(g, constrained, outputDir, post, decode),
	}
}

// Run drives the editor until ctx is canceled.
func (e *Editor) Run(ctx context.Context) {
	e.loop.Run(ctx)
}

// Do runs fn against the state on the loop goroutine and waits for it.
func (e *Editor) Do(ctx context.Context, fn func(s *State)) error {
	return e.loop.Do(ctx, func() { fn(e.state) })
}

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := e.Do(ctx, func(s *State) { snap = s.Snapshot() })
	return snap, err
}

// Subscribe registers l on the loop and returns a function removing it.
func (e *Editor) Subscribe(ctx context.Context, l Listener) (func(), error) {
	var unsubscribe func()
	if err := e.Do(ctx, func(s *State) { unsubscribe = s.Subscribe(l) }); err != nil {
		return nil, err
	}
	return func() {
		// Best effort: a stopped loop has no listeners left to remove.
		_ = e.Do(context.Background(), func(*State) { unsubscribe() })
	}, nil
}
