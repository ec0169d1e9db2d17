package shell

import (
	"context"
	"sync"
)

// View scopes the requests issued by one screen. Closing the view
// cancels them and stops late results from being applied.
type View struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func NewView(parent context.Context) *View {
	ctx, cancel := context.WithCancel(parent)
	return &View{ctx: ctx, cancel: cancel}
}

// Context is passed to every request the screen issues.
func (v *View) Context() context.Context {
	return v.ctx
}

// Apply runs fn unless the view was closed or its context is done. It
// reports whether fn ran.
func (v *View) Apply(fn func()) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.cancel()
}

func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
