package runtime

import "sync/atomic"

// Invalidator requests render passes, coalescing requests until the app loop
// has handled the pending InvalidateMsg.
type Invalidator struct {
	wake  wake
	count atomic.Int64
}

// NewInvalidator creates an invalidator wired to a post function.
func NewInvalidator(post func(Message) bool) *Invalidator {
	return &Invalidator{wake: wake{post: post, msg: InvalidateMsg{}}}
}

// Invalidate requests a render pass.
func (i *Invalidator) Invalidate() {
	if i == nil {
		return
	}
	i.count.Add(1)
	i.wake.signal()
}

// Requests returns how many invalidations were requested, coalesced or not.
func (i *Invalidator) Requests() int64 {
	if i == nil {
		return 0
	}
	return i.count.Load()
}

// Schedule runs fn and requests a render pass, so a store subscription can
// redraw right after its callback.
func (i *Invalidator) Schedule(fn func()) {
	if fn == nil {
		return
	}
	fn()
	i.Invalidate()
}

func (i *Invalidator) resetPending() {
	if i == nil {
		return
	}
	i.wake.reset()
}
