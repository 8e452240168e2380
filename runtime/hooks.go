package runtime

import (
	"sync"
	"sync/atomic"

	"github.com/odvcencio/furry-store/state"
)

// Hooks holds the hook state of one mounted component and implements
// state.Host for it.
//
// Hooks are identified by call order, so a component must call them in the
// same order on every render. Each store read owns a state.Selection that
// stays subscribed between renders and requests a render only when its
// selected value changes.
type Hooks struct {
	mu        sync.Mutex
	slots     []hookSlot
	cursor    int
	children  []*Hooks
	child     int
	onChange  func()
	scheduler state.Scheduler
	changes   atomic.Int64
}

type hookSlot interface {
	release()
}

type selectSlot struct {
	sel   *state.Selection[any]
	unsub func()
}

func (s *selectSlot) release() {
	s.unsub()
	s.sel.Stop()
}

type signalSlot[T any] struct {
	signal *state.Signal[T]
	unsub  func()
}

func (s *signalSlot[T]) release() {
	s.unsub()
}

// NewHooks creates hook state. onChange runs whenever a hook's value changes;
// scheduler, if set, defers selection recomputes.
func NewHooks(onChange func(), scheduler state.Scheduler) *Hooks {
	return &Hooks{onChange: onChange, scheduler: scheduler}
}

// UseSyncExternalStoreWithSelector returns selector applied to the latest
// snapshot and keeps the component subscribed to the source.
func (h *Hooks) UseSyncExternalStoreWithSelector(subscribe state.SubscribeFunc, getSnapshot func() *state.State, selector state.Selector, equal state.EqualFunc[any]) any {
	if h == nil {
		return state.DirectHost{}.UseSyncExternalStoreWithSelector(subscribe, getSnapshot, selector, equal)
	}
	if selector == nil {
		return nil
	}
	i, existing := h.take()
	if slot, ok := existing.(*selectSlot); ok {
		if equal != nil {
			slot.sel.SetEqualFunc(equal)
		}
		return slot.sel.Read(selector)
	}

	src := state.SourceFuncs{SubscribeFunc: subscribe, SnapshotFunc: getSnapshot}
	sel := state.NewSelectionWithScheduler[any](h.scheduler, src, selector, equal)
	h.put(i, &selectSlot{sel: sel, unsub: sel.Subscribe(h.changed)})
	return sel.Get()
}

// Changes returns how many hook value changes were observed.
func (h *Hooks) Changes() int64 {
	if h == nil {
		return 0
	}
	return h.changes.Load()
}

// SlotCount returns the number of live hook slots, excluding children.
func (h *Hooks) SlotCount() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.slots)
}

// Release drops every hook slot and child, unsubscribing from all sources.
func (h *Hooks) Release() {
	if h == nil {
		return
	}
	h.mu.Lock()
	slots := h.slots
	children := h.children
	h.slots = nil
	h.children = nil
	h.cursor = 0
	h.child = 0
	h.mu.Unlock()

	for _, slot := range slots {
		slot.release()
	}
	for _, child := range children {
		child.Release()
	}
}

func (h *Hooks) begin() {
	h.mu.Lock()
	h.cursor = 0
	h.child = 0
	h.mu.Unlock()
}

// finish releases slots and children that were not reached this render.
func (h *Hooks) finish() {
	h.mu.Lock()
	var stale []hookSlot
	if h.cursor < len(h.slots) {
		stale = append(stale, h.slots[h.cursor:]...)
		clear(h.slots[h.cursor:])
		h.slots = h.slots[:h.cursor]
	}
	var staleChildren []*Hooks
	if h.child < len(h.children) {
		staleChildren = append(staleChildren, h.children[h.child:]...)
		clear(h.children[h.child:])
		h.children = h.children[:h.child]
	}
	h.mu.Unlock()

	for _, slot := range stale {
		slot.release()
	}
	for _, child := range staleChildren {
		child.Release()
	}
}

func (h *Hooks) take() (int, hookSlot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.cursor
	h.cursor++
	if i < len(h.slots) {
		return i, h.slots[i]
	}
	return i, nil
}

func (h *Hooks) put(i int, slot hookSlot) {
	h.mu.Lock()
	var old hookSlot
	if i < len(h.slots) {
		old = h.slots[i]
		h.slots[i] = slot
	} else {
		h.slots = append(h.slots, slot)
	}
	h.mu.Unlock()
	if old != nil {
		old.release()
	}
}

func (h *Hooks) childHooks() *Hooks {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.child
	h.child++
	if i < len(h.children) {
		return h.children[i]
	}
	child := NewHooks(h.changed, h.scheduler)
	h.children = append(h.children, child)
	return child
}

func (h *Hooks) changed() {
	h.changes.Add(1)
	if h.onChange != nil {
		h.onChange()
	}
}

// UseSignal returns a component-local signal created with initial on the
// first render. Setting it requests a render.
func UseSignal[T any](ctx *RenderContext, initial T) *state.Signal[T] {
	h := ctx.Hooks()
	if h == nil {
		return state.NewSignal(initial)
	}
	i, existing := h.take()
	if slot, ok := existing.(*signalSlot[T]); ok {
		return slot.signal
	}
	sig := state.NewSignal(initial)
	h.put(i, &signalSlot[T]{signal: sig, unsub: sig.Subscribe(h.changed)})
	return sig
}

// UseStore reads store through the component's hooks with a typed selector.
func UseStore[T any](ctx *RenderContext, store *state.Store, selector func(*state.State) T) T {
	return state.Use(store.Hook(ctx.Host()), selector)
}

var _ state.Host = (*Hooks)(nil)
