package widgets

import (
	"sync"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

// StoreLabel is a one-line label bound to a store.
// It manages its subscription in Mount/Unmount and formats the text from
// each new snapshot, re-rendering only when the text changes.
type StoreLabel struct {
	Component
	store     *state.Store
	format    func(*state.State) string
	mu        sync.Mutex
	text      string
	style     backend.Style
	alignment Alignment
	mounted   bool
}

// NewStoreLabel creates a label showing format(snapshot).
func NewStoreLabel(store *state.Store, format func(*state.State) string) *StoreLabel {
	label := &StoreLabel{
		store:     store,
		format:    format,
		style:     backend.DefaultStyle(),
		alignment: AlignLeft,
	}
	label.text = label.compute()
	return label
}

// Text returns the current label text.
func (s *StoreLabel) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// SetStyle sets the label style.
func (s *StoreLabel) SetStyle(style backend.Style) {
	s.style = style
}

// SetAlignment sets text alignment.
func (s *StoreLabel) SetAlignment(align Alignment) {
	s.alignment = align
}

// Render draws the label on the first row of the bounds.
func (s *StoreLabel) Render(ctx *runtime.RenderContext) {
	writeLine(ctx.Buffer, ctx.Bounds, 0, s.Text(), s.style, s.alignment)
}

// Mount subscribes to store changes.
func (s *StoreLabel) Mount() {
	s.mu.Lock()
	s.mounted = true
	s.mu.Unlock()
	s.Subs.Clear()
	if s.store == nil {
		return
	}
	s.refresh()
	s.Observe(s.store, s.onStore)
}

// Unmount unsubscribes from store changes.
func (s *StoreLabel) Unmount() {
	s.mu.Lock()
	s.mounted = false
	s.mu.Unlock()
	s.Subs.Clear()
}

func (s *StoreLabel) onStore() {
	s.mu.Lock()
	mounted := s.mounted
	s.mu.Unlock()
	if mounted && s.refresh() {
		s.Invalidate()
	}
}

func (s *StoreLabel) refresh() bool {
	text := s.compute()
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.text {
		return false
	}
	s.text = text
	return true
}

func (s *StoreLabel) compute() string {
	if s.store == nil || s.format == nil {
		return ""
	}
	return s.format(s.store.GetSnapshot())
}

var (
	_ runtime.Component = (*StoreLabel)(nil)
	_ runtime.Lifecycle = (*StoreLabel)(nil)
	_ runtime.Bindable  = (*StoreLabel)(nil)
)
