package widgets

import (
	"fmt"
	"testing"

	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

func newCounter() *state.Store {
	return state.Create(func(set state.SetFunc) state.Values {
		return state.Values{"count": 0}
	})
}

func formatCount(s *state.State) string {
	return fmt.Sprintf("count=%v", s.Value("count"))
}

func TestStoreLabel_LifecycleQueue(t *testing.T) {
	store := newCounter()
	queue := state.NewQueue()
	label := NewStoreLabel(store, formatCount)
	label.Subs.SetScheduler(queue)

	label.Mount()
	if label.Text() != "count=0" {
		t.Fatalf("expected initial text count=0, got %q", label.Text())
	}

	_ = store.Set(state.Partial{"count": 1})
	if label.Text() != "count=0" {
		t.Fatalf("expected text to update after flush, got %q", label.Text())
	}
	if flushed := queue.Flush(); flushed != 1 {
		t.Fatalf("expected 1 queued callback, got %d", flushed)
	}
	if label.Text() != "count=1" {
		t.Fatalf("expected updated text count=1, got %q", label.Text())
	}

	label.Unmount()
	_ = store.Set(state.Partial{"count": 2})
	if flushed := queue.Flush(); flushed != 0 {
		t.Fatalf("expected no queued callbacks after unmount, got %d", flushed)
	}
	if store.ListenerCount() != 0 {
		t.Fatalf("expected unsubscribed store, got %d listeners", store.ListenerCount())
	}
}

func TestStoreLabel_RenderAligned(t *testing.T) {
	label := NewStoreLabel(newCounter(), formatCount)
	label.SetAlignment(AlignRight)
	buf := runtime.NewBuffer(10, 1)
	label.Render(runtime.NewRenderContext(buf, runtime.Rect{Width: 10, Height: 1}, nil))
	if got := buf.Get(9, 0).Rune; got != '0' {
		t.Fatalf("expected right-aligned text ending in 0, got %q", got)
	}
	if got := buf.Get(3, 0).Rune; got != 'c' {
		t.Fatalf("expected text to start at column 3, got %q", got)
	}
	if got := buf.Get(2, 0).Rune; got != ' ' {
		t.Fatalf("expected padding before column 3, got %q", got)
	}
}

func TestStoreLabel_BindUnbind(t *testing.T) {
	store := newCounter()
	label := NewStoreLabel(store, formatCount)
	runtime.MountTree(label, runtime.Services{})
	_ = store.Set(state.Partial{"count": 4})
	if label.Text() != "count=4" {
		t.Fatalf("expected synchronous update without app scheduler, got %q", label.Text())
	}
	runtime.UnmountTree(label)
	if label.Subs.Len() != 0 {
		t.Fatalf("expected subscriptions cleared, got %d", label.Subs.Len())
	}
}

type countingListener struct {
	calls *int
}

func (l countingListener) OnStoreChange() {
	*l.calls++
}

func TestComponent_ListenTracksSubscriptions(t *testing.T) {
	store := newCounter()
	var c Component
	calls := 0
	l := countingListener{calls: &calls}
	c.Listen(store, l)
	c.Listen(store, l)
	if store.ListenerCount() != 1 {
		t.Fatalf("expected identical listener registered once, got %d", store.ListenerCount())
	}
	_ = store.Set(state.Partial{"count": 1})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	c.Unbind()
	if store.ListenerCount() != 0 {
		t.Fatalf("expected unbind to clear listeners, got %d", store.ListenerCount())
	}
}
