package runtime

import (
	"testing"

	"github.com/odvcencio/furry-store/state"
)

func TestQueueScheduler_PostsFlush(t *testing.T) {
	queue := state.NewQueue()
	posted := 0
	scheduler := NewQueueScheduler(queue, func(msg Message) bool {
		if _, ok := msg.(QueueFlushMsg); ok {
			posted++
			return true
		}
		return false
	})

	scheduler.Schedule(func() {})
	if posted != 1 {
		t.Fatalf("expected 1 flush post, got %d", posted)
	}
}

func TestQueueScheduler_CoalescesPosts(t *testing.T) {
	queue := state.NewQueue()
	posted := 0
	scheduler := NewQueueScheduler(queue, func(msg Message) bool {
		if _, ok := msg.(QueueFlushMsg); ok {
			posted++
			return true
		}
		return false
	})

	scheduler.Schedule(func() {})
	scheduler.Schedule(func() {})
	if posted != 1 {
		t.Fatalf("expected 1 flush post, got %d", posted)
	}

	scheduler.resetPending()
	scheduler.Schedule(func() {})
	if posted != 2 {
		t.Fatalf("expected 2 flush posts after reset, got %d", posted)
	}
}

func TestQueueScheduler_RepostsOnFailedSend(t *testing.T) {
	queue := state.NewQueue()
	attempts := 0
	scheduler := NewQueueScheduler(queue, func(msg Message) bool {
		attempts++
		return false
	})

	scheduler.Schedule(func() {})
	scheduler.Schedule(func() {})
	if attempts != 2 {
		t.Fatalf("expected 2 post attempts, got %d", attempts)
	}
}

func TestQueueScheduler_DefersStoreListeners(t *testing.T) {
	queue := state.NewQueue()
	posts := 0
	scheduler := NewQueueScheduler(queue, func(Message) bool {
		posts++
		return true
	})
	store := state.Create(func(set state.SetFunc) state.Values {
		return state.Values{"count": 0}
	})
	calls := 0
	unsub := store.SubscribeWithScheduler(scheduler, func() { calls++ })
	defer unsub()

	for i := 1; i <= 3; i++ {
		_ = store.Set(state.Partial{"count": i})
	}
	if calls != 0 {
		t.Fatalf("expected callbacks to wait for flush, got %d", calls)
	}
	if posts != 1 {
		t.Fatalf("expected a single wake-up for three sets, got %d", posts)
	}
	if scheduler.Queue().Len() != 3 {
		t.Fatalf("expected 3 queued callbacks, got %d", scheduler.Queue().Len())
	}
	scheduler.resetPending()
	if flushed := scheduler.Queue().Flush(); flushed != 3 || calls != 3 {
		t.Fatalf("expected 3 callbacks after flush, got %d (%d calls)", flushed, calls)
	}
}
