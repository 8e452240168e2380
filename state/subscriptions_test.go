package state

import "testing"

func TestSubscriptions_Clear(t *testing.T) {
	subs := &Subscriptions{}
	calls := 0

	subs.Add(func() { calls++ })
	subs.Add(func() { calls++ })

	subs.Clear()
	if calls != 2 {
		t.Fatalf("expected 2 unsubscribe calls, got %d", calls)
	}

	subs.Clear()
	if calls != 2 {
		t.Fatalf("expected no extra calls after clear, got %d", calls)
	}
}

func TestSubscriptions_Scheduler(t *testing.T) {
	sig := NewSignal(1)
	queue := NewQueue()
	subs := NewSubscriptions(queue)
	calls := 0

	subs.Observe(sig, func() {
		calls++
	})

	if !sig.Set(2) {
		t.Fatalf("expected signal to change")
	}
	if calls != 0 {
		t.Fatalf("expected callback to be queued, got %d", calls)
	}
	if flushed := queue.Flush(); flushed != 1 {
		t.Fatalf("expected 1 callback flushed, got %d", flushed)
	}
	if calls != 1 {
		t.Fatalf("expected callback after flush, got %d", calls)
	}

	subs.Clear()
	sig.Set(3)
	queue.Flush()
	if calls != 1 {
		t.Fatalf("expected no callbacks after clear, got %d", calls)
	}
}

func TestSubscriptions_SetScheduler(t *testing.T) {
	sig := NewSignal(1)
	queue := NewQueue()
	subs := &Subscriptions{}
	calls := 0

	subs.SetScheduler(queue)
	subs.Observe(sig, func() {
		calls++
	})

	sig.Set(2)
	queue.Flush()
	if calls != 1 {
		t.Fatalf("expected callback with scheduler, got %d", calls)
	}
}

func TestSubscriptions_Listen(t *testing.T) {
	store := Create(func(set SetFunc) Values { return Values{"n": 0} })
	subs := NewSubscriptions(nil)
	l := &countingListener{}

	subs.Listen(store, l)
	subs.Listen(store, l)
	if subs.Len() != 2 || store.ListenerCount() != 1 {
		t.Fatalf("expected 2 tracked callbacks over 1 registration, got %d / %d", subs.Len(), store.ListenerCount())
	}

	store.Set(Partial{"n": 1})
	subs.Clear()
	store.Set(Partial{"n": 2})
	if l.calls != 1 {
		t.Fatalf("expected 1 call before clear, got %d", l.calls)
	}
	if store.ListenerCount() != 0 {
		t.Fatalf("expected clear to release the store")
	}
}

func TestSubscriptions_ObserveStore(t *testing.T) {
	store := Create(func(set SetFunc) Values { return Values{"n": 0} })
	queue := NewQueue()
	subs := NewSubscriptions(queue)
	calls := 0

	subs.Observe(store, func() { calls++ })
	store.Set(Partial{"n": 1})
	if calls != 0 || queue.Len() != 1 {
		t.Fatalf("expected queued callback, got calls=%d pending=%d", calls, queue.Len())
	}
	queue.Flush()
	if calls != 1 {
		t.Fatalf("expected callback after flush, got %d", calls)
	}
}
