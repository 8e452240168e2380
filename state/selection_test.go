package state

import "testing"

func TestSelection_Recompute(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"a": 1, "b": 2}
	})

	sum := NewSelection(store, func(s *State) int {
		a, _ := Lookup[int](s, "a")
		b, _ := Lookup[int](s, "b")
		return a + b
	}, EqualComparable[int])

	if got := sum.Get(); got != 3 {
		t.Fatalf("expected initial sum 3, got %d", got)
	}

	calls := 0
	unsub := sum.Subscribe(func() {
		calls++
	})

	store.Set(Partial{"a": 2})
	if got := sum.Get(); got != 4 {
		t.Fatalf("expected sum 4 after change, got %d", got)
	}
	if calls != 1 {
		t.Fatalf("expected 1 recompute, got %d", calls)
	}

	store.Set(Partial{"a": 3, "b": 1})
	if calls != 1 {
		t.Fatalf("expected equal sum to suppress notification, got %d", calls)
	}

	unsub()
	store.Set(Partial{"b": 10})
	if calls != 1 {
		t.Fatalf("expected no notification after unsubscribe, got %d", calls)
	}
	if got := sum.Get(); got != 13 {
		t.Fatalf("expected selection to keep tracking, got %d", got)
	}
}

func TestSelection_IsolatedKeys(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"a": 1, "b": 2}
	})
	a := NewSelection(store, func(s *State) any { return s.Value("a") }, nil)
	b := NewSelection(store, func(s *State) any { return s.Value("b") }, nil)
	bCalls := 0
	b.Subscribe(func() { bCalls++ })

	store.Set(Partial{"a": 5})
	if a.Get() != 5 {
		t.Fatalf("expected a=5, got %v", a.Get())
	}
	if b.Get() != 2 || bCalls != 0 {
		t.Fatalf("expected b untouched, got %v with %d calls", b.Get(), bCalls)
	}
}

func TestSelection_SkipsUnchangedSnapshot(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"a": 1}
	})
	runs := 0
	sel := NewSelection(store, func(s *State) int {
		runs++
		n, _ := Lookup[int](s, "a")
		return n
	}, nil)

	sel.recompute()
	sel.recompute()
	if runs != 1 {
		t.Fatalf("expected selector to run once for one snapshot, got %d", runs)
	}
}

func TestSelection_Stop(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"a": 1}
	})
	sel := NewSelection(store, func(s *State) any { return s.Value("a") }, nil)

	sel.Stop()
	sel.Stop()

	store.Set(Partial{"a": 2})
	if got := sel.Get(); got != 1 {
		t.Fatalf("expected selection to stay at 1 after stop, got %v", got)
	}
	if store.ListenerCount() != 0 {
		t.Fatalf("expected stop to release the store listener")
	}
}

func TestSelection_Scheduler(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"a": 1}
	})
	queue := NewQueue()
	sel := NewSelectionWithScheduler(queue, store, func(s *State) any { return s.Value("a") }, nil)

	store.Set(Partial{"a": 2})
	if got := sel.Get(); got != 1 {
		t.Fatalf("expected selection to stay at 1 before flush, got %v", got)
	}
	if flushed := queue.Flush(); flushed != 1 {
		t.Fatalf("expected 1 recompute flushed, got %d", flushed)
	}
	if got := sel.Get(); got != 2 {
		t.Fatalf("expected selection to update after flush, got %v", got)
	}
}

func TestSelection_ReadSwapsSelector(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"a": 1, "b": 2}
	})
	sel := NewSelection(store, func(s *State) any { return s.Value("a") }, nil)
	calls := 0
	sel.Subscribe(func() { calls++ })

	if got := sel.Read(func(s *State) any { return s.Value("b") }); got != 2 {
		t.Fatalf("expected read of b to return 2, got %v", got)
	}
	if calls != 0 {
		t.Fatalf("expected read not to notify, got %d", calls)
	}

	store.Set(Partial{"a": 10})
	if calls != 0 {
		t.Fatalf("expected change to a to be ignored by b selector, got %d", calls)
	}
	store.Set(Partial{"b": 3})
	if calls != 1 || sel.Get() != 3 {
		t.Fatalf("expected b change to notify, got calls=%d value=%v", calls, sel.Get())
	}
}

func TestSelection_DeepEqualDefault(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"tags": []string{"x"}, "n": 0}
	})
	sel := NewSelection(store, func(s *State) []string {
		tags, _ := Lookup[[]string](s, "tags")
		return append([]string(nil), tags...)
	}, nil)
	calls := 0
	sel.Subscribe(func() { calls++ })

	store.Set(Partial{"n": 1})
	if calls != 0 {
		t.Fatalf("expected equal slices to suppress notification, got %d", calls)
	}
	store.Set(Partial{"tags": []string{"x", "y"}})
	if calls != 1 {
		t.Fatalf("expected changed slice to notify, got %d", calls)
	}
}
