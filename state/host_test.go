package state

import "testing"

type recordingHost struct {
	subscribed int
	unsubs     []func()
}

func (h *recordingHost) UseSyncExternalStoreWithSelector(subscribe SubscribeFunc, getSnapshot func() *State, selector Selector, equal EqualFunc[any]) any {
	h.subscribed++
	h.unsubs = append(h.unsubs, subscribe(func() {}))
	return selector(getSnapshot())
}

func TestHook_DirectRead(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"a": 1, "b": 2}
	})
	hook := store.Hook(nil)

	if got := hook(func(s *State) any { return s.Value("a") }); got != 1 {
		t.Fatalf("expected a=1, got %v", got)
	}
	store.Set(Partial{"a": 5})
	if got := Use(hook, func(s *State) int { n, _ := Lookup[int](s, "a"); return n }); got != 5 {
		t.Fatalf("expected a=5, got %d", got)
	}
	if got := Use(hook, func(s *State) int { n, _ := Lookup[int](s, "b"); return n }); got != 2 {
		t.Fatalf("expected b=2, got %d", got)
	}
	if store.ListenerCount() != 0 {
		t.Fatalf("expected direct reads not to subscribe")
	}
}

func TestHook_PassesStoreToHost(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"a": 1}
	})
	host := &recordingHost{}
	hook := store.Hook(host)

	if got := hook(func(s *State) any { return s.Value("a") }); got != 1 {
		t.Fatalf("expected a=1, got %v", got)
	}
	if host.subscribed != 1 || store.ListenerCount() != 1 {
		t.Fatalf("expected host to subscribe once, got %d / %d", host.subscribed, store.ListenerCount())
	}
	host.unsubs[0]()
	if store.ListenerCount() != 0 {
		t.Fatalf("expected host unsubscribe to release the store")
	}
}

func TestHook_SnapshotIsLiveReference(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"a": 1}
	})
	var seen *State
	host := HostFunc(func(subscribe SubscribeFunc, getSnapshot func() *State, selector Selector, equal EqualFunc[any]) any {
		seen = getSnapshot()
		return selector(seen)
	})
	store.Hook(host)(func(s *State) any { return nil })
	if seen != store.GetSnapshot() {
		t.Fatalf("expected host to receive the live snapshot")
	}
}

func TestHook_SelectorPanicLeavesState(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"a": 1}
	})
	before := store.GetSnapshot()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected selector panic to propagate")
			}
		}()
		store.Hook(nil)(func(*State) any { panic("bad selector") })
	}()
	if store.GetSnapshot() != before {
		t.Fatalf("expected state untouched")
	}
}

func TestUseWithEqual(t *testing.T) {
	store := Create(func(set SetFunc) Values {
		return Values{"name": "Ada"}
	})
	var gotEqual EqualFunc[any]
	host := HostFunc(func(subscribe SubscribeFunc, getSnapshot func() *State, selector Selector, equal EqualFunc[any]) any {
		gotEqual = equal
		return selector(getSnapshot())
	})

	name := UseWithEqual(host, store, func(s *State) string {
		v, _ := Lookup[string](s, "name")
		return v
	}, EqualComparable[string])
	if name != "Ada" {
		t.Fatalf("expected Ada, got %q", name)
	}
	if !gotEqual("x", "x") || gotEqual("x", "y") {
		t.Fatalf("expected typed equality to be forwarded")
	}
}

func TestEqualAny(t *testing.T) {
	if !EqualAny(nil, nil) || EqualAny(nil, 1) {
		t.Fatalf("unexpected nil handling")
	}
	if !EqualAny(1, 1) || EqualAny(1, int64(1)) {
		t.Fatalf("unexpected comparable handling")
	}
	if !EqualAny(map[string]int{"a": 1}, map[string]int{"a": 1}) {
		t.Fatalf("expected deep equality for maps")
	}
	type wrapper struct{ v any }
	if !EqualAny(wrapper{v: []int{1}}, wrapper{v: []int{1}}) {
		t.Fatalf("expected deep equality for structs holding slices")
	}
}
