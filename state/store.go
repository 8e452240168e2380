// Package state provides an observable state store and the reactive
// primitives hosts build on to read it.
//
// A store is created once from an initializer. The initializer receives the
// store's setter and returns the initial values:
//
//	counter := state.Create(func(set state.SetFunc) state.Values {
//		return state.Values{"count": 0}
//	})
//
//	counter.Set(state.Func(func(s *state.State) state.Values {
//		n, _ := state.Lookup[int](s, "count")
//		return state.Values{"count": n + 1}
//	}))
//
// Every Set replaces the current *State with a shallow merge and then calls
// the registered listeners in registration order. Snapshots are never
// modified, so hosts detect changes by reference.
package state

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/furry-store/observability"
)

const (
	EventCreate       observability.EventType = "store.create"
	EventSet          observability.EventType = "store.set"
	EventUpdateFailed observability.EventType = "store.update.failed"
	EventSubscribe    observability.EventType = "store.subscribe"
	EventUnsubscribe  observability.EventType = "store.unsubscribe"
)

// SetFunc applies an update to a store.
type SetFunc func(u Update) error

// Initializer builds the initial values of a store. It runs once, during
// Create, and usually captures set in closures stored alongside the data.
// Calling set before the initializer returns fails with ErrNotInitialized.
type Initializer func(set SetFunc) Values

// Store owns one current State and the listeners notified when it changes.
type Store struct {
	id       ulid.ULID
	name     string
	observer observability.Observer

	mu      sync.Mutex
	current *State
	subs    listenerSet
}

// Create builds a new independent store. init runs synchronously before
// Create returns; a panic in init propagates and no store is produced.
// A nil init yields an empty state.
func Create(init Initializer, opts ...Option) *Store {
	s := &Store{id: ulid.Make()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.name == "" {
		s.name = "store"
	}

	var values Values
	if init != nil {
		values = init(s.Set)
	}
	initial := NewState(values)

	s.mu.Lock()
	s.current = initial
	s.mu.Unlock()

	if s.observer != nil {
		s.emit(EventCreate, observability.LevelVerbose, map[string]any{
			"keys": initial.Keys(),
		})
	}
	return s
}

// ID returns the store's unique identifier.
func (s *Store) ID() string {
	if s == nil {
		return ""
	}
	return s.id.String()
}

// Name returns the store's label.
func (s *Store) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// GetSnapshot returns the live current state. No copy is made.
func (s *Store) GetSnapshot() *State {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	return current
}

// Get returns the current state.
func (s *Store) Get() *State {
	return s.GetSnapshot()
}

// Set merges the partial mapping produced by u into the current state,
// installs the result and notifies every listener in registration order.
//
// The partial is computed outside the store lock. If another goroutine
// replaced the state in the meantime, u is evaluated again against the newer
// state, so Func and TryFunc may run more than once under contention.
// A nil u, Func or TryFunc merges nothing but still replaces and notifies.
func (s *Store) Set(u Update) error {
	if s == nil {
		return ErrNotInitialized
	}
	for {
		base := s.GetSnapshot()
		if base == nil {
			return ErrNotInitialized
		}
		partial, err := resolve(u, base)
		if err != nil {
			if s.observer != nil {
				s.emit(EventUpdateFailed, observability.LevelWarning, map[string]any{
					"version": base.Version(),
					"error":   err.Error(),
				})
			}
			return fmt.Errorf("%w: %w", ErrUpdate, err)
		}
		next := base.Merge(partial)

		s.mu.Lock()
		if s.current != base {
			s.mu.Unlock()
			continue
		}
		s.current = next
		subs := s.subs.snapshot()
		s.mu.Unlock()

		if s.observer != nil {
			s.emit(EventSet, observability.LevelVerbose, map[string]any{
				"version":   next.Version(),
				"keys":      partialKeys(partial),
				"listeners": len(subs),
			})
		}
		notify(subs)
		return nil
	}
}

// Subscribe registers fn to run after every update.
// The returned function removes the registration; calling it again is a no-op.
func (s *Store) Subscribe(fn func()) func() {
	return s.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers fn and hands each notification to
// scheduler. A nil scheduler runs fn synchronously inside Set.
func (s *Store) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if s == nil || fn == nil {
		return noop
	}
	return s.subscribe(fn, scheduler, nil)
}

// SubscribeListener registers l. Registering the same comparable listener
// twice keeps a single registration.
func (s *Store) SubscribeListener(l Listener) func() {
	if s == nil || l == nil {
		return noop
	}
	return s.subscribe(l.OnStoreChange, nil, listenerKey(l))
}

// ListenerCount returns the number of registered listeners.
func (s *Store) ListenerCount() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.len()
}

func (s *Store) subscribe(fn func(), scheduler Scheduler, key any) func() {
	s.mu.Lock()
	sub := s.subs.add(fn, scheduler, key)
	count := s.subs.len()
	s.mu.Unlock()

	if s.observer != nil {
		s.emit(EventSubscribe, observability.LevelVerbose, map[string]any{
			"listeners": count,
		})
	}
	return unsubscriber(&s.mu, &s.subs, sub, s.unsubscribed)
}

func (s *Store) unsubscribed() {
	if s.observer == nil {
		return
	}
	s.emit(EventUnsubscribe, observability.LevelVerbose, map[string]any{
		"listeners": s.ListenerCount(),
	})
}

func (s *Store) emit(typ observability.EventType, level observability.Level, data map[string]any) {
	data["store_id"] = s.id.String()
	observability.Emit(context.Background(), s.observer, typ, level, s.name, data)
}

func partialKeys(partial Values) []string {
	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
