package state

import "sync"

// Selection keeps a selected value in sync with a source.
// It re-reads the snapshot on every source notification, skips the selector
// when the snapshot reference did not change, and notifies its own
// subscribers only when the selected value is not equal to the previous one.
type Selection[T any] struct {
	signal    *Signal[T]
	source    Source
	mu        sync.Mutex
	selector  func(*State) T
	snapshot  *State
	unsub     func()
	scheduler Scheduler
}

// NewSelection selects from src. A nil equal uses EqualAny.
func NewSelection[T any](src Source, selector func(*State) T, equal EqualFunc[T]) *Selection[T] {
	return NewSelectionWithScheduler(nil, src, selector, equal)
}

// NewSelectionWithScheduler selects from src and schedules recomputes.
func NewSelectionWithScheduler[T any](scheduler Scheduler, src Source, selector func(*State) T, equal EqualFunc[T]) *Selection[T] {
	if selector == nil {
		selector = func(*State) T {
			var zero T
			return zero
		}
	}
	sel := &Selection[T]{
		source:    src,
		selector:  selector,
		scheduler: scheduler,
	}
	var initial T
	if src != nil {
		sel.snapshot = src.GetSnapshot()
		initial = selector(sel.snapshot)
	}
	sel.signal = NewSignal(initial)
	sel.signal.SetEqualFunc(equalOf(equal))
	if src != nil {
		sel.unsub = src.Subscribe(sel.enqueueRecompute)
	}
	return sel
}

// SetEqualFunc configures the equality check used to suppress notifications.
func (s *Selection[T]) SetEqualFunc(fn EqualFunc[T]) {
	if s == nil {
		return
	}
	s.signal.SetEqualFunc(equalOf(fn))
}

// Get returns the current selected value.
func (s *Selection[T]) Get() T {
	if s == nil {
		var zero T
		return zero
	}
	return s.signal.Get()
}

// Snapshot returns the snapshot the current value was selected from.
func (s *Selection[T]) Snapshot() *State {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Read installs selector, applies it to the latest snapshot and returns the
// result. It does not notify subscribers: the caller is the one reading.
func (s *Selection[T]) Read(selector func(*State) T) T {
	if s == nil {
		var zero T
		return zero
	}
	s.mu.Lock()
	if selector != nil {
		s.selector = selector
	}
	selector = s.selector
	if s.source != nil {
		s.snapshot = s.source.GetSnapshot()
	}
	snap := s.snapshot
	s.mu.Unlock()

	value := selector(snap)
	s.signal.store(value)
	return value
}

// Subscribe registers a listener for selected value changes.
func (s *Selection[T]) Subscribe(fn func()) func() {
	if s == nil {
		return noop
	}
	return s.signal.Subscribe(fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously.
func (s *Selection[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if s == nil {
		return noop
	}
	return s.signal.SubscribeWithScheduler(scheduler, fn)
}

// Stop unsubscribes from the source.
func (s *Selection[T]) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (s *Selection[T]) recompute() {
	if s == nil || s.source == nil {
		return
	}
	s.mu.Lock()
	snap := s.source.GetSnapshot()
	if snap == s.snapshot {
		s.mu.Unlock()
		return
	}
	s.snapshot = snap
	selector := s.selector
	s.mu.Unlock()

	s.signal.Set(selector(snap))
}

func (s *Selection[T]) enqueueRecompute() {
	if s == nil {
		return
	}
	if s.scheduler == nil {
		s.recompute()
		return
	}
	s.scheduler.Schedule(s.recompute)
}
