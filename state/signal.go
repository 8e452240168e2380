package state

import "sync"

// Subscribable emits change notifications.
type Subscribable interface {
	Subscribe(fn func()) func()
}

// Signal holds a value and notifies subscribers on change.
type Signal[T any] struct {
	mu    sync.Mutex
	value T
	subs  listenerSet
	equal EqualFunc[T]
}

// NewSignal creates a new signal with an initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// SetEqualFunc configures the equality check used to suppress redundant updates.
func (s *Signal[T]) SetEqualFunc(fn EqualFunc[T]) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	if s == nil {
		var zero T
		return zero
	}
	s.mu.Lock()
	value := s.value
	s.mu.Unlock()
	return value
}

// Set updates the value and notifies subscribers if it changed.
// Subscribers run in registration order after the lock is released.
func (s *Signal[T]) Set(value T) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, value) {
		s.mu.Unlock()
		return false
	}
	s.value = value
	subs := s.subs.snapshot()
	s.mu.Unlock()

	notify(subs)
	return true
}

// Update replaces the value using fn.
// fn runs outside the signal lock; Update is not atomic across goroutines.
func (s *Signal[T]) Update(fn func(T) T) bool {
	if s == nil || fn == nil {
		return false
	}
	current := s.Get()
	next := fn(current)
	return s.Set(next)
}

// Subscribe registers a listener for change notifications.
func (s *Signal[T]) Subscribe(fn func()) func() {
	return s.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously.
func (s *Signal[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if s == nil || fn == nil {
		return noop
	}
	s.mu.Lock()
	sub := s.subs.add(fn, scheduler, nil)
	s.mu.Unlock()
	return unsubscriber(&s.mu, &s.subs, sub, nil)
}

// store replaces the value without notifying subscribers.
func (s *Signal[T]) store(value T) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
}
