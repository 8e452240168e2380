package state

import "sync"

// Subscriptions collects unsubscribe callbacks so an owner can release all of
// them at once, typically when a component unmounts.
type Subscriptions struct {
	mu     sync.Mutex
	unsubs []func()
	sched  Scheduler
}

// NewSubscriptions creates a Subscriptions with a default scheduler.
func NewSubscriptions(scheduler Scheduler) *Subscriptions {
	return &Subscriptions{sched: scheduler}
}

// SetScheduler updates the default scheduler.
func (s *Subscriptions) SetScheduler(scheduler Scheduler) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
}

// Scheduler returns the default scheduler.
func (s *Subscriptions) Scheduler() Scheduler {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched
}

// Add tracks an unsubscribe callback.
func (s *Subscriptions) Add(unsub func()) {
	if s == nil || unsub == nil {
		return
	}
	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsub)
	s.mu.Unlock()
}

// Len returns the number of tracked callbacks.
func (s *Subscriptions) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unsubs)
}

// Subscribe registers a synchronous listener and tracks the unsubscribe.
func (s *Subscriptions) Subscribe(sub Subscribable, fn func()) {
	s.SubscribeWithScheduler(sub, nil, fn)
}

// Observe registers a listener using the default scheduler.
func (s *Subscriptions) Observe(sub Subscribable, fn func()) {
	if s == nil {
		return
	}
	s.SubscribeWithScheduler(sub, s.Scheduler(), fn)
}

// SubscribeWithScheduler registers a listener using scheduler and tracks it.
// Sources without scheduler support get a synchronous subscription.
func (s *Subscriptions) SubscribeWithScheduler(sub Subscribable, scheduler Scheduler, fn func()) {
	if s == nil || sub == nil || fn == nil {
		return
	}
	if scheduler != nil {
		if sched, ok := sub.(interface {
			SubscribeWithScheduler(Scheduler, func()) func()
		}); ok {
			s.Add(sched.SubscribeWithScheduler(scheduler, fn))
			return
		}
	}
	s.Add(sub.Subscribe(fn))
}

// Listen registers l on store and tracks the unsubscribe.
func (s *Subscriptions) Listen(store *Store, l Listener) {
	if s == nil || store == nil || l == nil {
		return
	}
	s.Add(store.SubscribeListener(l))
}

// Clear unsubscribes all tracked callbacks in reverse registration order.
func (s *Subscriptions) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	for i := len(unsubs) - 1; i >= 0; i-- {
		unsubs[i]()
	}
}
