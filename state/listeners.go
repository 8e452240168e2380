package state

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Listener receives change notifications.
// Comparable implementations, such as pointers, are registered at most once
// per source; registering the same value again is a no-op.
type Listener interface {
	OnStoreChange()
}

// ListenerFunc adapts a function into a Listener.
// Func values are not comparable, so each registration is distinct.
type ListenerFunc func()

// OnStoreChange calls f.
func (f ListenerFunc) OnStoreChange() {
	if f != nil {
		f()
	}
}

type subscriber struct {
	fn        func()
	scheduler Scheduler
	key       any
	active    atomic.Bool
}

// dispatch runs or schedules the callback unless the subscriber was removed.
func (s *subscriber) dispatch() {
	if !s.active.Load() {
		return
	}
	if s.scheduler == nil {
		s.fn()
		return
	}
	s.scheduler.Schedule(s.run)
}

func (s *subscriber) run() {
	if s.active.Load() {
		s.fn()
	}
}

// listenerSet keeps subscribers in registration order.
// The owner guards it with its own mutex.
type listenerSet struct {
	subs []*subscriber
}

func (l *listenerSet) add(fn func(), scheduler Scheduler, key any) *subscriber {
	if key != nil {
		for _, sub := range l.subs {
			if sub.key == key {
				return sub
			}
		}
	}
	sub := &subscriber{fn: fn, scheduler: scheduler, key: key}
	sub.active.Store(true)
	l.subs = append(l.subs, sub)
	return sub
}

func (l *listenerSet) remove(sub *subscriber) bool {
	sub.active.Store(false)
	for i, s := range l.subs {
		if s != sub {
			continue
		}
		copy(l.subs[i:], l.subs[i+1:])
		l.subs[len(l.subs)-1] = nil
		l.subs = l.subs[:len(l.subs)-1]
		return true
	}
	return false
}

func (l *listenerSet) len() int {
	return len(l.subs)
}

func (l *listenerSet) snapshot() []*subscriber {
	if len(l.subs) == 0 {
		return nil
	}
	subs := make([]*subscriber, len(l.subs))
	copy(subs, l.subs)
	return subs
}

func notify(subs []*subscriber) {
	for _, sub := range subs {
		sub.dispatch()
	}
}

// unsubscriber returns an idempotent function removing sub from set.
// after runs once, following a successful removal.
func unsubscriber(mu *sync.Mutex, set *listenerSet, sub *subscriber, after func()) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			removed := set.remove(sub)
			mu.Unlock()
			if removed && after != nil {
				after()
			}
		})
	}
}

// listenerKey returns the identity used to deduplicate l, or nil when l has
// no usable identity.
func listenerKey(l Listener) any {
	if l == nil {
		return nil
	}
	if !reflect.ValueOf(l).Comparable() {
		return nil
	}
	return l
}

func noop() {}
