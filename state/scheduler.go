package state

import "sync"

// Scheduler decides where and when a listener callback runs.
// Stores and selections call Schedule once per notification; a nil
// Scheduler means the callback runs synchronously inside Set.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function into a Scheduler.
type SchedulerFunc func(func())

// Schedule dispatches fn using the wrapped function.
func (f SchedulerFunc) Schedule(fn func()) {
	if f == nil || fn == nil {
		return
	}
	f(fn)
}

// DirectScheduler runs callbacks immediately in the notifying goroutine.
var DirectScheduler Scheduler = SchedulerFunc(func(fn func()) {
	if fn != nil {
		fn()
	}
})

// AsyncScheduler runs each callback in its own goroutine. Callbacks lose
// registration order.
type AsyncScheduler struct{}

// Schedule dispatches fn asynchronously.
func (AsyncScheduler) Schedule(fn func()) {
	if fn != nil {
		go fn()
	}
}

// Queue collects callbacks until the owner flushes them, typically once per
// turn of an event loop. Callbacks run in the order they were scheduled.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Schedule enqueues fn.
func (q *Queue) Schedule(fn func()) {
	if q == nil || fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs the callbacks pending at the time of the call and returns how
// many ran. Callbacks scheduled while flushing wait for the next Flush.
func (q *Queue) Flush() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// Drain flushes until the queue stays empty or maxPasses flushes ran, and
// returns the total number of callbacks run. maxPasses <= 0 means one pass.
func (q *Queue) Drain(maxPasses int) int {
	maxPasses = max(1, maxPasses)
	total := 0
	for range maxPasses {
		n := q.Flush()
		total += n
		if n == 0 {
			break
		}
	}
	return total
}
