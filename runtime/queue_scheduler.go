package runtime

import (
	"sync/atomic"

	"github.com/odvcencio/furry-store/state"
)

// wake posts one message per quiet period: after a successful post, further
// signals are dropped until reset is called by the loop that handled it.
type wake struct {
	post    func(Message) bool
	msg     Message
	pending atomic.Bool
}

func (w *wake) signal() {
	if w.post == nil {
		return
	}
	if w.pending.CompareAndSwap(false, true) {
		if !w.post(w.msg) {
			w.pending.Store(false)
		}
	}
}

func (w *wake) reset() {
	w.pending.Store(false)
}

// QueueScheduler defers store and selection callbacks to the app loop.
// Callbacks land in a state.Queue and the loop is woken with a QueueFlushMsg;
// the app's flush policy decides when the queue runs.
type QueueScheduler struct {
	queue *state.Queue
	wake  wake
}

// NewQueueScheduler wires a queue to a post function.
func NewQueueScheduler(queue *state.Queue, post func(Message) bool) *QueueScheduler {
	if queue == nil {
		queue = state.NewQueue()
	}
	return &QueueScheduler{
		queue: queue,
		wake:  wake{post: post, msg: QueueFlushMsg{}},
	}
}

// Queue returns the queue callbacks are collected in.
func (s *QueueScheduler) Queue() *state.Queue {
	if s == nil {
		return nil
	}
	return s.queue
}

// Schedule enqueues the callback and wakes the app.
func (s *QueueScheduler) Schedule(fn func()) {
	if s == nil || s.queue == nil || fn == nil {
		return
	}
	s.queue.Schedule(fn)
	s.wake.signal()
}

func (s *QueueScheduler) resetPending() {
	if s == nil {
		return
	}
	s.wake.reset()
}
