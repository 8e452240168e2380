package state

// Readable exposes read-only reactive state.
type Readable[T any] interface {
	Get() T
	Subscribe(fn func()) func()
	SubscribeWithScheduler(scheduler Scheduler, fn func()) func()
}

// Writable exposes read/write reactive state.
type Writable[T any] interface {
	Readable[T]
	Set(value T) bool
	Update(fn func(T) T) bool
}

// Source is an external store as seen by a subscribe-with-selector host:
// a change feed plus a getter returning the live snapshot.
type Source interface {
	Subscribe(fn func()) func()
	GetSnapshot() *State
}

// SourceFuncs adapts a subscribe function and a snapshot getter into a Source.
type SourceFuncs struct {
	SubscribeFunc SubscribeFunc
	SnapshotFunc  func() *State
}

// Subscribe calls SubscribeFunc.
func (f SourceFuncs) Subscribe(fn func()) func() {
	if f.SubscribeFunc == nil || fn == nil {
		return noop
	}
	unsub := f.SubscribeFunc(fn)
	if unsub == nil {
		return noop
	}
	return unsub
}

// GetSnapshot calls SnapshotFunc.
func (f SourceFuncs) GetSnapshot() *State {
	if f.SnapshotFunc == nil {
		return nil
	}
	return f.SnapshotFunc()
}

var (
	_ Readable[*State] = (*Store)(nil)
	_ Source           = (*Store)(nil)
	_ Writable[int]    = (*Signal[int])(nil)
	_ Readable[int]    = (*Selection[int])(nil)
	_ Source           = SourceFuncs{}
)
