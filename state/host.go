package state

// SubscribeFunc registers a change callback and returns its unsubscribe.
type SubscribeFunc func(onStoreChange func()) func()

// Selector derives a value from a snapshot.
type Selector func(s *State) any

// Host is the rendering side of a subscribe-with-selector integration.
//
// A host subscribes to the source, reads the live snapshot through
// getSnapshot, applies selector and uses equal to decide whether the
// selected value changed enough to re-render its caller. It returns the
// selector applied to the latest snapshot.
type Host interface {
	UseSyncExternalStoreWithSelector(subscribe SubscribeFunc, getSnapshot func() *State, selector Selector, equal EqualFunc[any]) any
}

// HostFunc adapts a function into a Host.
type HostFunc func(subscribe SubscribeFunc, getSnapshot func() *State, selector Selector, equal EqualFunc[any]) any

// UseSyncExternalStoreWithSelector calls f.
func (f HostFunc) UseSyncExternalStoreWithSelector(subscribe SubscribeFunc, getSnapshot func() *State, selector Selector, equal EqualFunc[any]) any {
	return f(subscribe, getSnapshot, selector, equal)
}

// DirectHost reads the current snapshot without subscribing.
// It serves callers that are not rendering, such as tests and CLIs.
type DirectHost struct{}

// UseSyncExternalStoreWithSelector returns selector(getSnapshot()).
func (DirectHost) UseSyncExternalStoreWithSelector(subscribe SubscribeFunc, getSnapshot func() *State, selector Selector, equal EqualFunc[any]) any {
	if getSnapshot == nil || selector == nil {
		return nil
	}
	return selector(getSnapshot())
}

// Hook reads a store through a host: hook(selector) returns the selector
// applied to the current state and keeps the host subscribed.
type Hook func(selector Selector) any

// Hook binds the store to host. A nil host reads directly.
func (s *Store) Hook(host Host) Hook {
	return func(selector Selector) any {
		return useSource(host, s, selector, EqualAny)
	}
}

// Use calls hook with a typed selector.
func Use[T any](hook Hook, selector func(*State) T) T {
	var zero T
	if hook == nil || selector == nil {
		return zero
	}
	v := hook(func(s *State) any { return selector(s) })
	out, ok := v.(T)
	if !ok {
		return zero
	}
	return out
}

// UseWithEqual reads src through host with a typed selector and equality.
func UseWithEqual[T any](host Host, src Source, selector func(*State) T, equal EqualFunc[T]) T {
	var zero T
	if src == nil || selector == nil {
		return zero
	}
	eq := equalOf(equal)
	v := useSource(host, src, func(s *State) any { return selector(s) }, func(a, b any) bool {
		ta, okA := a.(T)
		tb, okB := b.(T)
		if !okA || !okB {
			return EqualAny(a, b)
		}
		return eq(ta, tb)
	})
	out, ok := v.(T)
	if !ok {
		return zero
	}
	return out
}

func useSource(host Host, src Source, selector Selector, equal EqualFunc[any]) any {
	if host == nil {
		host = DirectHost{}
	}
	return host.UseSyncExternalStoreWithSelector(src.Subscribe, src.GetSnapshot, selector, equal)
}
