package state

import "reflect"

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

// EqualAny compares with == when the dynamic type is comparable and falls back
// to reflect.DeepEqual for maps, slices and funcs.
func EqualAny(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// EqualState reports whether two snapshots are the same reference.
func EqualState(a, b *State) bool {
	return a == b
}

func equalOf[T any](fn EqualFunc[T]) EqualFunc[T] {
	if fn != nil {
		return fn
	}
	return func(a, b T) bool {
		return EqualAny(a, b)
	}
}
