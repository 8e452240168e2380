package state

import (
	"encoding/json"
	"reflect"
	"sort"
)

// Values maps string keys to arbitrary values. Initializers return Values and
// partial updates are expressed as Values.
type Values map[string]any

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// State is an immutable snapshot of store data.
// A store replaces its State on every update; a *State obtained earlier keeps
// its values forever.
type State struct {
	values  Values
	version uint64
}

// NewState creates a state holding a copy of values.
func NewState(values Values) *State {
	return &State{values: values.clone()}
}

// Get returns the value stored under key.
func (s *State) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Value returns the value stored under key, or nil.
func (s *State) Value(key string) any {
	v, _ := s.Get(key)
	return v
}

// Has reports whether key is present.
func (s *State) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Len returns the number of keys.
func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Keys returns the keys in sorted order.
func (s *State) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns a copy of the underlying mapping.
func (s *State) Values() Values {
	if s == nil {
		return Values{}
	}
	return s.values.clone()
}

// Version counts the replacements that led to this state. The initial state
// of a store is version 0.
func (s *State) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Merge returns a new state with partial's keys overwriting s's keys.
// Keys absent from partial keep their current values. s is left untouched.
func (s *State) Merge(partial Values) *State {
	var base Values
	var version uint64
	if s != nil {
		base = s.values
		version = s.version + 1
	}
	values := make(Values, len(base)+len(partial))
	for k, v := range base {
		values[k] = v
	}
	for k, v := range partial {
		values[k] = v
	}
	return &State{values: values, version: version}
}

// FuncPlaceholder stands in for function values when a state is encoded.
const FuncPlaceholder = "<func>"

// MarshalJSON encodes the state as a JSON object. Top-level function values,
// such as actions stored by an initializer, encode as FuncPlaceholder.
func (s *State) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	values := s.values
	copied := false
	for k, v := range s.values {
		if v == nil || reflect.TypeOf(v).Kind() != reflect.Func {
			continue
		}
		if !copied {
			values = s.values.clone()
			copied = true
		}
		values[k] = FuncPlaceholder
	}
	return json.Marshal(values)
}

// Lookup returns the value under key converted to T.
// ok is false when the key is missing or holds a different type.
func Lookup[T any](s *State, key string) (T, bool) {
	v, ok := s.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}
