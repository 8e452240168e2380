package state

// Update is a state change passed to Store.Set.
// It is one of Partial, Func or TryFunc.
type Update interface {
	partial(current *State) (Values, error)
}

// Partial merges its keys into the current state.
type Partial Values

func (p Partial) partial(*State) (Values, error) {
	return Values(p), nil
}

// Func derives the partial mapping from the current state.
type Func func(current *State) Values

func (f Func) partial(current *State) (Values, error) {
	if f == nil {
		return nil, nil
	}
	return f(current), nil
}

// TryFunc derives the partial mapping from the current state and may fail.
// A returned error aborts the update.
type TryFunc func(current *State) (Values, error)

func (f TryFunc) partial(current *State) (Values, error) {
	if f == nil {
		return nil, nil
	}
	return f(current)
}

func resolve(u Update, current *State) (Values, error) {
	if u == nil {
		return nil, nil
	}
	return u.partial(current)
}
