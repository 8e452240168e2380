package state

import "errors"

var (
	// ErrNotInitialized is returned by Set when it runs before the store's
	// initializer has returned.
	ErrNotInitialized = errors.New("state: store used before initializer returned")

	// ErrUpdate wraps errors returned from a TryFunc.
	ErrUpdate = errors.New("state: update failed")
)
