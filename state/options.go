package state

import "github.com/odvcencio/furry-store/observability"

// Option configures a Store.
type Option func(*Store)

// WithName labels the store in observability events.
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// WithObserver sends store events to obs.
func WithObserver(obs observability.Observer) Option {
	return func(s *Store) {
		s.observer = obs
	}
}
