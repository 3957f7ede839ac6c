package cache

import "time"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithTTL sets how long a put or loaded collection stays fresh.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLoader enables read-through: misses are filled from l.
func WithLoader(l Loader) Option {
	return func(s *Store) {
		s.loader = l
	}
}

// WithLoadTimeout bounds one read-through load, independent of the
// callers waiting on it.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}
