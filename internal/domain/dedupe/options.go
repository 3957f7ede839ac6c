package dedupe

import "time"

// Option applies a configuration option to the in-flight deduper.
type Option func(*inFlight)

// WithMaxSize caps the number of tracked keys. When full, the oldest key is
// evicted. maxSize <= 0 means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *inFlight) {
		d.maxSize = maxSize
	}
}

// WithLease expires a recorded key after d so a job lost by a crashed
// worker can be queued again. Zero disables expiry.
func WithLease(d time.Duration) Option {
	return func(f *inFlight) {
		if d >= 0 {
			f.lease = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *inFlight) {
		if now != nil {
			d.now = now
		}
	}
}
