// Package dedupe tracks refresh job keys that are queued or running so the
// same cache entry is never rebuilt twice concurrently.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Deduper records in-flight job keys.
type Deduper interface {
	// SeenAndRecord reports whether id is already in flight and records it
	// if not. The check and the record happen atomically.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord releases id once its job finished or could not be queued.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

type record struct {
	id       string
	recorded time.Time
}

// inFlight keeps keys in insertion order; the front of order is the oldest.
type inFlight struct {
	mu      sync.Mutex
	keys    map[string]*list.Element
	order   *list.List
	maxSize int
	lease   time.Duration
	now     func() time.Time
}

// NewInMemoryDeduper creates a deduper. Defaults: 10000 keys, 15 minute lease.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inFlight{
		maxSize: 10000,
		lease:   15 * time.Minute,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.keys = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inFlight) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.expire(now)

	if _, ok := d.keys[id]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		d.remove(d.order.Front())
	}
	d.keys[id] = d.order.PushBack(&record{id: id, recorded: now})
	return false
}

func (d *inFlight) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.keys[id]; ok {
		d.remove(el)
	}
}

func (d *inFlight) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}

// expire drops leased-out keys from the front. Caller holds d.mu.
func (d *inFlight) expire(now time.Time) {
	if d.lease <= 0 {
		return
	}
	for el := d.order.Front(); el != nil; el = d.order.Front() {
		if now.Sub(el.Value.(*record).recorded) < d.lease {
			return
		}
		d.remove(el)
	}
}

func (d *inFlight) remove(el *list.Element) {
	if el == nil {
		return
	}
	delete(d.keys, el.Value.(*record).id)
	d.order.Remove(el)
}
