// Package cache holds the precomputed champion collections the voice
// endpoints rank over.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/rift/internal/domain/model"
	"github.com/okian/rift/pkg/metrics"
)

const (
	defaultTTL         = 12 * time.Hour
	defaultLoadTimeout = 30 * time.Second
	championsKey       = "champions"
)

// Provider returns cached collections. found is false when no collection
// exists for the key; that is not an error.
type Provider interface {
	Rankings(ctx context.Context, key model.RankingKey) (model.Rankings, bool, error)
	Matchups(ctx context.Context, key model.MatchupKey) (model.Matchups, bool, error)
	Champions(ctx context.Context) (model.Champions, bool, error)
}

// Loader fetches collections on a miss. Return ErrNotFound when upstream
// has nothing for the key.
type Loader interface {
	Rankings(ctx context.Context, key model.RankingKey) (model.Rankings, error)
	Matchups(ctx context.Context, key model.MatchupKey) (model.Matchups, error)
	Champions(ctx context.Context) (model.Champions, error)
}

type entry struct {
	value   any
	expires time.Time
}

// Store is an in-memory TTL cache of collections with optional
// read-through loading.
// Thread-safety: all methods are safe for concurrent use. Concurrent misses
// on one key share a single load.
type Store struct {
	mu          sync.RWMutex
	entries     map[string]entry
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time
	loader      Loader
	sf          singleflight.Group
}

var _ Provider = (*Store)(nil)

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		entries:     make(map[string]entry),
		ttl:         defaultTTL,
		loadTimeout: defaultLoadTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rankings returns the standings for key.
func (s *Store) Rankings(ctx context.Context, key model.RankingKey) (model.Rankings, bool, error) {
	return lookup(ctx, s, "rankings", key.String(), func(ctx context.Context) (model.Rankings, error) {
		return s.loader.Rankings(ctx, key)
	})
}

// Matchups returns the matchups for key.
func (s *Store) Matchups(ctx context.Context, key model.MatchupKey) (model.Matchups, bool, error) {
	return lookup(ctx, s, "matchups", key.String(), func(ctx context.Context) (model.Matchups, error) {
		return s.loader.Matchups(ctx, key)
	})
}

// Champions returns the static champion roster.
func (s *Store) Champions(ctx context.Context) (model.Champions, bool, error) {
	return lookup(ctx, s, "champions", championsKey, func(ctx context.Context) (model.Champions, error) {
		return s.loader.Champions(ctx)
	})
}

// PutRankings stores standings for key.
func (s *Store) PutRankings(key model.RankingKey, r model.Rankings) { s.put(key.String(), r) }

// PutMatchups stores matchups for key.
func (s *Store) PutMatchups(key model.MatchupKey, m model.Matchups) { s.put(key.String(), m) }

// PutChampions stores the champion roster.
func (s *Store) PutChampions(c model.Champions) { s.put(championsKey, c) }

// Len returns the number of entries, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Purge drops expired entries and returns how many were removed.
func (s *Store) Purge() int {
	now := s.now()
	s.mu.Lock()
	removed := 0
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
			removed++
		}
	}
	n := len(s.entries)
	s.mu.Unlock()
	metrics.UpdateCacheEntries(n)
	return removed
}

func (s *Store) put(key string, v any) {
	s.mu.Lock()
	s.entries[key] = entry{value: v, expires: s.now().Add(s.ttl)}
	n := len(s.entries)
	s.mu.Unlock()
	metrics.UpdateCacheEntries(n)
}

func (s *Store) get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expires) {
		return nil, false
	}
	return e.value, true
}

func lookup[T any](ctx context.Context, s *Store, collection, key string, load func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	if v, ok := s.get(key); ok {
		_ = metrics.RecordCacheLookup(collection, metrics.CacheHit)
		return v.(T), true, nil
	}
	if s.loader == nil {
		_ = metrics.RecordCacheLookup(collection, metrics.CacheMiss)
		return zero, false, nil
	}

	// The shared load is detached from the first caller: one caller giving
	// up must not fail the others waiting on the same key.
	ch := s.sf.DoChan(key, func() (any, error) {
		// another caller may have filled the key while we waited
		if v, ok := s.get(key); ok {
			return v, nil
		}
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		loaded, err := load(lctx)
		if err != nil {
			return nil, err
		}
		s.put(key, loaded)
		return loaded, nil
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, false, fmt.Errorf("load %s: %w", key, ctx.Err())
	}
	v, err := res.Val, res.Err
	if errors.Is(err, ErrNotFound) {
		_ = metrics.RecordCacheLookup(collection, metrics.CacheMiss)
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("load %s: %w", key, err)
	}
	_ = metrics.RecordCacheLookup(collection, metrics.CacheLoaded)
	return v.(T), true, nil
}
