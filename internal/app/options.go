package service

import (
	"time"

	"github.com/okian/rift/internal/adapters/cache"
	"github.com/okian/rift/internal/adapters/repository"
	"github.com/okian/rift/internal/domain/phrase"
	"github.com/okian/rift/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of refresh workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued refresh jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupe bounds the in-flight job tracker and sets its lease.
func WithDedupe(size int, lease time.Duration) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
		if lease > 0 {
			s.dedupeLease = lease
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatabasePath selects the SQLite file opened on Start.
func WithDatabasePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithStore injects an already open performance store; Start will not open
// one and Stop will close it.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithLoader sets where refresh jobs and cache misses fetch collections.
// Without a loader the cache only serves what was put into it.
func WithLoader(l cache.Loader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// WithSummonerLookup resolves summoners missing from the store.
func WithSummonerLookup(l SummonerLookup) Option {
	return func(s *Service) {
		s.summoners = l
	}
}

// WithCacheTTL sets how long collections stay fresh.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithCatalog replaces the embedded response catalog.
func WithCatalog(c *phrase.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithResolverThreshold sets the minimum fuzzy similarity for names.
func WithResolverThreshold(t float64) Option {
	return func(s *Service) {
		s.threshold = t
	}
}

// WithMaxListSize caps list_size on ranking queries.
func WithMaxListSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxListSize = n
		}
	}
}

// WithRefreshSchedule enqueues a full refresh on spec, evaluated in loc.
// onStart also enqueues one at Start.
func WithRefreshSchedule(spec string, loc *time.Location, onStart bool) Option {
	return func(s *Service) {
		s.refreshSpec = spec
		s.location = loc
		s.refreshOnStart = onStart
	}
}
