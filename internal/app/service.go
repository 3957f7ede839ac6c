// Package service answers the webhook queries. It owns the collection
// cache, the performance store and the background refresh pipeline, and
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/rift/internal/adapters/cache"
	refreshqueue "github.com/okian/rift/internal/adapters/mq/queue"
	workerpool "github.com/okian/rift/internal/adapters/mq/worker"
	"github.com/okian/rift/internal/adapters/repository"
	"github.com/okian/rift/internal/adapters/scheduler"
	"github.com/okian/rift/internal/domain/dedupe"
	"github.com/okian/rift/internal/domain/linguistics"
	"github.com/okian/rift/internal/domain/model"
	"github.com/okian/rift/internal/domain/phrase"
	"github.com/okian/rift/internal/domain/resolver"
	"github.com/okian/rift/pkg/logger"
	"github.com/okian/rift/pkg/metrics"
)

const tracerName = "github.com/okian/rift/internal/app"

// SummonerLookup resolves players the store has never seen.
type SummonerLookup interface {
	Summoner(ctx context.Context, name, region string) (model.Summoner, error)
}

// Service implements the API dependencies for the voice assistant.
type Service struct {
	mu sync.RWMutex

	// Core components
	cache     *cache.Store
	store     repository.Store
	deduper   dedupe.Deduper
	queue     *refreshqueue.InMemoryQueue
	pool      *workerpool.Pool
	scheduler *scheduler.Scheduler
	loader    cache.Loader
	summoners SummonerLookup

	// Language
	catalog  *phrase.Catalog
	english  *linguistics.English
	resolver *resolver.Resolver

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	dedupeLease    time.Duration
	dbPath         string
	cacheTTL       time.Duration
	threshold      float64
	maxListSize    int
	refreshSpec    string
	location       *time.Location
	refreshOnStart bool

	// State
	started bool

	tracer trace.Tracer
	logger logger.Logger
}

// New constructs a Service. The cache is usable immediately; the store and
// the refresh pipeline come up on Start.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   4096,
		dedupeSize:  10000,
		dedupeLease: 15 * time.Minute,
		dbPath:      ":memory:",
		cacheTTL:    12 * time.Hour,
		threshold:   resolver.DefaultThreshold,
		maxListSize: 10,
		english:     linguistics.NewEnglish(),
		tracer:      otel.Tracer(tracerName),
		logger:      logger.Named("service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		c, err := phrase.Default()
		if err != nil {
			return nil, fmt.Errorf("load response catalog: %w", err)
		}
		s.catalog = c
	}
	s.resolver = resolver.New(resolver.WithThreshold(s.threshold))

	cacheOpts := []cache.Option{cache.WithTTL(s.cacheTTL)}
	if s.loader != nil {
		cacheOpts = append(cacheOpts, cache.WithLoader(s.loader))
	}
	s.cache = cache.New(cacheOpts...)
	return s, nil
}

// Cache exposes the collection cache so callers can seed it.
func (s *Service) Cache() *cache.Store { return s.cache }

// Start opens the store and starts the refresh pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.started {
		s.mu.Unlock()
		return nil
	}

	s.logger.Info(ctx, "starting rift service...")

	if s.store == nil {
		st, err := repository.Open(s.dbPath)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("open performance store: %w", err)
		}
		s.store = st
		s.logger.Info(ctx, "using sqlite store", logger.String("path", s.dbPath))
	}

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
		dedupe.WithLease(s.dedupeLease),
	)
	s.queue = refreshqueue.NewInMemoryQueue(
		refreshqueue.WithCapacity(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s,
		workerpool.WithReleaser(s.deduper),
		workerpool.WithLogger(s.logger.Named("worker")),
	)
	s.pool.Start(ctx)

	if s.refreshSpec != "" {
		s.scheduler = scheduler.New(s.location)
		err := s.scheduler.Schedule(s.refreshSpec, func() {
			if _, err := s.RefreshAll(context.Background()); err != nil {
				s.logger.Warn(context.Background(), "scheduled refresh incomplete", logger.Error(err))
			}
		})
		if err != nil {
			s.mu.Unlock()
			_ = s.pool.Shutdown(ctx)
			return err
		}
		s.scheduler.Start()
	}

	s.started = true
	s.logger.Info(ctx, "rift service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("refresh", s.refreshSpec),
	)
	s.mu.Unlock()

	if s.refreshOnStart {
		n, err := s.RefreshAll(ctx)
		if err != nil {
			s.logger.Warn(ctx, "initial refresh incomplete", logger.Int("queued", n), logger.Error(err))
		}
	}
	return nil
}

// Stop shuts the pipeline down and closes the store. The service is marked
// stopped before anything is waited on, so a scheduled refresh still
// running sees ErrNotStarted instead of blocking on the service lock.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	sched, pool, store := s.scheduler, s.pool, s.store
	s.started = false
	s.scheduler = nil
	s.store = nil
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping rift service...")

	if sched != nil {
		if err := sched.Stop(ctx); err != nil {
			s.logger.Warn(ctx, "scheduler did not stop cleanly", logger.Error(err))
		}
	}
	if pool != nil {
		if err := pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool did not stop cleanly", logger.Error(err))
		}
	}

	var err error
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			err = fmt.Errorf("close performance store: %w", cerr)
		}
	}

	s.logger.Info(ctx, "rift service stopped")
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"cacheEntries": s.cache.Len(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["jobsProcessed"] = s.pool.Processed()
		stats["jobsActive"] = s.pool.Active()
		stats["jobsInFlight"] = s.deduper.Size()
		if s.scheduler != nil {
			stats["nextRefresh"] = s.scheduler.Next().Format(time.RFC3339)
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateCacheEntries(s.cache.Len())
	}

	return stats
}

// performances returns the store, or ErrNotStarted before Start.
func (s *Service) performances() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
