package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/rift/internal/domain/model"
	"github.com/okian/rift/pkg/logger"
	"github.com/okian/rift/pkg/metrics"
)

// Refresh pulls the collection named by job from the loader and writes it
// into the cache. Workers call it for every dequeued job.
func (s *Service) Refresh(ctx context.Context, job model.RefreshJob) error { //nolint:gocritic // hugeParam: job mirrors the queue's value semantics
	if s.loader == nil {
		return fmt.Errorf("%w: no collection loader configured", ErrUnavailable)
	}

	switch job.Kind {
	case model.RefreshRankings:
		r, err := s.loader.Rankings(ctx, job.Ranking)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", job.ID(), err)
		}
		s.cache.PutRankings(job.Ranking, r)
	case model.RefreshMatchups:
		m, err := s.loader.Matchups(ctx, job.Matchup)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", job.ID(), err)
		}
		s.cache.PutMatchups(job.Matchup, m)
	case model.RefreshChampions:
		c, err := s.loader.Champions(ctx)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", job.ID(), err)
		}
		s.cache.PutChampions(c)
	default:
		return fmt.Errorf("%w: refresh kind %q", ErrInvalidParameters, job.Kind)
	}
	metrics.UpdateCacheEntries(s.cache.Len())
	return nil
}

// Enqueue submits one refresh job. A job whose key is already in flight is
// skipped and reported as accepted.
func (s *Service) Enqueue(ctx context.Context, job model.RefreshJob) (bool, error) { //nolint:gocritic // hugeParam: job mirrors the queue's value semantics
	s.mu.RLock()
	started, d, q := s.started, s.deduper, s.queue
	s.mu.RUnlock()
	if !started {
		return false, ErrNotStarted
	}

	id := job.ID()
	if d.SeenAndRecord(ctx, id) {
		metrics.RecordRefreshJob(string(job.Kind), metrics.JobDuplicate)
		s.logger.Debug(ctx, "refresh already in flight", logger.String("job", id))
		return false, nil
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}
	if err := q.Enqueue(ctx, job); err != nil {
		d.Unrecord(ctx, id)
		metrics.RecordRefreshJob(string(job.Kind), metrics.JobDropped)
		return false, fmt.Errorf("enqueue %s: %w", id, err)
	}
	return true, nil
}

// RefreshAll enqueues the champion roster and every rankings collection.
// It returns how many jobs were newly queued and stops at the first job
// the queue refuses.
func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	now := time.Now()
	jobs := append([]model.RefreshJob{{Kind: model.RefreshChampions, EnqueuedAt: now}}, model.RankingJobs(now)...)

	queued := 0
	for _, job := range jobs {
		ok, err := s.Enqueue(ctx, job)
		if err != nil {
			return queued, err
		}
		if ok {
			queued++
		}
	}
	s.logger.Info(ctx, "refresh enqueued", logger.Int("queued", queued), logger.Int("jobs", len(jobs)))
	return queued, nil
}

// Size returns the number of refresh keys in flight.
func (s *Service) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

func isUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrNotStarted)
}
