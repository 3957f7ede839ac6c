package model

import (
	"fmt"
	"time"
)

// RefreshKind selects which cached collection a job rebuilds.
type RefreshKind string

const (
	RefreshRankings  RefreshKind = "rankings"
	RefreshMatchups  RefreshKind = "matchups"
	RefreshChampions RefreshKind = "champions"
)

// RefreshJob asks a worker to pull one collection from upstream and write
// it into the cache.
type RefreshJob struct {
	Kind       RefreshKind
	Ranking    RankingKey
	Matchup    MatchupKey
	EnqueuedAt time.Time
}

// ID is the dedupe key: two jobs with the same ID rebuild the same entry.
func (j RefreshJob) ID() string {
	switch j.Kind {
	case RefreshRankings:
		return j.Ranking.String()
	case RefreshMatchups:
		return j.Matchup.String()
	case RefreshChampions:
		return "champions"
	}
	return fmt.Sprintf("unknown:%s", j.Kind)
}

// RankingJobs enumerates a rankings refresh for every position, elo and role.
func RankingJobs(now time.Time) []RefreshJob {
	jobs := make([]RefreshJob, 0, len(Positions)*len(Elos)*len(Roles))
	for _, p := range Positions {
		for _, e := range Elos {
			for _, r := range Roles {
				jobs = append(jobs, RefreshJob{
					Kind:       RefreshRankings,
					Ranking:    RankingKey{Position: p.Key, Elo: e, Role: r},
					EnqueuedAt: now,
				})
			}
		}
	}
	return jobs
}
