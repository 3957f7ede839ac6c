// Package repository persists summoners, matches and per-game performances
// and answers field-equality queries over them.
package repository

import (
	"context"

	"github.com/okian/rift/internal/domain/model"
)

// Filter selects performances by exact column matches. Only whitelisted
// columns are accepted.
type Filter struct {
	SummonerID int64
	Equals     map[string]any
}

// Store provides read/write access to recorded games.
type Store interface {
	// Find returns the performances matching f, oldest match first.
	Find(ctx context.Context, f Filter) ([]model.Performance, error)

	// FindSummoner looks a summoner up by name (case-insensitive) and region.
	// Returns ErrNotFound if unknown.
	FindSummoner(ctx context.Context, name, region string) (model.Summoner, error)

	// SummonerNames lists the names known in a region, the fuzzy vocabulary
	// for summoner lookups.
	SummonerNames(ctx context.Context, region string) ([]string, error)

	// SaveSummoner inserts or updates s by (name, region) and sets s.ID.
	SaveSummoner(ctx context.Context, s *model.Summoner) error

	// SaveMatch stores a match with its teams and performances atomically.
	SaveMatch(ctx context.Context, m *model.Match) error

	Close() error
}
