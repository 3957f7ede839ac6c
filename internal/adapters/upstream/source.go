package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/okian/rift/internal/adapters/cache"
	"github.com/okian/rift/internal/domain/model"
)

// Source joins the statistics and static data APIs into the collections
// the cache stores. It implements cache.Loader.
// Thread-safety: safe for concurrent use.
type Source struct {
	gg   *ChampionGG
	riot *Riot

	mu     sync.RWMutex
	roster model.Champions
}

var _ cache.Loader = (*Source)(nil)

// NewSource creates a Source over both clients.
func NewSource(gg *ChampionGG, riot *Riot) *Source {
	return &Source{gg: gg, riot: riot}
}

// notFound maps an upstream 404 onto the cache's miss sentinel.
func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", cache.ErrNotFound, err)
	}
	return err
}

// Champions fetches the roster and remembers it for id-to-name mapping.
func (s *Source) Champions(ctx context.Context) (model.Champions, error) {
	c, err := s.riot.Champions(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	s.mu.Lock()
	s.roster = c
	s.mu.Unlock()
	return c, nil
}

func (s *Source) championRoster(ctx context.Context) (model.Champions, error) {
	s.mu.RLock()
	c := s.roster
	s.mu.RUnlock()
	if c != nil {
		return c, nil
	}
	return s.Champions(ctx)
}

// Rankings builds the standings of one statistic for a role and elo, in
// upstream order.
func (s *Source) Rankings(ctx context.Context, key model.RankingKey) (model.Rankings, error) {
	var (
		roster model.Champions
		stats  []ChampionStat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.championRoster(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.gg.ChampionStats(gctx, key.Elo, key.Role)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, notFound(err)
	}

	out := make(model.Rankings, 0, len(stats))
	for _, st := range stats {
		v, ok := st.Stats[key.Position]
		if !ok {
			continue
		}
		ch, ok := roster.ByID(st.ChampionID)
		if !ok {
			continue
		}
		out = append(out, model.Standing{
			Champion: ch.Name,
			Value:    v,
			Rank:     st.Positions[key.Position],
			Previous: st.Positions[previousKey(key.Position)],
		})
	}
	return out, nil
}

// previousKey names the previous patch rank of position, as in
// "previousOverallPerformanceScore".
func previousKey(position string) string {
	if position == "" {
		return ""
	}
	return "previous" + strings.ToUpper(position[:1]) + position[1:]
}

// Matchups builds the pairings of key.Champion, each oriented so Named is
// that champion.
func (s *Source) Matchups(ctx context.Context, key model.MatchupKey) (model.Matchups, error) {
	roster, err := s.championRoster(ctx)
	if err != nil {
		return model.Matchups{}, notFound(err)
	}
	named, ok := roster[key.Champion]
	if !ok {
		return model.Matchups{}, fmt.Errorf("%w: champion %q", cache.ErrNotFound, key.Champion)
	}

	rows, err := s.gg.Matchups(ctx, named.ID, key.Role, key.Elo)
	if err != nil {
		return model.Matchups{}, notFound(err)
	}

	ms := make([]model.Matchup, 0, len(rows))
	for _, r := range rows {
		mine, theirs, otherID := r.Champ1, r.Champ2, r.Champ2ID
		if r.Champ2ID == named.ID {
			mine, theirs, otherID = r.Champ2, r.Champ1, r.Champ1ID
		}
		other, ok := roster.ByID(otherID)
		if !ok {
			continue
		}
		ms = append(ms, model.Matchup{
			Named:    model.MatchupSide{Champion: named.Name, Role: sideRole(mine.Role, key.Role), Stats: mine.Stats},
			Opponent: model.MatchupSide{Champion: other.Name, Role: sideRole(theirs.Role, key.Role), Stats: theirs.Stats},
			Games:    r.Count,
		})
	}
	return model.NewMatchups(ms...), nil
}

// sideRole prefers the role upstream reported for a side; lane matchups
// fall back to the matchup role itself.
func sideRole(reported string, role model.MatchupRole) model.Role {
	if r, err := model.ParseRole(reported); err == nil {
		return r
	}
	if r, err := model.ParseRole(string(role)); err == nil {
		return r
	}
	return ""
}

// Summoner resolves a player by name through the Riot API.
func (s *Source) Summoner(ctx context.Context, name, region string) (model.Summoner, error) {
	return s.riot.Summoner(ctx, name, region)
}

// Warm fetches the roster and probes the statistics API concurrently.
func (s *Source) Warm(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.Champions(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.gg.ChampionStats(gctx, model.PlatinumPlus, model.Top)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("warm upstream: %w", err)
	}
	return nil
}
