package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/okian/rift/internal/adapters/repository"
	"github.com/okian/rift/internal/adapters/upstream"
	"github.com/okian/rift/internal/domain/aggregate"
	"github.com/okian/rift/internal/domain/linguistics"
	"github.com/okian/rift/internal/domain/model"
	"github.com/okian/rift/internal/domain/phrase"
	"github.com/okian/rift/internal/domain/ranking"
	"github.com/okian/rift/internal/domain/types"
	"github.com/okian/rift/pkg/logger"
	"github.com/okian/rift/pkg/metrics"
)

// ChampionPerformance summarises a summoner's recorded games on one
// champion: games played, average KDA and the roles they were played in.
func (s *Service) ChampionPerformance(ctx context.Context, q types.ChampionPerformance) (speech string, err error) { //nolint:gocritic // hugeParam: request values are decoded per call
	ctx, span := s.startSpan(ctx, "ChampionPerformance",
		attribute.String("summoner", q.Summoner),
		attribute.String("region", q.Region),
		attribute.String("champion", q.Champion),
	)
	defer func() { endSpan(span, err) }()

	store, err := s.performances()
	if err != nil {
		return "", err
	}
	region, err := model.ParseRegion(q.Region)
	if err != nil {
		return "", invalid("%s is not a region", q.Region)
	}
	filter := repository.Filter{Equals: map[string]any{}}
	var role model.Role
	if q.Role != "" {
		if role, err = model.ParseRole(q.Role); err != nil {
			return "", invalid("%s is not a role", q.Role)
		}
		filter.Equals["role"] = string(role)
	}
	champion, err := s.resolveChampion(ctx, q.Champion)
	if err != nil {
		return "", err
	}
	summoner, err := s.findSummoner(ctx, store, q.Summoner, region)
	if err != nil {
		return "", err
	}

	filter.SummonerID = summoner.ID
	filter.Equals["champion_id"] = champion.ID
	games, err := store.Find(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	span.SetAttributes(attribute.Int("games", len(games)))

	args := phrase.Args{"name": summoner.Name, "champion": champion.Name}
	if len(games) == 0 {
		return s.catalog.Render("summoners.champion_performance.none", args)
	}

	buckets, err := aggregate.Aggregate(games, func(model.Performance) int64 { return champion.ID },
		aggregate.MeanOf("kills", "kills"),
		aggregate.MeanOf("deaths", "deaths"),
		aggregate.MeanOf("assists", "assists"),
	)
	if err != nil {
		return "", err
	}
	b, _ := buckets.Get(champion.ID)
	args["kda"] = linguistics.Decimal(b.MustValue("kills")) + "/" +
		linguistics.Decimal(b.MustValue("deaths")) + "/" +
		linguistics.Decimal(b.MustValue("assists"))

	if role != "" {
		args["role"] = role.Spoken()
		args["games"] = s.english.Cardinal(len(games)) + " " + s.english.Pluralize("game", len(games))
		return s.catalog.Render("summoners.champion_performance.role", args)
	}

	roles, err := s.roleShares(games)
	if err != nil {
		return "", err
	}
	args["times"] = s.english.Times(len(games))
	args["roles"] = roles
	return s.catalog.Render("summoners.champion_performance.summary", args)
}

// roleShares lists the roles played, most played first. A single role is
// named alone; several carry their share of games.
func (s *Service) roleShares(games []model.Performance) (string, error) {
	keys, shares := aggregate.Share(games, func(p model.Performance) model.Role { return p.Role })
	if len(keys) == 1 {
		return keys[0].Spoken(), nil
	}

	entries := make([]ranking.Entry[model.Role, float64], len(keys))
	for i, k := range keys {
		entries[i] = ranking.Entry[model.Role, float64]{Key: k, Value: shares[k]}
	}
	res, err := ranking.Rank(entries, ranking.By(func(v float64) float64 { return v }),
		ranking.Window{Position: 1, Size: len(entries), Direction: ranking.Highest})
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(res.Selected))
	for _, e := range res.Selected {
		parts = append(parts, e.Key.Spoken()+" "+linguistics.Percent(e.Value))
	}
	return s.english.Conjunction(parts), nil
}

// SummonerChampionRanking ranks the champions a summoner has played by an
// aggregated per-game metric.
func (s *Service) SummonerChampionRanking(ctx context.Context, q types.SummonerChampionRanking) (speech string, err error) { //nolint:gocritic // hugeParam: request values are decoded per call
	ctx, span := s.startSpan(ctx, "SummonerChampionRanking",
		attribute.String("summoner", q.Summoner),
		attribute.String("region", q.Region),
		attribute.String("metric", q.Metric),
	)
	defer func() { endSpan(span, err) }()

	store, err := s.performances()
	if err != nil {
		return "", err
	}
	region, err := model.ParseRegion(q.Region)
	if err != nil {
		return "", invalid("%s is not a region", q.Region)
	}
	stat, err := model.LookupStat(model.PerformanceStats, q.Metric)
	if err != nil {
		return "", invalid("%s is not a summoner statistic", q.Metric)
	}
	filter := repository.Filter{}
	if q.Role != "" {
		role, err := model.ParseRole(q.Role)
		if err != nil {
			return "", invalid("%s is not a role", q.Role)
		}
		filter.Equals = map[string]any{"role": string(role)}
	}
	w, err := s.window(q.List)
	if err != nil {
		return "", err
	}
	summoner, err := s.findSummoner(ctx, store, q.Summoner, region)
	if err != nil {
		return "", err
	}

	filter.SummonerID = summoner.ID
	games, err := store.Find(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	metric := performanceMetric(stat)
	buckets, err := aggregate.Aggregate(games, func(p model.Performance) int64 { return p.ChampionID }, metric)
	if err != nil {
		return "", err
	}
	res, err := ranking.Rank(buckets.Entries(), aggregate.SortBy(metric), w)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	span.SetAttributes(attribute.Int("champions", buckets.Len()), attribute.Int("selected", len(res.Selected)))

	var names []string
	if len(res.Selected) > 0 {
		roster, err := s.champions(ctx)
		if err != nil {
			return "", err
		}
		names = make([]string, len(res.Selected))
		for i, id := range res.Keys() {
			names[i] = fmt.Sprintf("champion %d", id)
			if ch, ok := roster.ByID(id); ok {
				names[i] = ch.Name
			}
		}
	}

	return s.speakRanked("/summoners/champion_ranking", "summoners.champion_ranking", res.Summary(), w.Direction, names, phrase.Args{
		"name":   summoner.Name,
		"metric": stat.Spoken,
	})
}

// performanceMetric picks the reduction for a per-game statistic.
func performanceMetric(stat model.Stat) aggregate.Metric {
	switch stat.Key {
	case "kda":
		return aggregate.KDA()
	case "games":
		return aggregate.CountOf(stat.Key)
	}
	if stat.Rate {
		return aggregate.RateOf(stat.Key, stat.Key)
	}
	return aggregate.MeanOf(stat.Key, stat.Key)
}

// findSummoner looks the name up in the store, then fuzzily among the
// region's known names, then upstream. Upstream finds are saved.
func (s *Service) findSummoner(ctx context.Context, store repository.Store, name, region string) (model.Summoner, error) {
	unknown := &LookupError{Kind: ErrUnknownSummoner, Name: name, Region: region}

	sm, err := store.FindSummoner(ctx, name, region)
	if err == nil {
		metrics.RecordResolverLookup("summoners", "exact")
		return sm, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Summoner{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	known, err := store.SummonerNames(ctx, region)
	if err != nil {
		return model.Summoner{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if m, ok := s.resolver.Resolve(name, known); ok {
		metrics.RecordResolverLookup("summoners", "fuzzy")
		sm, err := store.FindSummoner(ctx, m.Key, region)
		if err != nil {
			return model.Summoner{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return sm, nil
	}

	if s.summoners == nil {
		metrics.RecordResolverLookup("summoners", "miss")
		return model.Summoner{}, unknown
	}
	sm, err = s.summoners.Summoner(ctx, name, region)
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		metrics.RecordResolverLookup("summoners", "miss")
		return model.Summoner{}, unknown
	case err != nil:
		return model.Summoner{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	metrics.RecordResolverLookup("summoners", "upstream")
	sm.Region = region
	if err := store.SaveSummoner(ctx, &sm); err != nil {
		s.logger.Warn(ctx, "saving summoner failed", logger.String("summoner", sm.Name), logger.Error(err))
	}
	return sm, nil
}
