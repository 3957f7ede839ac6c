package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/okian/rift/internal/domain/linguistics"
	"github.com/okian/rift/internal/domain/model"
	"github.com/okian/rift/internal/domain/phrase"
	"github.com/okian/rift/internal/domain/ranking"
	"github.com/okian/rift/internal/domain/types"
	"github.com/okian/rift/pkg/metrics"
)

const overallPerformance = "overallPerformanceScore"

// summaryStats are spoken after the overall position, in this order.
var summaryStats = []string{"winRates", "banRates", "kills", "deaths", "assists"}

// RolePerformanceSummary places a champion among every champion of its role
// by overall performance score and adds its win rate, ban rate and KDA when
// they are cached. Without a role the only role the champion has data for
// is used.
func (s *Service) RolePerformanceSummary(ctx context.Context, q types.RolePerformanceSummary) (speech string, err error) {
	ctx, span := s.startSpan(ctx, "RolePerformanceSummary",
		attribute.String("name", q.Name),
		attribute.String("role", q.Role),
		attribute.String("elo", q.Elo),
	)
	defer func() { endSpan(span, err) }()

	roles := model.Roles
	if strings.TrimSpace(q.Role) != "" {
		role, err := model.ParseRole(q.Role)
		if err != nil {
			return "", invalid("%s is not a role", q.Role)
		}
		roles = []model.Role{role}
	}
	elo, err := model.ParseElo(q.Elo)
	if err != nil {
		return "", invalid("%s is not an elo", q.Elo)
	}
	champion, err := s.resolveChampion(ctx, q.Name)
	if err != nil {
		return "", err
	}

	keys := make([]model.RankingKey, len(roles))
	for i, role := range roles {
		keys[i] = model.RankingKey{Position: overallPerformance, Elo: elo, Role: role}
	}
	overall, err := s.standings(ctx, keys)
	if err != nil {
		return "", err
	}

	args := phrase.Args{"name": champion.Name, "elo": s.english.Humanize(string(elo))}
	var played []int
	for i := range roles {
		if _, ok := standingOf(overall[i], champion.Name); ok {
			played = append(played, i)
		}
	}
	switch len(played) {
	case 0:
		args["role"] = "any role"
		if len(roles) == 1 {
			args["role"] = roles[0].Spoken()
		}
		return s.catalog.Render("champions.role_performance_summary.no_data", args)
	case 1:
	default:
		spoken := make([]string, len(played))
		for j, i := range played {
			spoken[j] = roles[i].Spoken()
		}
		args["roles"] = s.english.Conjunction(spoken)
		return s.catalog.Render("champions.role_performance_summary.ambiguous", args)
	}

	role, rankings := roles[played[0]], overall[played[0]]
	span.SetAttributes(attribute.String("resolved_role", string(role)))
	args["role"] = role.Spoken()

	entries := make([]ranking.Entry[string, model.Standing], len(rankings))
	for i, st := range rankings {
		entries[i] = ranking.Entry[string, model.Standing]{Key: st.Champion, Value: st}
	}
	res, err := ranking.Rank(entries, ranking.By(func(st model.Standing) float64 { return st.Value }),
		ranking.Window{Position: 1, Size: len(entries), Direction: ranking.Highest})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, keys[played[0]], err)
	}
	sum := res.Summary()
	metrics.RecordRankRequest("/champions/role_performance_summary", ranking.Highest.String(), sum.Selected)

	position := slices.Index(res.Keys(), champion.Name) + 1
	if position == 0 {
		return s.catalog.Render("champions.role_performance_summary.no_data", args)
	}
	current, _ := standingOf(rankings, champion.Name)
	args["position"] = s.english.Ordinal(position)
	args["total"] = s.english.Cardinal(sum.Available) + " " + s.english.Pluralize("champion", sum.Available)
	args["change"] = s.positionChange(position, current.Previous)

	statKeys := make([]model.RankingKey, len(summaryStats))
	for i, stat := range summaryStats {
		statKeys[i] = model.RankingKey{Position: stat, Elo: elo, Role: role}
	}
	stats, err := s.standings(ctx, statKeys)
	if err != nil {
		return "", err
	}
	values := make([]float64, len(stats))
	for i, r := range stats {
		st, ok := standingOf(r, champion.Name)
		if !ok {
			return s.catalog.Render("champions.role_performance_summary.ranked_only", args)
		}
		values[i] = st.Value
	}
	rate := model.Stat{Rate: true}
	args["win_rate"] = statValue(rate, values[0])
	args["ban_rate"] = statValue(rate, values[1])
	args["kda"] = linguistics.Rounded(values[2]) + "/" + linguistics.Rounded(values[3]) + "/" + linguistics.Rounded(values[4])
	return s.catalog.Render("champions.role_performance_summary.summary", args)
}

// standings reads the rankings of every key concurrently, in key order.
func (s *Service) standings(ctx context.Context, keys []model.RankingKey) ([]model.Rankings, error) {
	out := make([]model.Rankings, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			r, _, err := s.cache.Rankings(gctx, key)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrUnavailable, key, err)
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// positionChange compares a position with the previous patch rank; an
// unknown previous rank says nothing.
func (s *Service) positionChange(position, previous int) string {
	switch {
	case previous == 0:
		return ""
	case previous > position:
		return ", up from " + s.english.Ordinal(previous) + " last patch"
	case previous < position:
		return ", down from " + s.english.Ordinal(previous) + " last patch"
	}
	return ", unchanged from last patch"
}

func standingOf(r model.Rankings, champion string) (model.Standing, bool) {
	for _, st := range r {
		if st.Champion == champion {
			return st, true
		}
	}
	return model.Standing{}, false
}
