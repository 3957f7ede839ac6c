package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/okian/rift/internal/domain/linguistics"
	"github.com/okian/rift/internal/domain/model"
	"github.com/okian/rift/internal/domain/phrase"
	"github.com/okian/rift/internal/domain/ranking"
	"github.com/okian/rift/internal/domain/types"
)

// ChampionRanking names the champions with the highest or lowest value of
// a statistic in one role and elo.
func (s *Service) ChampionRanking(ctx context.Context, q types.ChampionRanking) (speech string, err error) { //nolint:gocritic // hugeParam: request values are decoded per call
	ctx, span := s.startSpan(ctx, "ChampionRanking",
		attribute.String("position", q.Position),
		attribute.String("role", q.Role),
		attribute.String("elo", q.Elo),
	)
	defer func() { endSpan(span, err) }()

	stat, err := model.LookupStat(model.Positions, q.Position)
	if err != nil {
		return "", invalid("%s is not a champion statistic", q.Position)
	}
	role, err := model.ParseRole(q.Role)
	if err != nil {
		return "", invalid("%s is not a role", q.Role)
	}
	elo, err := model.ParseElo(q.Elo)
	if err != nil {
		return "", invalid("%s is not an elo", q.Elo)
	}
	w, err := s.window(q.List)
	if err != nil {
		return "", err
	}

	key := model.RankingKey{Position: stat.Key, Elo: elo, Role: role}
	rankings, _, err := s.cache.Rankings(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, key, err)
	}

	entries := make([]ranking.Entry[string, model.Standing], len(rankings))
	for i, st := range rankings {
		entries[i] = ranking.Entry[string, model.Standing]{Key: st.Champion, Value: st}
	}
	res, err := ranking.Rank(entries, ranking.By(func(st model.Standing) float64 { return st.Value }), w)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, key, err)
	}
	span.SetAttributes(attribute.Int("selected", len(res.Selected)))

	return s.speakRanked("/champions/ranking", "champions.ranking", res.Summary(), w.Direction, res.Keys(), phrase.Args{
		"metric": stat.Spoken,
		"role":   role.Spoken(),
		"elo":    s.english.Humanize(string(elo)),
	})
}

// MatchupRanking names the opponents (or partners, for synergy) of one
// champion ordered by their value of a matchup statistic.
func (s *Service) MatchupRanking(ctx context.Context, q types.MatchupRanking) (speech string, err error) { //nolint:gocritic // hugeParam: request values are decoded per call
	ctx, span := s.startSpan(ctx, "MatchupRanking",
		attribute.String("name", q.Name),
		attribute.String("matchup_position", q.Position),
		attribute.String("elo", q.Elo),
	)
	defer func() { endSpan(span, err) }()

	stat, err := model.LookupStat(model.MatchupPositions, q.Position)
	if err != nil {
		return "", invalid("%s is not a matchup statistic", q.Position)
	}
	role1, role2, err := parseMatchupRoles(q.Role1, q.Role2)
	if err != nil {
		return "", err
	}
	elo, err := model.ParseElo(q.Elo)
	if err != nil {
		return "", invalid("%s is not an elo", q.Elo)
	}
	w, err := s.window(q.List)
	if err != nil {
		return "", err
	}
	champion, err := s.resolveChampion(ctx, q.Name)
	if err != nil {
		return "", err
	}

	mrole := model.DetermineMatchupRole(role1, role2)
	key := model.MatchupKey{Champion: champion.Name, Role: mrole, Elo: elo}
	matchups, _, err := s.cache.Matchups(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, key, err)
	}

	entries := make([]ranking.Entry[string, model.Matchup], 0, matchups.Len())
	for _, opponent := range matchups.Order {
		m := matchups.ByKey[opponent]
		if _, ok := m.Opponent.Stat(stat.Key); !ok {
			continue
		}
		entries = append(entries, ranking.Entry[string, model.Matchup]{Key: opponent, Value: m})
	}
	res, err := ranking.Rank(entries, ranking.By(func(m model.Matchup) float64 {
		v, _ := m.Opponent.Stat(stat.Key)
		return v
	}), w)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, key, err)
	}
	span.SetAttributes(attribute.Int("selected", len(res.Selected)))

	named, unnamed := matchupRoles(matchups, role1, role2, mrole)
	relation, namedRole := "against", ""
	if mrole == model.MatchupSynergy {
		relation = "with"
	}
	if (mrole == model.MatchupSynergy || mrole == model.MatchupADCSupport) && named != "" {
		namedRole = " " + named.Spoken()
	}
	unnamedRole := unnamed.Spoken()
	if unnamedRole == "" {
		unnamedRole = "any role"
	}

	return s.speakRanked("/champions/matchup_ranking", "champions.matchup_ranking", res.Summary(), w.Direction, res.Keys(), phrase.Args{
		"metric":       stat.Spoken,
		"name":         champion.Name,
		"relation":     relation,
		"named_role":   namedRole,
		"unnamed_role": unnamedRole,
		"elo":          s.english.Humanize(string(elo)),
	})
}

// Matchup compares two champions on one matchup statistic.
func (s *Service) Matchup(ctx context.Context, q types.Matchup) (speech string, err error) { //nolint:gocritic // hugeParam: request values are decoded per call
	ctx, span := s.startSpan(ctx, "Matchup",
		attribute.String("name1", q.Name1),
		attribute.String("name2", q.Name2),
		attribute.String("matchup_position", q.Position),
	)
	defer func() { endSpan(span, err) }()

	stat, err := model.LookupStat(model.MatchupPositions, q.Position)
	if err != nil {
		return "", invalid("%s is not a matchup statistic", q.Position)
	}
	role1, role2, err := parseMatchupRoles(q.Role1, q.Role2)
	if err != nil {
		return "", err
	}
	elo, err := model.ParseElo(q.Elo)
	if err != nil {
		return "", invalid("%s is not an elo", q.Elo)
	}
	first, err := s.resolveChampion(ctx, q.Name1)
	if err != nil {
		return "", err
	}
	second, err := s.resolveChampion(ctx, q.Name2)
	if err != nil {
		return "", err
	}

	mrole := model.DetermineMatchupRole(role1, role2)
	key := model.MatchupKey{Champion: first.Name, Role: mrole, Elo: elo}
	matchups, _, err := s.cache.Matchups(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, key, err)
	}

	notFound := func() (string, error) {
		return s.catalog.Render("champions.matchup.not_found", phrase.Args{
			"name1": first.Name,
			"name2": second.Name,
			"role":  mrole.Spoken(),
			"elo":   s.english.Humanize(string(elo)),
		})
	}
	m, ok := matchups.Get(second.Name)
	if !ok {
		return notFound()
	}
	side1, ok1 := m.Side(first.Name)
	side2, ok2 := m.Side(second.Name)
	if !ok1 || !ok2 {
		return notFound()
	}
	result1, ok1 := side1.Stat(stat.Key)
	result2, ok2 := side2.Stat(stat.Key)
	if !ok1 || !ok2 {
		return notFound()
	}

	template := "champions.matchup.duo_role"
	switch {
	case mrole == model.MatchupSynergy:
		template = "champions.matchup.synergy"
	case side1.Role == side2.Role:
		template = "champions.matchup.single_role"
	}
	variant := ".general"
	if stat.Rate {
		variant = ".winrate"
	}

	comparison := "lower"
	if result1 > result2 {
		comparison = "higher"
	}
	return s.catalog.Render(template+variant, phrase.Args{
		"name1":      first.Name,
		"name2":      second.Name,
		"result1":    statValue(stat, result1),
		"result2":    statValue(stat, result2),
		"metric":     stat.Spoken,
		"role1":      side1.Role.Spoken(),
		"role2":      side2.Role.Spoken(),
		"comparison": comparison,
		"elo":        s.english.Humanize(string(elo)),
	})
}

func parseMatchupRoles(r1, r2 string) (model.MatchupRole, model.MatchupRole, error) {
	role1, err := model.ParseMatchupRole(r1)
	if err != nil || role1 == "" {
		return "", "", invalid("%s is not a matchup role", r1)
	}
	role2, err := model.ParseMatchupRole(r2)
	if err != nil {
		return "", "", invalid("%s is not a matchup role", r2)
	}
	return role1, role2, nil
}

// matchupRoles returns the lanes of the named champion and of the ranked
// opponents. They come from the data when there is any and from the
// requested roles otherwise.
func matchupRoles(ms model.Matchups, role1, role2, mrole model.MatchupRole) (named, unnamed model.Role) {
	if ms.Len() > 0 {
		m := ms.ByKey[ms.Order[0]]
		return m.Named.Role, m.Opponent.Role
	}
	named = lane(role1)
	if named == "" {
		named = lane(role2)
	}
	unnamed = named
	if mrole == model.MatchupADCSupport {
		unnamed = lane(role2)
	}
	if mrole == model.MatchupSynergy {
		unnamed = ""
	}
	return named, unnamed
}

func lane(r model.MatchupRole) model.Role {
	role, err := model.ParseRole(string(r))
	if err != nil {
		return ""
	}
	return role
}

// statValue renders a matchup statistic; rates are percentages.
func statValue(stat model.Stat, v float64) string {
	if stat.Rate {
		return linguistics.Rounded(v*100) + "%"
	}
	return linguistics.Rounded(v)
}
