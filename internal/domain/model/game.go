// Package model contains the game vocabulary and the collections passed
// between the cache, the repository and the ranking core.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue is returned by the Parse* helpers.
var ErrUnknownValue = errors.New("unknown value")

// Elo is a ranked division filter.
type Elo string

const (
	Bronze       Elo = "BRONZE"
	Silver       Elo = "SILVER"
	Gold         Elo = "GOLD"
	Platinum     Elo = "PLATINUM"
	PlatinumPlus Elo = "PLATINUM_PLUS"
)

// Elos lists every division in ascending order.
var Elos = []Elo{Bronze, Silver, Gold, Platinum, PlatinumPlus}

// ParseElo accepts any casing; empty means PlatinumPlus, the upstream default.
func ParseElo(s string) (Elo, error) {
	s = normalizeIdent(s)
	if s == "" {
		return PlatinumPlus, nil
	}
	for _, e := range Elos {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: elo %q", ErrUnknownValue, s)
}

// Query is the upstream query value; PlatinumPlus is sent as empty.
func (e Elo) Query() string {
	if e == PlatinumPlus {
		return ""
	}
	return string(e)
}

// Role is the lane a champion was played in.
type Role string

const (
	Top        Role = "TOP"
	Middle     Role = "MIDDLE"
	Jungle     Role = "JUNGLE"
	DuoCarry   Role = "DUO_CARRY"
	DuoSupport Role = "DUO_SUPPORT"
)

// Roles lists every lane role.
var Roles = []Role{Top, Middle, Jungle, DuoCarry, DuoSupport}

var roleNames = map[Role]string{
	Top:        "Top",
	Middle:     "Middle",
	Jungle:     "Jungle",
	DuoCarry:   "Adc",
	DuoSupport: "Support",
}

var roleAliases = map[string]Role{
	"MID":     Middle,
	"ADC":     DuoCarry,
	"CARRY":   DuoCarry,
	"BOT":     DuoCarry,
	"SUPPORT": DuoSupport,
	"SUPP":    DuoSupport,
}

// ParseRole accepts canonical names and the common spoken aliases.
func ParseRole(s string) (Role, error) {
	s = normalizeIdent(s)
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	if r, ok := roleAliases[s]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: role %q", ErrUnknownValue, s)
}

// Spoken returns the name used in responses ("Adc" for DUO_CARRY).
func (r Role) Spoken() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return string(r)
}

// MatchupRole identifies who a champion is compared with or against.
type MatchupRole string

const (
	MatchupTop        MatchupRole = "TOP"
	MatchupJungle     MatchupRole = "JUNGLE"
	MatchupMiddle     MatchupRole = "MIDDLE"
	MatchupSynergy    MatchupRole = "SYNERGY"
	MatchupADCSupport MatchupRole = "ADCSUPPORT"
	MatchupDuoCarry   MatchupRole = "DUO_CARRY"
	MatchupDuoSupport MatchupRole = "DUO_SUPPORT"
)

// MatchupRoles lists every matchup role.
var MatchupRoles = []MatchupRole{
	MatchupTop, MatchupJungle, MatchupMiddle, MatchupSynergy,
	MatchupADCSupport, MatchupDuoCarry, MatchupDuoSupport,
}

// ParseMatchupRole accepts matchup roles and lane role aliases. Empty input
// yields "" with no error so callers can treat the second role as optional.
func ParseMatchupRole(s string) (MatchupRole, error) {
	n := normalizeIdent(s)
	if n == "" {
		return "", nil
	}
	for _, r := range MatchupRoles {
		if string(r) == n {
			return r, nil
		}
	}
	if r, ok := roleAliases[n]; ok {
		return MatchupRole(r), nil
	}
	return "", fmt.Errorf("%w: matchup role %q", ErrUnknownValue, s)
}

// Spoken returns the name used in responses.
func (r MatchupRole) Spoken() string {
	switch r {
	case MatchupSynergy:
		return "Synergy"
	case MatchupADCSupport:
		return "Adc and Support"
	}
	return Role(r).Spoken()
}

// DetermineMatchupRole collapses the one or two roles a caller named into
// the single role matchup data is keyed by. Synergy wins when either side
// names it; a carry paired with a support becomes ADCSUPPORT; otherwise the
// first role is used.
func DetermineMatchupRole(role1, role2 MatchupRole) MatchupRole {
	switch {
	case role1 == MatchupSynergy || role2 == MatchupSynergy:
		return MatchupSynergy
	case role1 == MatchupDuoCarry && role2 == MatchupDuoSupport,
		role1 == MatchupDuoSupport && role2 == MatchupDuoCarry:
		return MatchupADCSupport
	default:
		return role1
	}
}

// Stat describes one rankable champion statistic.
type Stat struct {
	Key    string
	Spoken string
	// Rate stats are fractions rendered as percentages.
	Rate bool
}

// Positions are the champion ranking statistics refreshed into the cache.
var Positions = []Stat{
	{Key: "kills", Spoken: "kills"},
	{Key: "deaths", Spoken: "deaths"},
	{Key: "assists", Spoken: "assists"},
	{Key: "winRates", Spoken: "win rate", Rate: true},
	{Key: "playRates", Spoken: "play rate", Rate: true},
	{Key: "banRates", Spoken: "ban rate", Rate: true},
	{Key: "minionsKilled", Spoken: "minions killed"},
	{Key: "damageDealt", Spoken: "damage dealt"},
	{Key: "goldEarned", Spoken: "gold earned"},
	{Key: "overallPerformanceScore", Spoken: "overall performance score"},
	{Key: "totalHeal", Spoken: "total healing"},
	{Key: "killingSprees", Spoken: "killing sprees"},
	{Key: "totalDamageTaken", Spoken: "damage taken"},
	{Key: "averageGamesScore", Spoken: "average games score"},
}

// MatchupPositions are the statistics carried by each side of a matchup.
var MatchupPositions = []Stat{
	{Key: "kills", Spoken: "kills"},
	{Key: "deaths", Spoken: "deaths"},
	{Key: "assists", Spoken: "assists"},
	{Key: "winrate", Spoken: "win rate", Rate: true},
	{Key: "goldEarned", Spoken: "gold earned"},
	{Key: "minionsKilled", Spoken: "minions killed"},
	{Key: "killingSprees", Spoken: "killing sprees"},
	{Key: "totalDamageDealtToChampions", Spoken: "damage dealt to champions"},
	{Key: "weighedScore", Spoken: "weighed score"},
}

// LookupStat finds a stat by key, ignoring case.
func LookupStat(stats []Stat, key string) (Stat, error) {
	for _, s := range stats {
		if strings.EqualFold(s.Key, strings.TrimSpace(key)) {
			return s, nil
		}
	}
	return Stat{}, fmt.Errorf("%w: statistic %q", ErrUnknownValue, key)
}

// Regions served by the summoner endpoints.
var Regions = []string{"BR1", "EUN1", "EUW1", "JP1", "KR", "LA1", "LA2", "NA1", "OC1", "TR1", "RU"}

// ParseRegion upper-cases and validates a platform region.
func ParseRegion(s string) (string, error) {
	n := normalizeIdent(s)
	for _, r := range Regions {
		if r == n {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: region %q", ErrUnknownValue, s)
}

func normalizeIdent(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
