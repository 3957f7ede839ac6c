package model

import (
	"fmt"
	"sort"
	"strings"
)

// Standing is one champion's value for a ranking statistic.
type Standing struct {
	Champion string  `json:"champion"`
	Value    float64 `json:"value"`
	// Rank is the upstream rank (1 is best) when supplied.
	Rank int `json:"rank,omitempty"`
	// Previous is the upstream rank on the previous patch, 0 when unknown.
	Previous int `json:"previous,omitempty"`
}

// Rankings is the cached collection for one RankingKey.
type Rankings []Standing

// RankingKey addresses a champion ranking collection.
type RankingKey struct {
	Position string `json:"position"`
	Elo      Elo    `json:"elo"`
	Role     Role   `json:"role"`
}

func (k RankingKey) String() string {
	return fmt.Sprintf("rankings:%s:%s:%s", k.Position, k.Elo, k.Role)
}

// MatchupSide is one champion's statistics within a matchup.
type MatchupSide struct {
	Champion string             `json:"champion"`
	Role     Role               `json:"role"`
	Stats    map[string]float64 `json:"stats"`
}

// Stat returns the named statistic.
func (s MatchupSide) Stat(key string) (float64, bool) {
	v, ok := s.Stats[key]
	return v, ok
}

// Matchup pairs the named champion with one opponent or partner.
type Matchup struct {
	Named    MatchupSide `json:"named"`
	Opponent MatchupSide `json:"opponent"`
	Games    int         `json:"games"`
}

// Side returns the side played by champion.
func (m Matchup) Side(champion string) (MatchupSide, bool) {
	switch {
	case strings.EqualFold(m.Named.Champion, champion):
		return m.Named, true
	case strings.EqualFold(m.Opponent.Champion, champion):
		return m.Opponent, true
	}
	return MatchupSide{}, false
}

// Matchups is the cached collection for one MatchupKey, keyed by the
// opponent's champion name, in upstream order.
type Matchups struct {
	Order []string           `json:"order"`
	ByKey map[string]Matchup `json:"by_key"`
}

// NewMatchups builds a collection preserving the order of ms.
func NewMatchups(ms ...Matchup) Matchups {
	out := Matchups{ByKey: make(map[string]Matchup, len(ms))}
	for _, m := range ms {
		name := m.Opponent.Champion
		if _, dup := out.ByKey[name]; !dup {
			out.Order = append(out.Order, name)
		}
		out.ByKey[name] = m
	}
	return out
}

// Len is the number of opponents.
func (m Matchups) Len() int { return len(m.Order) }

// Get returns the matchup against opponent.
func (m Matchups) Get(opponent string) (Matchup, bool) {
	x, ok := m.ByKey[opponent]
	return x, ok
}

// MatchupKey addresses the matchups of one champion in one role and elo.
type MatchupKey struct {
	Champion string      `json:"champion"`
	Role     MatchupRole `json:"role"`
	Elo      Elo         `json:"elo"`
}

func (k MatchupKey) String() string {
	return fmt.Sprintf("matchups:%s:%s:%s", k.Champion, k.Role, k.Elo)
}

// Champion is static champion data.
type Champion struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Champions is the static roster, keyed by display name.
type Champions map[string]Champion

// Names returns the roster vocabulary, sorted.
func (c Champions) Names() []string {
	out := make([]string, 0, len(c))
	for n := range c {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ByID finds a champion by numeric id.
func (c Champions) ByID(id int64) (Champion, bool) {
	for _, ch := range c {
		if ch.ID == id {
			return ch, true
		}
	}
	return Champion{}, false
}
