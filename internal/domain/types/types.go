// Package types contains the webhook parameter shapes shared by the HTTP
// layer and the service.
package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidParameters marks a request whose parameters are missing or not
// understood.
var ErrInvalidParameters = errors.New("invalid parameters")

// List carries the pagination parameters of ranking requests. Unset values
// mean the defaults: first position, one entry, highest first.
type List struct {
	ListSize     ListNumber `json:"list_size" validate:"omitempty,min=0"`
	ListPosition ListNumber `json:"list_position" validate:"omitempty,min=1"`
	ListOrder    string     `json:"list_order"`
}

// ListNumber is a list parameter. Assistants send it as a number, a
// numeric string or a blank string; blank and null leave it unset.
type ListNumber struct {
	Value int
	Set   bool
}

// ListNumberOf returns a set ListNumber.
func ListNumberOf(n int) ListNumber { return ListNumber{Value: n, Set: true} }

// UnmarshalJSON implements json.Unmarshaler.
func (n *ListNumber) UnmarshalJSON(b []byte) error {
	*n = ListNumber{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// "5.0" from number-typed slots
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return fmt.Errorf("list number %s: %w", b, ErrInvalidParameters)
		}
		v = int(f)
	}
	*n = ListNumberOf(v)
	return nil
}

// MarshalJSON implements json.Marshaler; unset values encode as null.
func (n ListNumber) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(n.Value)), nil
}

// ChampionRanking asks for champions ordered by a statistic in a role.
type ChampionRanking struct {
	Position string `json:"position" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Elo      string `json:"elo"`
	List
}

// MatchupRanking asks for the opponents or partners of a champion ordered
// by a matchup statistic.
type MatchupRanking struct {
	Name     string `json:"name" validate:"required"`
	Role1    string `json:"role1" validate:"required"`
	Role2    string `json:"role2"`
	Position string `json:"matchup_position" validate:"required"`
	Elo      string `json:"elo"`
	List
}

// Matchup compares two champions on one matchup statistic.
type Matchup struct {
	Name1    string `json:"name1" validate:"required"`
	Name2    string `json:"name2" validate:"required"`
	Role1    string `json:"role1" validate:"required"`
	Role2    string `json:"role2"`
	Position string `json:"matchup_position" validate:"required"`
	Elo      string `json:"elo"`
}

// RolePerformanceSummary asks how a champion performs in one role. A blank
// role means the only role the champion has data for.
type RolePerformanceSummary struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role"`
	Elo  string `json:"elo"`
}

// ChampionPerformance asks how a summoner has done on one champion.
type ChampionPerformance struct {
	Summoner string `json:"summoner" validate:"required"`
	Region   string `json:"region" validate:"required"`
	Champion string `json:"champion" validate:"required"`
	Role     string `json:"role"`
}

// SummonerChampionRanking asks for a summoner's champions ordered by an
// aggregated per-game metric.
type SummonerChampionRanking struct {
	Summoner string `json:"summoner" validate:"required"`
	Region   string `json:"region" validate:"required"`
	Metric   string `json:"metric" validate:"required"`
	Role     string `json:"role"`
	List
}

// Speech is the webhook response body.
type Speech struct {
	Speech string `json:"speech"`
}
