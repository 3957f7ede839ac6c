package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okian/rift/internal/domain/model"
)

// ChampionStat is one champion's aggregate line for one role and elo.
type ChampionStat struct {
	ChampionID int64
	Role       model.Role
	// Stats holds every numeric field, keyed like model.Positions.
	Stats map[string]float64
	// Positions is the upstream rank (1 is best) per statistic.
	Positions map[string]int
}

// MatchupSide is one participant of a MatchupRow.
type MatchupSide struct {
	Role  string
	Stats map[string]float64
}

// MatchupRow is one champion pairing.
type MatchupRow struct {
	Champ1ID int64
	Champ2ID int64
	Role     model.MatchupRole
	Count    int
	Champ1   MatchupSide
	Champ2   MatchupSide
}

// ChampionGG is the champion statistics API client.
type ChampionGG struct {
	c *client
}

// NewChampionGG creates a client rooted at baseURL. The API key travels as
// the api_key query parameter.
func NewChampionGG(baseURL string, opts ...Option) *ChampionGG {
	auth := func(req *http.Request, key string) {
		q := req.URL.Query()
		q.Set("api_key", key)
		req.URL.RawQuery = q.Encode()
	}
	return &ChampionGG{c: newClient("championgg", baseURL, auth, opts...)}
}

// ChampionStats returns the aggregate lines of every champion in role for elo.
func (g *ChampionGG) ChampionStats(ctx context.Context, elo model.Elo, role model.Role) ([]ChampionStat, error) {
	q := url.Values{}
	q.Set("limit", "500")
	q.Set("champData", "kda,damage,minions,positions,totalHeal,killingSpree")
	if v := elo.Query(); v != "" {
		q.Set("elo", v)
	}

	var rows []map[string]json.RawMessage
	if err := g.c.getJSON(ctx, "/champions", q, &rows); err != nil {
		return nil, err
	}

	out := make([]ChampionStat, 0, len(rows))
	for _, row := range rows {
		var (
			id        int64
			r         string
			positions map[string]int
		)
		if err := json.Unmarshal(row["championId"], &id); err != nil {
			return nil, fmt.Errorf("%w: championId: %v", ErrDecode, err)
		}
		_ = json.Unmarshal(row["role"], &r)
		if raw, ok := row["positions"]; ok {
			if err := json.Unmarshal(raw, &positions); err != nil {
				return nil, fmt.Errorf("%w: positions: %v", ErrDecode, err)
			}
		}
		if model.Role(r) != role {
			continue
		}
		out = append(out, ChampionStat{
			ChampionID: id,
			Role:       model.Role(r),
			Stats:      numbers(row),
			Positions:  positions,
		})
	}
	return out, nil
}

type matchupWire struct {
	ID struct {
		Champ1ID int64  `json:"champ1_id"`
		Champ2ID int64  `json:"champ2_id"`
		Role     string `json:"role"`
	} `json:"_id"`
	Count  int                        `json:"count"`
	Champ1 map[string]json.RawMessage `json:"champ1"`
	Champ2 map[string]json.RawMessage `json:"champ2"`
}

func side(obj map[string]json.RawMessage) MatchupSide {
	var r string
	_ = json.Unmarshal(obj["role"], &r)
	return MatchupSide{Role: r, Stats: numbers(obj)}
}

// Matchups returns every pairing of championID in role for elo.
func (g *ChampionGG) Matchups(ctx context.Context, championID int64, role model.MatchupRole, elo model.Elo) ([]MatchupRow, error) {
	q := url.Values{}
	q.Set("limit", "500")
	if v := elo.Query(); v != "" {
		q.Set("elo", v)
	}

	var wire []matchupWire
	path := fmt.Sprintf("/champions/%d/%s/matchups", championID, role)
	if err := g.c.getJSON(ctx, path, q, &wire); err != nil {
		return nil, err
	}

	out := make([]MatchupRow, 0, len(wire))
	for _, w := range wire {
		out = append(out, MatchupRow{
			Champ1ID: w.ID.Champ1ID,
			Champ2ID: w.ID.Champ2ID,
			Role:     model.MatchupRole(w.ID.Role),
			Count:    w.Count,
			Champ1:   side(w.Champ1),
			Champ2:   side(w.Champ2),
		})
	}
	return out, nil
}
