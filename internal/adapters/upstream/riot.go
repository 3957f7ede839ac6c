package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/okian/rift/internal/domain/model"
)

// Riot is the static data and summoner API client.
type Riot struct {
	c *client
}

// NewRiot creates a client rooted at a platform base URL such as
// https://na1.api.riotgames.com/lol. The key is sent as X-Riot-Token.
func NewRiot(baseURL string, opts ...Option) *Riot {
	auth := func(req *http.Request, key string) {
		req.Header.Set("X-Riot-Token", key)
	}
	return &Riot{c: newClient("riot", baseURL, auth, opts...)}
}

type championListWire struct {
	Data map[string]struct {
		ID    int64  `json:"id"`
		Key   string `json:"key"`
		Name  string `json:"name"`
		Title string `json:"title"`
	} `json:"data"`
}

// Champions returns the static champion roster keyed by display name.
func (r *Riot) Champions(ctx context.Context) (model.Champions, error) {
	q := url.Values{}
	q.Set("locale", "en_US")
	q.Set("dataById", "false")

	var wire championListWire
	if err := r.c.getJSON(ctx, "/static-data/v3/champions", q, &wire); err != nil {
		return nil, err
	}

	out := make(model.Champions, len(wire.Data))
	for _, ch := range wire.Data {
		out[ch.Name] = model.Champion{ID: ch.ID, Key: ch.Key, Name: ch.Name, Title: ch.Title}
	}
	return out, nil
}

type summonerWire struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"accountId"`
	Name      string `json:"name"`
}

// Summoner looks a player up by name. region is recorded on the result;
// the base URL already selects the platform.
func (r *Riot) Summoner(ctx context.Context, name, region string) (model.Summoner, error) {
	var wire summonerWire
	if err := r.c.getJSON(ctx, "/summoner/v3/summoners/by-name/"+url.PathEscape(name), nil, &wire); err != nil {
		return model.Summoner{}, err
	}
	return model.Summoner{
		Name:       wire.Name,
		Region:     region,
		AccountID:  wire.AccountID,
		SummonerID: wire.ID,
	}, nil
}
