package service_test

import (
	"context"
	"testing"

	"github.com/okian/rift/internal/adapters/repository"
	service "github.com/okian/rift/internal/app"
	"github.com/okian/rift/internal/domain/model"
	"github.com/okian/rift/internal/domain/phrase"
	"github.com/okian/rift/internal/domain/types"
)

var roster = model.Champions{
	"Bard":   {ID: 432, Key: "Bard", Name: "Bard"},
	"Darius": {ID: 122, Key: "Darius", Name: "Darius"},
	"Janna":  {ID: 40, Key: "Janna", Name: "Janna"},
	"Jhin":   {ID: 202, Key: "Jhin", Name: "Jhin"},
	"Jinx":   {ID: 222, Key: "Jinx", Name: "Jinx"},
	"Quinn":  {ID: 133, Key: "Quinn", Name: "Quinn"},
	"Rengar": {ID: 107, Key: "Rengar", Name: "Rengar"},
	"Sivir":  {ID: 15, Key: "Sivir", Name: "Sivir"},
	"Taric":  {ID: 44, Key: "Taric", Name: "Taric"},
	"Thresh": {ID: 412, Key: "Thresh", Name: "Thresh"},
	"Yasuo":  {ID: 157, Key: "Yasuo", Name: "Yasuo"},
}

var silverTopDeaths = model.RankingKey{Position: "deaths", Elo: model.Silver, Role: model.Top}

func side(champion string, role model.Role, stats map[string]float64) model.MatchupSide {
	return model.MatchupSide{Champion: champion, Role: role, Stats: stats}
}

// newService returns a started service over an in-memory store with the
// fixture collections cached.
func newService(t *testing.T, opts ...service.Option) (*service.Service, *repository.SQLiteStore) {
	t.Helper()
	store, err := repository.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	catalog, err := phrase.Default(phrase.WithPicker(phrase.First))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	base := []service.Option{
		service.WithStore(store),
		service.WithCatalog(catalog),
		service.WithWorkerCount(1),
	}
	svc, err := service.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })

	c := svc.Cache()
	c.PutChampions(roster)
	c.PutRankings(silverTopDeaths, model.Rankings{
		{Champion: "Rengar", Value: 7.1},
		{Champion: "Yasuo", Value: 6.9},
		{Champion: "Quinn", Value: 6.5},
		{Champion: "Darius", Value: 6.0},
	})
	c.PutMatchups(model.MatchupKey{Champion: "Jhin", Role: model.MatchupADCSupport, Elo: model.Gold}, model.NewMatchups(
		model.Matchup{Named: side("Jhin", model.DuoCarry, nil), Opponent: side("Thresh", model.DuoSupport, map[string]float64{"winrate": 0.51}), Games: 900},
		model.Matchup{Named: side("Jhin", model.DuoCarry, nil), Opponent: side("Taric", model.DuoSupport, map[string]float64{"winrate": 0.55}), Games: 120},
		model.Matchup{Named: side("Jhin", model.DuoCarry, nil), Opponent: side("Janna", model.DuoSupport, map[string]float64{"winrate": 0.53}), Games: 400},
	))
	c.PutMatchups(model.MatchupKey{Champion: "Jinx", Role: model.MatchupSynergy, Elo: model.Gold}, model.NewMatchups(
		model.Matchup{Named: side("Jinx", model.DuoCarry, nil), Opponent: side("Janna", model.DuoSupport, map[string]float64{"kills": 1.2}), Games: 300},
		model.Matchup{Named: side("Jinx", model.DuoCarry, nil), Opponent: side("Bard", model.DuoSupport, map[string]float64{"kills": 3.29}), Games: 200},
		model.Matchup{Named: side("Jinx", model.DuoCarry, nil), Opponent: side("Thresh", model.DuoSupport, map[string]float64{}), Games: 50},
	))
	c.PutMatchups(model.MatchupKey{Champion: "Bard", Role: model.MatchupSynergy, Elo: model.Gold}, model.NewMatchups(
		model.Matchup{
			Named:    side("Bard", model.DuoSupport, map[string]float64{"kills": 3.29, "winrate": 0.5}),
			Opponent: side("Jinx", model.DuoCarry, map[string]float64{"kills": 7.5, "winrate": 0.5}),
			Games:    200,
		},
	))
	c.PutMatchups(model.MatchupKey{Champion: "Darius", Role: model.MatchupTop, Elo: model.PlatinumPlus}, model.NewMatchups(
		model.Matchup{
			Named:    side("Darius", model.Top, map[string]float64{"winrate": 0.52, "kills": 6.12}),
			Opponent: side("Quinn", model.Top, map[string]float64{"winrate": 0.48, "kills": 6.5}),
			Games:    700,
		},
	))
	return svc, store
}

// seedSummoners records two players. RivetingObstacle played Sivir twice as
// Adc and Janna once; Wingsofdeath played Sivir once in each bot role.
func seedSummoners(t *testing.T, store *repository.SQLiteStore) {
	t.Helper()
	ctx := context.Background()
	riveting := &model.Summoner{Name: "RivetingObstacle", Region: "NA1", SummonerID: 1001}
	wings := &model.Summoner{Name: "Wingsofdeath", Region: "NA1", SummonerID: 1002}
	for _, sm := range []*model.Summoner{riveting, wings} {
		if err := store.SaveSummoner(ctx, sm); err != nil {
			t.Fatalf("save summoner: %v", err)
		}
	}

	game := func(gameID int64, perfs ...model.Performance) {
		m := &model.Match{
			GameID:       gameID,
			QueueID:      420,
			SeasonID:     11,
			Region:       "NA1",
			GameDuration: 1900,
			WinningSide:  100,
			Teams:        []model.Team{{Side: 100}, {Side: 200}},
			Performances: perfs,
		}
		if err := store.SaveMatch(ctx, m); err != nil {
			t.Fatalf("save match: %v", err)
		}
	}
	game(1, model.Performance{SummonerID: riveting.ID, Side: 100, ChampionID: 15, Role: model.DuoCarry, Kills: 3, Deaths: 2, Assists: 10})
	game(2, model.Performance{SummonerID: riveting.ID, Side: 200, ChampionID: 15, Role: model.DuoCarry, Kills: 4, Deaths: 4, Assists: 8})
	game(3, model.Performance{SummonerID: riveting.ID, Side: 100, ChampionID: 40, Role: model.DuoSupport, Kills: 1, Deaths: 1, Assists: 20})
	game(4, model.Performance{SummonerID: wings.ID, Side: 100, ChampionID: 15, Role: model.DuoCarry, Kills: 8, Deaths: 1, Assists: 4})
	game(5, model.Performance{SummonerID: wings.ID, Side: 200, ChampionID: 15, Role: model.DuoSupport, Kills: 2, Deaths: 3, Assists: 8})
}

func num(n int) types.ListNumber { return types.ListNumberOf(n) }
