package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/rift/internal/adapters/cache"
	"github.com/okian/rift/internal/domain/model"
)

const championsJSON = `{"data":{
	"Sivir":{"id":15,"key":"Sivir","name":"Sivir","title":"the Battle Mistress"},
	"Janna":{"id":40,"key":"Janna","name":"Janna","title":"the Storm's Fury"},
	"Jinx":{"id":222,"key":"Jinx","name":"Jinx","title":"the Loose Cannon"}
}}`

const statsJSON = `[
	{"championId":15,"role":"DUO_CARRY","kills":6.1,"winRates":0.52,"overallPerformanceScore":61.5,
	 "positions":{"kills":2,"winRates":1,"overallPerformanceScore":1,"previousOverallPerformanceScore":3}},
	{"championId":222,"role":"DUO_CARRY","kills":7.4,"winRates":0.49,"overallPerformanceScore":58.2,
	 "positions":{"kills":1,"winRates":2,"overallPerformanceScore":2,"previousOverallPerformanceScore":1}},
	{"championId":40,"role":"DUO_SUPPORT","kills":1.2,"winRates":0.53,"positions":{"kills":1,"winRates":1}}
]`

const matchupsJSON = `[
	{"_id":{"champ1_id":15,"champ2_id":222,"role":"DUO_CARRY"},"count":1200,
	 "champ1":{"winrate":0.51,"kills":6.0},"champ2":{"winrate":0.49,"kills":7.0}},
	{"_id":{"champ1_id":40,"champ2_id":15,"role":"DUO_CARRY"},"count":300,
	 "champ1":{"winrate":0.45,"kills":1.0},"champ2":{"winrate":0.55,"kills":5.5}}
]`

type fakeAPI struct {
	srv      *httptest.Server
	ggKey    atomic.Value
	riotKey  atomic.Value
	elo      atomic.Value
	requests atomic.Int32
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("/gg/champions", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		f.ggKey.Store(r.URL.Query().Get("api_key"))
		f.elo.Store(r.URL.Query().Get("elo"))
		_, _ = w.Write([]byte(statsJSON))
	})
	mux.HandleFunc("/gg/champions/15/DUO_CARRY/matchups", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		_, _ = w.Write([]byte(matchupsJSON))
	})
	mux.HandleFunc("/riot/static-data/v3/champions", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		f.riotKey.Store(r.Header.Get("X-Riot-Token"))
		_, _ = w.Write([]byte(championsJSON))
	})
	mux.HandleFunc("/riot/summoner/v3/summoners/by-name/Wingilote", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":70,"accountId":7,"name":"Wingilote"}`))
	})
	mux.HandleFunc("/riot/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	f.srv = httptest.NewServer(mux)
	return f
}

func (f *fakeAPI) source() *Source {
	opts := []Option{WithRate(1000, 10), WithTimeout(time.Second)}
	gg := NewChampionGG(f.srv.URL+"/gg/", append(opts, WithAPIKey("gg-key"))...)
	riot := NewRiot(f.srv.URL+"/riot", append(opts, WithAPIKey("riot-key"))...)
	return NewSource(gg, riot)
}

func TestClients(t *testing.T) {
	Convey("Given a fake upstream", t, func() {
		api := newFakeAPI()
		defer api.srv.Close()
		ctx := context.Background()

		Convey("When the roster is fetched", func() {
			riot := NewRiot(api.srv.URL+"/riot", WithAPIKey("riot-key"))
			c, err := riot.Champions(ctx)

			Convey("Then champions are keyed by name and the token header is sent", func() {
				So(err, ShouldBeNil)
				So(c, ShouldHaveLength, 3)
				So(c["Sivir"].ID, ShouldEqual, 15)
				So(c["Janna"].Title, ShouldEqual, "the Storm's Fury")
				So(api.riotKey.Load(), ShouldEqual, "riot-key")
			})
		})

		Convey("When champion stats are fetched for one role", func() {
			gg := NewChampionGG(api.srv.URL+"/gg", WithAPIKey("gg-key"))
			stats, err := gg.ChampionStats(ctx, model.Gold, model.DuoCarry)

			Convey("Then other roles are filtered out", func() {
				So(err, ShouldBeNil)
				So(stats, ShouldHaveLength, 2)
				So(stats[1].Stats["kills"], ShouldEqual, 7.4)
				So(stats[1].Positions["kills"], ShouldEqual, 1)
				So(api.ggKey.Load(), ShouldEqual, "gg-key")
				So(api.elo.Load(), ShouldEqual, "GOLD")
			})
		})

		Convey("When a summoner is looked up", func() {
			riot := NewRiot(api.srv.URL + "/riot")
			s, err := riot.Summoner(ctx, "Wingilote", "NA1")
			So(err, ShouldBeNil)
			So(s.SummonerID, ShouldEqual, 70)
			So(s.Region, ShouldEqual, "NA1")

			_, err = riot.Summoner(ctx, "Nobody", "NA1")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("When upstream returns a server error", func() {
			riot := NewRiot(api.srv.URL + "/riot")
			var out map[string]any
			err := riot.c.getJSON(ctx, "/broken", nil, &out)
			So(errors.Is(err, ErrStatus), ShouldBeTrue)
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := NewRiot(api.srv.URL + "/riot").Champions(cctx)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSource(t *testing.T) {
	Convey("Given a source over the fake upstream", t, func() {
		api := newFakeAPI()
		defer api.srv.Close()
		src := api.source()
		ctx := context.Background()

		Convey("When rankings are built", func() {
			r, err := src.Rankings(ctx, model.RankingKey{Position: "kills", Elo: model.PlatinumPlus, Role: model.DuoCarry})

			Convey("Then ids become names in upstream order", func() {
				So(err, ShouldBeNil)
				So(r, ShouldHaveLength, 2)
				So(r[0], ShouldResemble, model.Standing{Champion: "Sivir", Value: 6.1, Rank: 2})
				So(r[1].Champion, ShouldEqual, "Jinx")
				So(api.elo.Load(), ShouldEqual, "")
			})
		})

		Convey("When overall performance rankings are built", func() {
			r, err := src.Rankings(ctx, model.RankingKey{Position: "overallPerformanceScore", Elo: model.PlatinumPlus, Role: model.DuoCarry})

			Convey("Then the previous patch rank is carried", func() {
				So(err, ShouldBeNil)
				So(r, ShouldHaveLength, 2)
				So(r[0], ShouldResemble, model.Standing{Champion: "Sivir", Value: 61.5, Rank: 1, Previous: 3})
				So(r[1].Previous, ShouldEqual, 1)
			})
		})

		Convey("When matchups are built", func() {
			m, err := src.Matchups(ctx, model.MatchupKey{Champion: "Sivir", Role: model.MatchupDuoCarry, Elo: model.PlatinumPlus})
			So(err, ShouldBeNil)
			So(m.Order, ShouldResemble, []string{"Jinx", "Janna"})

			Convey("Then every pairing is oriented on the named champion", func() {
				jinx, _ := m.Get("Jinx")
				So(jinx.Named.Stats["winrate"], ShouldEqual, 0.51)
				So(jinx.Named.Role, ShouldEqual, model.DuoCarry)
				janna, _ := m.Get("Janna")
				So(janna.Named.Champion, ShouldEqual, "Sivir")
				So(janna.Named.Stats["winrate"], ShouldEqual, 0.55)
				So(janna.Games, ShouldEqual, 300)
			})
		})

		Convey("When matchups are asked for an unknown champion", func() {
			_, err := src.Matchups(ctx, model.MatchupKey{Champion: "Nobody", Role: model.MatchupTop})
			So(errors.Is(err, cache.ErrNotFound), ShouldBeTrue)
		})

		Convey("When upstream 404s", func() {
			_, err := src.Matchups(ctx, model.MatchupKey{Champion: "Jinx", Role: model.MatchupDuoCarry})

			Convey("Then the cache sees a miss", func() {
				So(errors.Is(err, cache.ErrNotFound), ShouldBeTrue)
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When warmed", func() {
			So(src.Warm(ctx), ShouldBeNil)
			before := api.requests.Load()
			_, err := src.Matchups(ctx, model.MatchupKey{Champion: "Sivir", Role: model.MatchupDuoCarry})
			So(err, ShouldBeNil)

			Convey("Then the roster is not fetched again", func() {
				So(api.requests.Load(), ShouldEqual, before+1)
			})
		})

		Convey("When used as a cache loader", func() {
			store := cache.New(cache.WithLoader(src))
			r, found, err := store.Rankings(ctx, model.RankingKey{Position: "winRates", Role: model.DuoSupport, Elo: model.PlatinumPlus})
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)
			So(r[0].Champion, ShouldEqual, "Janna")
		})
	})
}
