package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/rift/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestDetermineMatchupRole(t *testing.T) {
	convey.Convey("Given two matchup roles", t, func() {
		cases := []struct {
			r1, r2 model.MatchupRole
			want   model.MatchupRole
		}{
			{model.MatchupSynergy, model.MatchupDuoCarry, model.MatchupSynergy},
			{model.MatchupDuoSupport, model.MatchupSynergy, model.MatchupSynergy},
			{model.MatchupDuoCarry, model.MatchupDuoSupport, model.MatchupADCSupport},
			{model.MatchupDuoSupport, model.MatchupDuoCarry, model.MatchupADCSupport},
			{model.MatchupJungle, "", model.MatchupJungle},
			{model.MatchupTop, model.MatchupMiddle, model.MatchupTop},
		}
		for _, c := range cases {
			convey.So(model.DetermineMatchupRole(c.r1, c.r2), convey.ShouldEqual, c.want)
		}

		convey.Convey("Collapsed roles have spoken names", func() {
			convey.So(model.MatchupSynergy.Spoken(), convey.ShouldEqual, "Synergy")
			convey.So(model.MatchupADCSupport.Spoken(), convey.ShouldEqual, "Adc and Support")
			convey.So(model.MatchupDuoCarry.Spoken(), convey.ShouldEqual, "Adc")
			convey.So(model.MatchupTop.Spoken(), convey.ShouldEqual, "Top")
		})
	})
}

func TestParsers(t *testing.T) {
	convey.Convey("Given spoken identifiers", t, func() {
		convey.Convey("Elo parsing is case-insensitive and defaults to platinum plus", func() {
			e, err := model.ParseElo("silver")
			convey.So(err, convey.ShouldBeNil)
			convey.So(e, convey.ShouldEqual, model.Silver)

			e, err = model.ParseElo("")
			convey.So(err, convey.ShouldBeNil)
			convey.So(e, convey.ShouldEqual, model.PlatinumPlus)
			convey.So(e.Query(), convey.ShouldEqual, "")

			_, err = model.ParseElo("diamond")
			convey.So(errors.Is(err, model.ErrUnknownValue), convey.ShouldBeTrue)
		})

		convey.Convey("Role parsing accepts aliases", func() {
			r, err := model.ParseRole("adc")
			convey.So(err, convey.ShouldBeNil)
			convey.So(r, convey.ShouldEqual, model.DuoCarry)
			convey.So(r.Spoken(), convey.ShouldEqual, "Adc")

			r, err = model.ParseRole("duo support")
			convey.So(err, convey.ShouldBeNil)
			convey.So(r.Spoken(), convey.ShouldEqual, "Support")

			_, err = model.ParseRole("feeder")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Matchup role parsing allows an empty second role", func() {
			r, err := model.ParseMatchupRole("")
			convey.So(err, convey.ShouldBeNil)
			convey.So(r, convey.ShouldEqual, model.MatchupRole(""))

			r, err = model.ParseMatchupRole("support")
			convey.So(err, convey.ShouldBeNil)
			convey.So(r, convey.ShouldEqual, model.MatchupDuoSupport)
		})

		convey.Convey("Stats are looked up by key", func() {
			s, err := model.LookupStat(model.Positions, "WINRATES")
			convey.So(err, convey.ShouldBeNil)
			convey.So(s.Spoken, convey.ShouldEqual, "win rate")
			convey.So(s.Rate, convey.ShouldBeTrue)

			_, err = model.LookupStat(model.MatchupPositions, "lore")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Regions are validated", func() {
			r, err := model.ParseRegion("na1")
			convey.So(err, convey.ShouldBeNil)
			convey.So(r, convey.ShouldEqual, "NA1")
		})
	})
}

func TestPerformanceMetric(t *testing.T) {
	convey.Convey("Given a performance", t, func() {
		p := model.Performance{Kills: 2, Deaths: 8, Assists: 14, TotalMinionsKilled: 30, NeutralMinionsKilled: 90, Victorious: true}

		v, ok := p.Metric("kills")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(v, convey.ShouldEqual, 2)

		v, _ = p.Metric("cs")
		convey.So(v, convey.ShouldEqual, 120)

		v, ok = p.Metric("total_minions_killed")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(v, convey.ShouldEqual, 30)

		v, _ = p.Metric("won")
		convey.So(v, convey.ShouldEqual, 1)

		_, ok = p.Metric("lore")
		convey.So(ok, convey.ShouldBeFalse)
	})
}

func TestCollections(t *testing.T) {
	convey.Convey("Given matchups for Shyvana", t, func() {
		side := func(name string, wr float64) model.MatchupSide {
			return model.MatchupSide{Champion: name, Role: model.Jungle, Stats: map[string]float64{"winrate": wr}}
		}
		ms := model.NewMatchups(
			model.Matchup{Named: side("Shyvana", 0.5), Opponent: side("Nocturne", 0.5)},
			model.Matchup{Named: side("Shyvana", 0.45), Opponent: side("Cho'Gath", 0.55)},
		)

		convey.So(ms.Len(), convey.ShouldEqual, 2)
		convey.So(ms.Order, convey.ShouldResemble, []string{"Nocturne", "Cho'Gath"})

		m, ok := ms.Get("Cho'Gath")
		convey.So(ok, convey.ShouldBeTrue)
		s, ok := m.Side("shyvana")
		convey.So(ok, convey.ShouldBeTrue)
		v, _ := s.Stat("winrate")
		convey.So(v, convey.ShouldEqual, 0.45)
	})

	convey.Convey("Refresh jobs have stable ids", t, func() {
		jobs := model.RankingJobs(time.Unix(0, 0))
		convey.So(len(jobs), convey.ShouldEqual, len(model.Positions)*len(model.Elos)*len(model.Roles))
		convey.So(jobs[0].ID(), convey.ShouldEqual, "rankings:kills:BRONZE:TOP")

		j := model.RefreshJob{Kind: model.RefreshMatchups, Matchup: model.MatchupKey{Champion: "Jinx", Role: model.MatchupSynergy, Elo: model.Gold}}
		convey.So(j.ID(), convey.ShouldEqual, "matchups:Jinx:SYNERGY:GOLD")
		convey.So(model.RefreshJob{Kind: model.RefreshChampions}.ID(), convey.ShouldEqual, "champions")
	})
}
