package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/okian/rift/internal/app"
	"github.com/okian/rift/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestChampionRanking(t *testing.T) {
	Convey("Given cached deaths rankings for Silver Top", t, func() {
		svc, _ := newService(t)
		ctx := context.Background()
		q := types.ChampionRanking{Position: "deaths", Role: "TOP", Elo: "SILVER"}

		Convey("When three champions are requested", func() {
			q.ListSize = num(3)
			speech, err := svc.ChampionRanking(ctx, q)

			Convey("Then the top three are named in order", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "The three champions with the highest deaths playing Top in Silver division are Rengar, Yasuo, and Quinn.")
			})
		})

		Convey("When no list parameters are given", func() {
			speech, err := svc.ChampionRanking(ctx, q)

			Convey("Then the single best champion is named", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "The champion with the highest deaths playing Top in Silver division is Rengar.")
			})
		})

		Convey("When the lowest is requested", func() {
			q.ListOrder = "lowest"
			speech, err := svc.ChampionRanking(ctx, q)

			Convey("Then the ranking is read from the other end", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "The champion with the lowest deaths playing Top in Silver division is Darius.")
			})
		})

		Convey("When a single later position is requested", func() {
			q.ListPosition = num(3)
			speech, err := svc.ChampionRanking(ctx, q)

			Convey("Then the position is spoken as an ordinal", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "The champion with the third highest deaths playing Top in Silver division is Quinn.")
			})
		})

		Convey("When the window runs past the data", func() {
			q.ListPosition = num(2)
			q.ListSize = num(5)
			speech, err := svc.ChampionRanking(ctx, q)

			Convey("Then the shortfall is explained before the partial list", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "The current patch only has enough data for three champions beginning at the second position. "+
					"The second through fourth champions with the highest deaths playing Top in Silver division are Yasuo, Quinn, and Darius.")
			})
		})

		Convey("When the window starts past the data", func() {
			q.ListPosition = num(6)
			speech, err := svc.ChampionRanking(ctx, q)

			Convey("Then the overrun is explained", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "The current patch only has data for four champions playing Top in Silver division. "+
					"There are no champions beginning at the sixth position.")
			})
		})

		Convey("When nothing is cached for the key", func() {
			q.Elo = "GOLD"

			Convey("Then the first position reports no data", func() {
				speech, err := svc.ChampionRanking(ctx, q)
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "There are no champions available playing Top in Gold division in the current patch.")
			})

			Convey("Then a later position reports an overrun of zero champions", func() {
				q.ListPosition = num(2)
				speech, err := svc.ChampionRanking(ctx, q)
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "The current patch only has data for zero champions playing Top in Gold division. "+
					"There are no champions beginning at the second position.")
			})
		})

		Convey("When zero champions are requested", func() {
			q.ListSize = num(0)
			speech, err := svc.ChampionRanking(ctx, q)

			Convey("Then the request is acknowledged as empty", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "No champions were requested.")
			})
		})

		Convey("When the list size exceeds the maximum", func() {
			q.ListSize = num(50)
			speech, err := svc.ChampionRanking(ctx, q)

			Convey("Then it is capped and the shortfall is still reported", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldStartWith, "The current patch only has enough data for four champions.")
			})
		})

		Convey("When the role is unknown", func() {
			q.Role = "jester"
			_, err := svc.ChampionRanking(ctx, q)

			Convey("Then the parameters are rejected with a spoken reason", func() {
				So(errors.Is(err, service.ErrInvalidParameters), ShouldBeTrue)
				So(svc.Explain(ctx, err), ShouldEqual, "I could not understand that request. Jester is not a role.")
			})
		})

		Convey("When the list position is zero", func() {
			q.ListPosition = num(0)
			_, err := svc.ChampionRanking(ctx, q)

			Convey("Then the window is rejected", func() {
				So(errors.Is(err, service.ErrInvalidParameters), ShouldBeTrue)
			})
		})
	})
}

func TestMatchupRanking(t *testing.T) {
	Convey("Given cached matchups", t, func() {
		svc, _ := newService(t)
		ctx := context.Background()

		Convey("When ranking supports against an Adc", func() {
			speech, err := svc.MatchupRanking(ctx, types.MatchupRanking{
				Name: "jhin", Role1: "DUO_CARRY", Role2: "DUO_SUPPORT", Position: "winrate", Elo: "GOLD",
			})

			Convey("Then the opponent with the best win rate is named", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "The champion with the highest win rate playing Support against Jhin Adc from Gold division is Taric.")
			})
		})

		Convey("When the window starts at the third opponent and asks for two", func() {
			speech, err := svc.MatchupRanking(ctx, types.MatchupRanking{
				Name: "Jhin", Role1: "DUO_CARRY", Role2: "DUO_SUPPORT", Position: "winrate", Elo: "GOLD",
				List: types.List{ListPosition: num(3), ListSize: num(2)},
			})

			Convey("Then the shortfall counts only the opponent that is left", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "The current patch only has enough data for a single champion beginning at the third position. "+
					"The champion with the third highest win rate playing Support against Jhin Adc from Gold division is Thresh.")
			})
		})

		Convey("When ranking synergy partners", func() {
			speech, err := svc.MatchupRanking(ctx, types.MatchupRanking{
				Name: "Jinx", Role1: "SYNERGY", Position: "kills", Elo: "GOLD",
				List: types.List{ListSize: num(3)},
			})

			Convey("Then partners missing the statistic are left out", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "The current patch only has enough data for two champions. "+
					"The two champions with the highest kills playing Support with Jinx Adc from Gold division are Bard and Janna.")
			})
		})

		Convey("When no matchups are cached", func() {
			speech, err := svc.MatchupRanking(ctx, types.MatchupRanking{
				Name: "Darius", Role1: "JUNGLE", Position: "kills", Elo: "GOLD",
			})

			Convey("Then the empty sentence uses the requested role", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "There are no matchup rankings for champions playing Jungle against Darius in Gold division.")
			})
		})

		Convey("When the champion is unknown", func() {
			_, err := svc.MatchupRanking(ctx, types.MatchupRanking{
				Name: "Zzzzzz", Role1: "TOP", Position: "kills",
			})

			Convey("Then a lookup error names it", func() {
				So(errors.Is(err, service.ErrUnknownChampion), ShouldBeTrue)
				So(svc.Explain(ctx, err), ShouldEqual, "I could not find a champion called Zzzzzz.")
			})
		})

		Convey("When the matchup statistic is unknown", func() {
			_, err := svc.MatchupRanking(ctx, types.MatchupRanking{
				Name: "Jinx", Role1: "SYNERGY", Position: "charm",
			})

			Convey("Then the parameters are rejected", func() {
				So(errors.Is(err, service.ErrInvalidParameters), ShouldBeTrue)
			})
		})
	})
}

func TestMatchup(t *testing.T) {
	Convey("Given cached matchups", t, func() {
		svc, _ := newService(t)
		ctx := context.Background()

		Convey("When comparing synergy partners", func() {
			speech, err := svc.Matchup(ctx, types.Matchup{
				Name1: "Bard", Name2: "Jinx", Role1: "SYNERGY", Position: "kills", Elo: "GOLD",
			})

			Convey("Then the synergy sentence is used", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "Bard averages 3.29 kills in Support when playing with Jinx Adc in Gold.")
			})
		})

		Convey("When comparing a lane win rate", func() {
			speech, err := svc.Matchup(ctx, types.Matchup{
				Name1: "Darius", Name2: "quinn", Role1: "TOP", Position: "winrate",
			})

			Convey("Then rates are spoken as percentages", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "Darius averages a 52.0% win rate in Top, higher than Quinn playing Top in Platinum plus division.")
			})
		})

		Convey("When comparing a lane statistic the first champion trails in", func() {
			speech, err := svc.Matchup(ctx, types.Matchup{
				Name1: "Darius", Name2: "Quinn", Role1: "TOP", Position: "kills",
			})

			Convey("Then the comparison is lower", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "Darius averages 6.12 kills in Top, lower than Quinn who averages 6.5 kills when playing Top in Platinum plus division.")
			})
		})

		Convey("When the pair has no matchup data", func() {
			speech, err := svc.Matchup(ctx, types.Matchup{
				Name1: "Darius", Name2: "Rengar", Role1: "TOP", Position: "kills",
			})

			Convey("Then the not found sentence is used", func() {
				So(err, ShouldBeNil)
				So(speech, ShouldEqual, "I cannot find any matchup information on Darius and Rengar playing Top in Platinum plus division.")
			})
		})
	})
}
