package ranking_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/rift/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func champions(vals map[string]float64, order []string) []ranking.Entry[string, float64] {
	out := make([]ranking.Entry[string, float64], 0, len(order))
	for _, k := range order {
		out = append(out, ranking.Entry[string, float64]{Key: k, Value: vals[k]})
	}
	return out
}

func byValue() *ranking.SortSpec[float64] {
	return ranking.By(func(v float64) float64 { return v })
}

func TestRank(t *testing.T) {
	Convey("Given a collection of champion kill averages", t, func() {
		vals := map[string]float64{"Talon": 9, "Rengar": 8, "Quinn": 7, "Darius": 5}
		entries := champions(vals, []string{"Quinn", "Darius", "Talon", "Rengar"})

		Convey("When the top three are requested", func() {
			res, err := ranking.Rank(entries, byValue(), ranking.Window{Position: 1, Size: 3})

			Convey("Then they come back highest first", func() {
				So(err, ShouldBeNil)
				So(res.Keys(), ShouldResemble, []string{"Talon", "Rengar", "Quinn"})
				So(res.AvailableSize, ShouldEqual, 4)
				So(res.RequestedSize, ShouldEqual, 3)
				So(res.Offset, ShouldEqual, 1)
			})
		})

		Convey("When the lowest two are requested", func() {
			res, err := ranking.Rank(entries, byValue(), ranking.Window{Position: 1, Size: 2, Direction: ranking.Lowest})

			Convey("Then the order is mirrored", func() {
				So(err, ShouldBeNil)
				So(res.Keys(), ShouldResemble, []string{"Darius", "Quinn"})
			})
		})

		Convey("When the second entry is requested", func() {
			res, err := ranking.Rank(entries, byValue(), ranking.Window{Position: 2, Size: 1})

			Convey("Then only the runner-up is selected", func() {
				So(err, ShouldBeNil)
				So(res.Keys(), ShouldResemble, []string{"Rengar"})
			})
		})

		Convey("When the window runs past the end", func() {
			res, err := ranking.Rank(entries, byValue(), ranking.Window{Position: 3, Size: 5})

			Convey("Then what remains is selected", func() {
				So(err, ShouldBeNil)
				So(res.Keys(), ShouldResemble, []string{"Quinn", "Darius"})
				So(res.Summary(), ShouldResemble, ranking.Summary{Selected: 2, Requested: 5, Available: 4, Offset: 3})
			})
		})

		Convey("When the window starts past the end", func() {
			res, err := ranking.Rank(entries, byValue(), ranking.Window{Position: 9, Size: 2})

			Convey("Then the selection is empty without error", func() {
				So(err, ShouldBeNil)
				So(res.Selected, ShouldBeEmpty)
				So(res.AvailableSize, ShouldEqual, 4)
			})
		})

		Convey("When zero entries are requested", func() {
			res, err := ranking.Rank(entries, byValue(), ranking.Window{Position: 1, Size: 0})

			Convey("Then nothing is selected", func() {
				So(err, ShouldBeNil)
				So(res.Selected, ShouldBeEmpty)
				So(res.RequestedSize, ShouldEqual, 0)
			})
		})

		Convey("When ranking", func() {
			before := append([]ranking.Entry[string, float64](nil), entries...)
			_, err := ranking.Rank(entries, byValue(), ranking.Window{Position: 1, Size: 4, Direction: ranking.Lowest})

			Convey("Then the input is left untouched", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldResemble, before)
			})
		})
	})

	Convey("Given entries with equal keys", t, func() {
		entries := champions(map[string]float64{"A": 1, "B": 1, "C": 2}, []string{"A", "B", "C"})

		Convey("When ranked highest first", func() {
			res, err := ranking.Rank(entries, byValue(), ranking.Window{Position: 1, Size: 3})

			Convey("Then ties keep their incoming order", func() {
				So(err, ShouldBeNil)
				So(res.Keys(), ShouldResemble, []string{"C", "A", "B"})
			})
		})
	})

	Convey("Given an ascending sort spec", t, func() {
		entries := champions(map[string]float64{"Ahri": 3, "Zed": 1, "Lux": 2}, []string{"Ahri", "Zed", "Lux"})
		spec := byValue().Ascending()

		Convey("When the highest is requested", func() {
			res, err := ranking.Rank(entries, spec, ranking.DefaultWindow())

			Convey("Then the smallest key wins", func() {
				So(err, ShouldBeNil)
				So(res.Keys(), ShouldResemble, []string{"Zed"})
			})
		})

		Convey("When the lowest is requested", func() {
			res, err := ranking.Rank(entries, spec, ranking.Window{Position: 1, Size: 1, Direction: ranking.Lowest})

			Convey("Then the largest key is returned", func() {
				So(err, ShouldBeNil)
				So(res.Keys(), ShouldResemble, []string{"Ahri"})
			})
		})
	})

	Convey("Given no sort spec", t, func() {
		entries := champions(map[string]float64{"X": 1, "Y": 9, "Z": 5}, []string{"X", "Y", "Z"})

		Convey("When ranked", func() {
			high, err1 := ranking.Rank(entries, nil, ranking.Window{Position: 1, Size: 3})
			low, err2 := ranking.Rank(entries, nil, ranking.Window{Position: 1, Size: 3, Direction: ranking.Lowest})

			Convey("Then the incoming order is kept or mirrored", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(high.Keys(), ShouldResemble, []string{"X", "Y", "Z"})
				So(low.Keys(), ShouldResemble, []string{"Z", "Y", "X"})
			})
		})
	})

	Convey("Given composite keys", t, func() {
		type stat struct{ wins, games float64 }
		entries := []ranking.Entry[string, stat]{
			{Key: "a", Value: stat{3, 10}},
			{Key: "b", Value: stat{3, 12}},
			{Key: "c", Value: stat{4, 1}},
		}
		spec := &ranking.SortSpec[stat]{Key: func(s stat) ranking.Key { return ranking.Key{s.wins, s.games} }}

		Convey("When ranked", func() {
			res, err := ranking.Rank(entries, spec, ranking.Window{Position: 1, Size: 3})

			Convey("Then later components break ties", func() {
				So(err, ShouldBeNil)
				So(res.Keys(), ShouldResemble, []string{"c", "b", "a"})
			})
		})
	})

	Convey("Given contract violations", t, func() {
		Convey("When position is zero", func() {
			_, err := ranking.Rank[string, float64](nil, nil, ranking.Window{Position: 0, Size: 1})
			So(errors.Is(err, ranking.ErrInvalidWindow), ShouldBeTrue)
		})

		Convey("When size is negative", func() {
			_, err := ranking.Rank[string, float64](nil, nil, ranking.Window{Position: 1, Size: -1})
			So(errors.Is(err, ranking.ErrInvalidWindow), ShouldBeTrue)
		})

		Convey("When a key repeats", func() {
			entries := []ranking.Entry[string, float64]{{Key: "a", Value: 1}, {Key: "a", Value: 2}}
			_, err := ranking.Rank(entries, byValue(), ranking.DefaultWindow())
			So(errors.Is(err, ranking.ErrDuplicateKey), ShouldBeTrue)
		})

		Convey("When a sort key is NaN", func() {
			entries := []ranking.Entry[string, float64]{{Key: "a", Value: math.NaN()}}
			_, err := ranking.Rank(entries, byValue(), ranking.DefaultWindow())
			So(errors.Is(err, ranking.ErrUndefinedKey), ShouldBeTrue)
		})
	})

	Convey("Given an empty collection", t, func() {
		res, err := ranking.Rank[string, float64](nil, byValue(), ranking.Window{Position: 1, Size: 3})

		So(err, ShouldBeNil)
		So(res.Selected, ShouldBeEmpty)
		So(res.AvailableSize, ShouldEqual, 0)
	})
}

func TestSelectionLength(t *testing.T) {
	Convey("Selection length is min(size, max(0, available-(position-1)))", t, func() {
		entries := champions(map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}, []string{"a", "b", "c", "d", "e"})
		for pos := 1; pos <= 7; pos++ {
			for size := 0; size <= 6; size++ {
				for _, dir := range []ranking.Direction{ranking.Highest, ranking.Lowest} {
					res, err := ranking.Rank(entries, byValue(), ranking.Window{Position: pos, Size: size, Direction: dir})
					So(err, ShouldBeNil)
					want := min(size, max(0, len(entries)-(pos-1)))
					So(len(res.Selected), ShouldEqual, want)
				}
			}
		}
	})

	Convey("Lowest is the mirror of Highest over the full collection", t, func() {
		entries := champions(map[string]float64{"a": 4, "b": 2, "c": 9, "d": 7}, []string{"a", "b", "c", "d"})
		high, _ := ranking.Rank(entries, byValue(), ranking.Window{Position: 1, Size: 4})
		low, _ := ranking.Rank(entries, byValue(), ranking.Window{Position: 1, Size: 4, Direction: ranking.Lowest})
		hk := high.Keys()
		lk := low.Keys()
		for i := range hk {
			So(lk[i], ShouldEqual, hk[len(hk)-1-i])
		}
	})
}

func TestParseDirection(t *testing.T) {
	Convey("ParseDirection", t, func() {
		d, err := ranking.ParseDirection("")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, ranking.Highest)

		d, err = ranking.ParseDirection("Lowest")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, ranking.Lowest)
		So(d.String(), ShouldEqual, "lowest")

		_, err = ranking.ParseDirection("sideways")
		So(errors.Is(err, ranking.ErrInvalidWindow), ShouldBeTrue)
	})
}
