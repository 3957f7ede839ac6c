// Package describe turns ranking bookkeeping into the phrase fragments a
// response template needs: where the window starts, how many items it
// holds, and whether the data fell short of the request.
package describe

import (
	"fmt"

	"github.com/okian/rift/internal/domain/ranking"
)

// Linguistics supplies word forms. Implementations must be pure.
type Linguistics interface {
	Ordinal(n int) string
	Cardinal(n int) string
	Pluralize(noun string, count int) string
}

// Shortfall classifies why a window came back short.
type Shortfall int

const (
	// None means everything requested was returned.
	None Shortfall = iota
	// Scarcity means the window started inside the data but ran out.
	Scarcity
	// Overrun means the window started past the end of the data.
	Overrun
)

func (s Shortfall) String() string {
	switch s {
	case Scarcity:
		return "scarcity"
	case Overrun:
		return "overrun"
	}
	return "none"
}

// Descriptor holds the rendered fragments.
type Descriptor struct {
	OffsetPhrase    string
	SizePhrase      string
	ShortfallClause string
	Complete        bool
	Shortfall       Shortfall
	// Noun is the caller's noun pluralized for the selected count.
	Noun string
}

// Describe renders the fragments for s. noun is singular ("champion").
func Describe(s ranking.Summary, noun string, lx Linguistics) Descriptor {
	d := Descriptor{
		Complete: true,
		Noun:     lx.Pluralize(noun, s.Selected),
	}

	if s.Offset > 1 {
		d.OffsetPhrase = lx.Ordinal(s.Offset)
		if s.Selected > 1 {
			d.OffsetPhrase += " through " + lx.Ordinal(s.Offset+s.Selected-1)
		}
	}
	if s.Selected != 1 {
		d.SizePhrase = lx.Cardinal(s.Selected)
	}

	if s.Selected >= s.Requested {
		return d
	}
	d.Complete = false
	if s.Offset > s.Available {
		d.Shortfall = Overrun
		d.ShortfallClause = overrunClause(s, noun, lx)
		return d
	}
	d.Shortfall = Scarcity
	d.ShortfallClause = scarcityClause(s, noun, lx)
	return d
}

// scarcityClause counts what the window holds, so a window starting past
// the first position never claims the rows before it.
func scarcityClause(s ranking.Summary, noun string, lx Linguistics) string {
	count := lx.Cardinal(s.Selected)
	if s.Selected == 1 {
		count = "a single"
	}
	clause := "The current patch only has enough data for " + count + " " + lx.Pluralize(noun, s.Selected)
	if s.Offset > 1 {
		clause += " beginning at the " + lx.Ordinal(s.Offset) + " position"
	}
	return clause + ". "
}

func overrunClause(s ranking.Summary, noun string, lx Linguistics) string {
	if s.Available == 0 {
		return fmt.Sprintf("The current patch has no data for any %s. ", lx.Pluralize(noun, 0))
	}
	return fmt.Sprintf("The current patch only has data for %s %s. There are no %s beginning at the %s position. ",
		lx.Cardinal(s.Available), lx.Pluralize(noun, s.Available),
		lx.Pluralize(noun, 0), lx.Ordinal(s.Offset))
}
