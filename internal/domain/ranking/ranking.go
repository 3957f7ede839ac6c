// Package ranking selects ordered, bounded, offset-aware windows out of
// candidate collections (champions by a stat, matchup opponents, a
// summoner's champion history).
//
// The ranker never fails on data scarcity: an empty collection or a window
// starting past the end yields an empty selection, and the caller decides
// how to phrase it (see package describe).
package ranking

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Direction selects which end of the ordered collection a window reads from.
type Direction int

const (
	// Highest reads from the front of the ordered collection.
	Highest Direction = iota
	// Lowest reads from the back; it is the exact mirror of Highest.
	Lowest
)

// String returns the spoken form used in responses.
func (d Direction) String() string {
	if d == Lowest {
		return "lowest"
	}
	return "highest"
}

// ParseDirection accepts "highest"/"lowest" (case-insensitive); empty input
// means Highest.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "highest", "desc":
		return Highest, nil
	case "lowest", "asc":
		return Lowest, nil
	default:
		return Highest, fmt.Errorf("%w: unknown direction %q", ErrInvalidWindow, s)
	}
}

// Order declares how a sort key maps onto "highest". It lives on the sort
// spec so callers never negate keys to flip ranking semantics.
type Order int

const (
	// Descending puts larger keys first (the default).
	Descending Order = iota
	// Ascending puts smaller keys first, e.g. for rank positions where 1 is best.
	Ascending
)

// Key is an orderable tuple compared lexicographically.
type Key []float64

// Scalar wraps a single value as a Key.
func Scalar(v float64) Key { return Key{v} }

// Compare returns -1, 0 or +1. A strict prefix orders before the longer key.
func (k Key) Compare(o Key) int {
	n := min(len(k), len(o))
	for i := 0; i < n; i++ {
		switch {
		case k[i] < o[i]:
			return -1
		case k[i] > o[i]:
			return 1
		}
	}
	switch {
	case len(k) < len(o):
		return -1
	case len(k) > len(o):
		return 1
	}
	return 0
}

func (k Key) defined() bool {
	for _, v := range k {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SortSpec extracts the ordering key from a value. Key must be pure and
// total over the collection; it is evaluated exactly once per entry.
type SortSpec[V any] struct {
	Key   func(V) Key
	Order Order
}

// By builds a descending SortSpec over a scalar extractor.
func By[V any](f func(V) float64) *SortSpec[V] {
	return &SortSpec[V]{Key: func(v V) Key { return Scalar(f(v)) }}
}

// Ascending returns a copy of the spec ordered smallest-first.
func (s *SortSpec[V]) Ascending() *SortSpec[V] {
	c := *s
	c.Order = Ascending
	return &c
}

// Entry is one (key, value) pair of a rankable collection.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Window is the caller's pagination request. Position is 1-based.
type Window struct {
	Position  int       `json:"list_position" validate:"min=1"`
	Size      int       `json:"list_size" validate:"min=0"`
	Direction Direction `json:"list_order"`
}

// DefaultWindow is the first single best entry.
func DefaultWindow() Window {
	return Window{Position: 1, Size: 1, Direction: Highest}
}

// Validate enforces Position >= 1 and Size >= 0.
func (w Window) Validate() error {
	if w.Position < 1 {
		return fmt.Errorf("%w: position %d must be >= 1", ErrInvalidWindow, w.Position)
	}
	if w.Size < 0 {
		return fmt.Errorf("%w: size %d must be >= 0", ErrInvalidWindow, w.Size)
	}
	if w.Direction != Highest && w.Direction != Lowest {
		return fmt.Errorf("%w: direction %d", ErrInvalidWindow, w.Direction)
	}
	return nil
}

// Summary is the count-only view of a Result.
type Summary struct {
	Selected  int
	Requested int
	Available int
	Offset    int
}

// Result is the selected window plus completeness bookkeeping.
type Result[K comparable, V any] struct {
	Selected      []Entry[K, V]
	RequestedSize int
	AvailableSize int
	Offset        int
}

// Summary reports the result counts.
func (r Result[K, V]) Summary() Summary {
	return Summary{
		Selected:  len(r.Selected),
		Requested: r.RequestedSize,
		Available: r.AvailableSize,
		Offset:    r.Offset,
	}
}

// Keys returns the selected keys in order.
func (r Result[K, V]) Keys() []K {
	out := make([]K, len(r.Selected))
	for i, e := range r.Selected {
		out[i] = e.Key
	}
	return out
}

// Values returns the selected values in order.
func (r Result[K, V]) Values() []V {
	out := make([]V, len(r.Selected))
	for i, e := range r.Selected {
		out[i] = e.Value
	}
	return out
}

type keyed[K comparable, V any] struct {
	entry Entry[K, V]
	key   Key
}

// Rank orders entries by spec (or keeps their order when spec is nil),
// mirrors the order for Lowest, then skips Position-1 entries and keeps
// at most Size. The input slice is never modified.
func Rank[K comparable, V any](entries []Entry[K, V], spec *SortSpec[V], w Window) (Result[K, V], error) {
	if err := w.Validate(); err != nil {
		return Result[K, V]{}, err
	}

	seen := make(map[K]struct{}, len(entries))
	items := make([]keyed[K, V], len(entries))
	for i, e := range entries {
		if _, dup := seen[e.Key]; dup {
			return Result[K, V]{}, fmt.Errorf("%w: %v", ErrDuplicateKey, e.Key)
		}
		seen[e.Key] = struct{}{}
		items[i].entry = e
		if spec != nil && spec.Key != nil {
			k := spec.Key(e.Value)
			if !k.defined() {
				return Result[K, V]{}, fmt.Errorf("%w: %v", ErrUndefinedKey, e.Key)
			}
			items[i].key = k
		}
	}

	if spec != nil && spec.Key != nil {
		sign := -1 // descending
		if spec.Order == Ascending {
			sign = 1
		}
		slices.SortStableFunc(items, func(a, b keyed[K, V]) int {
			return sign * a.key.Compare(b.key)
		})
	}
	if w.Direction == Lowest {
		slices.Reverse(items)
	}

	res := Result[K, V]{
		RequestedSize: w.Size,
		AvailableSize: len(entries),
		Offset:        w.Position,
	}
	skip := w.Position - 1
	if skip >= len(items) {
		res.Selected = []Entry[K, V]{}
		return res, nil
	}
	rest := items[skip:]
	n := min(w.Size, len(rest))
	res.Selected = make([]Entry[K, V], n)
	for i := 0; i < n; i++ {
		res.Selected[i] = rest[i].entry
	}
	return res, nil
}
