// Package aggregate groups per-game performance records and reduces each
// group to named metrics that the ranker can order.
package aggregate

import (
	"fmt"
	"slices"

	"github.com/okian/rift/internal/domain/ranking"
)

// Record is a single per-game row. Metric returns the numeric value of a
// named field and false when the record has no such field.
type Record interface {
	Metric(field string) (float64, bool)
}

// Kind is the reduction applied to a group.
type Kind int

const (
	// Count is the number of records in the group.
	Count Kind = iota
	// Sum adds one field.
	Sum
	// Mean averages one field.
	Mean
	// Rate is the fraction of records whose field is non-zero.
	Rate
	// RatioOfSums divides the summed fields by the summed denominator.
	RatioOfSums
)

func (k Kind) String() string {
	switch k {
	case Count:
		return "count"
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	case Rate:
		return "rate"
	case RatioOfSums:
		return "ratio"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Metric names a reduction. Order tells the ranker whether larger values
// rank higher (the default) or lower.
type Metric struct {
	Name        string
	Kind        Kind
	Fields      []string
	Denominator string
	Order       ranking.Order
}

// CountOf counts records.
func CountOf(name string) Metric { return Metric{Name: name, Kind: Count} }

// SumOf sums a field.
func SumOf(name, field string) Metric {
	return Metric{Name: name, Kind: Sum, Fields: []string{field}}
}

// MeanOf averages a field.
func MeanOf(name, field string) Metric {
	return Metric{Name: name, Kind: Mean, Fields: []string{field}}
}

// RateOf is the share of records where field is non-zero.
func RateOf(name, field string) Metric {
	return Metric{Name: name, Kind: Rate, Fields: []string{field}}
}

// RatioOf is sum(numerators) / sum(denominator). A zero denominator sum is
// treated as 1.
func RatioOf(name string, denominator string, numerators ...string) Metric {
	return Metric{Name: name, Kind: RatioOfSums, Fields: numerators, Denominator: denominator}
}

// KDA is (kills + assists) / deaths over the group.
func KDA() Metric {
	return RatioOf("kda", "deaths", "kills", "assists")
}

// Ascending returns a copy of m that ranks smaller values higher.
func (m Metric) Ascending() Metric {
	m.Order = ranking.Ascending
	return m
}

// Validate checks that the metric is well formed for its kind.
func (m Metric) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidMetric)
	}
	switch m.Kind {
	case Count:
		return nil
	case Sum, Mean, Rate:
		if len(m.Fields) != 1 || m.Fields[0] == "" {
			return fmt.Errorf("%w: %s %q needs exactly one field", ErrInvalidMetric, m.Kind, m.Name)
		}
	case RatioOfSums:
		if len(m.Fields) == 0 || m.Denominator == "" {
			return fmt.Errorf("%w: ratio %q needs numerators and a denominator", ErrInvalidMetric, m.Name)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidMetric, m.Kind)
	}
	return nil
}

// accumulator carries the running sums for one metric in one bucket.
type accumulator struct {
	num float64
	den float64
}

// Bucket holds the reduced values for one group key.
type Bucket struct {
	count  int
	acc    []accumulator
	index  map[string]int
	metric []Metric
}

// Count is the number of records in the bucket.
func (b *Bucket) Count() int { return b.count }

// Value returns the reduced value of the named metric.
func (b *Bucket) Value(name string) (float64, bool) {
	i, ok := b.index[name]
	if !ok {
		return 0, false
	}
	return b.value(i), true
}

// MustValue is Value without the presence flag; unknown names read as 0.
func (b *Bucket) MustValue(name string) float64 {
	v, _ := b.Value(name)
	return v
}

func (b *Bucket) value(i int) float64 {
	a := b.acc[i]
	switch b.metric[i].Kind {
	case Count:
		return float64(b.count)
	case Sum:
		return a.num
	case Mean, Rate:
		if b.count == 0 {
			return 0
		}
		return a.num / float64(b.count)
	case RatioOfSums:
		den := a.den
		if den == 0 {
			den = 1
		}
		return a.num / den
	}
	return 0
}

// Buckets is the grouped result. Keys keeps first-seen order.
type Buckets[K comparable] struct {
	Keys    []K
	Metrics []Metric
	groups  map[K]*Bucket
}

// Len is the number of groups.
func (bs *Buckets[K]) Len() int { return len(bs.Keys) }

// Get returns the bucket for key.
func (bs *Buckets[K]) Get(key K) (*Bucket, bool) {
	b, ok := bs.groups[key]
	return b, ok
}

// Entries exposes the buckets as a rankable collection in first-seen order.
func (bs *Buckets[K]) Entries() []ranking.Entry[K, *Bucket] {
	out := make([]ranking.Entry[K, *Bucket], len(bs.Keys))
	for i, k := range bs.Keys {
		out[i] = ranking.Entry[K, *Bucket]{Key: k, Value: bs.groups[k]}
	}
	return out
}

// SortBy builds a sort spec ranking buckets by the given metric and honouring
// the metric's declared order.
func SortBy(m Metric) *ranking.SortSpec[*Bucket] {
	return &ranking.SortSpec[*Bucket]{
		Key: func(b *Bucket) ranking.Key {
			return ranking.Scalar(b.MustValue(m.Name))
		},
		Order: m.Order,
	}
}

// Aggregate groups records by groupKey and reduces each group with metrics,
// in a single pass. Empty input yields empty Buckets.
func Aggregate[R Record, K comparable](records []R, groupKey func(R) K, metrics ...Metric) (*Buckets[K], error) {
	index := make(map[string]int, len(metrics))
	for i, m := range metrics {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, dup := index[m.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidMetric, m.Name)
		}
		index[m.Name] = i
	}

	bs := &Buckets[K]{
		Metrics: slices.Clone(metrics),
		groups:  make(map[K]*Bucket),
	}
	for _, r := range records {
		k := groupKey(r)
		b, ok := bs.groups[k]
		if !ok {
			b = &Bucket{acc: make([]accumulator, len(metrics)), index: index, metric: bs.Metrics}
			bs.groups[k] = b
			bs.Keys = append(bs.Keys, k)
		}
		b.count++
		for i, m := range metrics {
			if err := accumulate(&b.acc[i], m, r); err != nil {
				return nil, err
			}
		}
	}
	return bs, nil
}

func accumulate(a *accumulator, m Metric, r Record) error {
	field := func(name string) (float64, error) {
		v, ok := r.Metric(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q in metric %q", ErrUnknownField, name, m.Name)
		}
		return v, nil
	}
	switch m.Kind {
	case Count:
	case Sum, Mean:
		v, err := field(m.Fields[0])
		if err != nil {
			return err
		}
		a.num += v
	case Rate:
		v, err := field(m.Fields[0])
		if err != nil {
			return err
		}
		if v != 0 {
			a.num++
		}
	case RatioOfSums:
		for _, f := range m.Fields {
			v, err := field(f)
			if err != nil {
				return err
			}
			a.num += v
		}
		v, err := field(m.Denominator)
		if err != nil {
			return err
		}
		a.den += v
	}
	return nil
}

// Share returns, per group, the fraction of all records that fall in it,
// keyed in first-seen order. Used for role distributions.
func Share[R any, K comparable](records []R, groupKey func(R) K) ([]K, map[K]float64) {
	counts := make(map[K]int)
	var keys []K
	for _, r := range records {
		k := groupKey(r)
		if _, ok := counts[k]; !ok {
			keys = append(keys, k)
		}
		counts[k]++
	}
	out := make(map[K]float64, len(counts))
	for k, c := range counts {
		out[k] = float64(c) / float64(len(records))
	}
	return keys, out
}
