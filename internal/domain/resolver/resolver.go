// Package resolver maps user-typed names onto a controlled vocabulary of
// canonical keys (champion names, summoner names).
package resolver

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// DefaultThreshold is the minimum similarity accepted as a match.
const DefaultThreshold = 0.7

var foldCaser = cases.Fold()

// Match is a resolved vocabulary entry.
type Match struct {
	Key        string
	Similarity float64
}

// Resolver performs fuzzy lookups. It is stateless and safe for concurrent use.
type Resolver struct {
	threshold float64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThreshold overrides DefaultThreshold. Values outside (0,1] are ignored.
func WithThreshold(t float64) Option {
	return func(r *Resolver) {
		if t > 0 && t <= 1 {
			r.threshold = t
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Threshold returns the configured minimum similarity.
func (r *Resolver) Threshold() float64 { return r.threshold }

// Resolve returns the vocabulary entry closest to query. A case- and
// punctuation-insensitive exact match always wins; otherwise the most similar
// entry at or above the threshold is returned, the earliest on ties.
func (r *Resolver) Resolve(query string, vocabulary []string) (Match, bool) {
	q := normalize(query)
	if q == "" {
		return Match{}, false
	}

	best := Match{}
	found := false
	for _, v := range vocabulary {
		n := normalize(v)
		if n == q {
			return Match{Key: v, Similarity: 1}, true
		}
		s := similarity(q, n)
		if s >= r.threshold && (!found || s > best.Similarity) {
			best = Match{Key: v, Similarity: s}
			found = true
		}
	}
	return best, found
}

// normalize folds case and drops everything but letters and digits so
// "Kha'Zix", "khazix" and "Kha Zix" compare equal.
func normalize(s string) string {
	s = foldCaser.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}
