// Package linguistics turns numbers and identifiers into spoken English.
package linguistics

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/divan/num2words"
	"github.com/gertd/go-pluralize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// English is the default word-form provider. The zero value is not usable;
// construct with NewEnglish.
type English struct {
	plural *pluralize.Client
	title  cases.Caser
	lower  cases.Caser
}

// NewEnglish returns an English linguistics service.
func NewEnglish() *English {
	return &English{
		plural: pluralize.NewClient(),
		title:  cases.Title(language.English),
		lower:  cases.Lower(language.English),
	}
}

// Cardinal returns the word form of n ("three", "twenty-one").
func (e *English) Cardinal(n int) string {
	if n == 0 {
		return "zero"
	}
	return num2words.Convert(n)
}

var irregularOrdinals = map[string]string{
	"one":    "first",
	"two":    "second",
	"three":  "third",
	"five":   "fifth",
	"eight":  "eighth",
	"nine":   "ninth",
	"twelve": "twelfth",
}

// Ordinal returns the ordinal word form of n ("first", "twenty-second").
func (e *English) Ordinal(n int) string {
	words := e.Cardinal(n)
	cut := strings.LastIndexAny(words, " -")
	head, last := words[:cut+1], words[cut+1:]
	if o, ok := irregularOrdinals[last]; ok {
		return head + o
	}
	if strings.HasSuffix(last, "y") {
		return head + strings.TrimSuffix(last, "y") + "ieth"
	}
	return head + last + "th"
}

// Pluralize returns noun in the form matching count.
func (e *English) Pluralize(noun string, count int) string {
	return e.plural.Pluralize(noun, count, false)
}

// PluralVerb agrees a copula with count: "is"/"are", "has"/"have".
func (e *English) PluralVerb(verb string, count int) string {
	if count == 1 {
		return verb
	}
	switch verb {
	case "is":
		return "are"
	case "was":
		return "were"
	case "has":
		return "have"
	}
	return verb
}

// Conjunction joins items as spoken English: "a", "a and b", "a, b, and c".
func (e *English) Conjunction(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

// Humanize turns an identifier such as DUO_CARRY into "Duo carry".
func (e *English) Humanize(ident string) string {
	s := e.lower.String(strings.ReplaceAll(strings.TrimSpace(ident), "_", " "))
	if s == "" {
		return s
	}
	first, rest, _ := strings.Cut(s, " ")
	first = e.title.String(first)
	if rest == "" {
		return first
	}
	return first + " " + rest
}

// Titleize capitalises every word: "silver" -> "Silver".
func (e *English) Titleize(s string) string {
	return e.title.String(strings.ReplaceAll(s, "_", " "))
}

// Times renders a spoken frequency: "one time", "two times".
func (e *English) Times(n int) string {
	return e.Cardinal(n) + " " + e.Pluralize("time", n)
}

// Percent formats a ratio in [0,1] with one decimal: 0.5 -> "50.0%".
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// Rounded formats v rounded to two places, keeping at least one decimal:
// 6.046 -> "6.05", 50 -> "50.0".
func Rounded(v float64) string {
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Decimal formats a metric with one decimal place.
func Decimal(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
