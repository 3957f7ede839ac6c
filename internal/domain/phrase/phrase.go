// Package phrase renders spoken responses from a YAML catalog of
// namespaced template variants.
package phrase

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed responses.yml
var defaultCatalog []byte

// Picker chooses one of n template variants.
type Picker func(n int) int

// First always picks the first variant. Tests use it for determinism.
func First(int) int { return 0 }

// Args are substituted into {key} placeholders.
type Args map[string]any

// Catalog is an immutable set of templates addressed by dotted paths such
// as "champions.ranking.single".
type Catalog struct {
	templates map[string][]string
	pick      Picker
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithPicker overrides the random variant picker.
func WithPicker(p Picker) Option {
	return func(c *Catalog) {
		if p != nil {
			c.pick = p
		}
	}
}

// Default parses the embedded catalog.
func Default(opts ...Option) (*Catalog, error) {
	return Parse(defaultCatalog, opts...)
}

// Parse builds a Catalog from a YAML document of nested maps whose leaves
// are lists of template strings.
func Parse(doc []byte, opts ...Option) (*Catalog, error) {
	var root map[string]any
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	c := &Catalog{
		templates: make(map[string][]string),
		pick:      rand.IntN,
	}
	if err := c.flatten("", root); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Catalog) flatten(prefix string, node map[string]any) error {
	for k, v := range node {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch t := v.(type) {
		case map[string]any:
			if err := c.flatten(path, t); err != nil {
				return err
			}
		case []any:
			variants := make([]string, 0, len(t))
			for _, s := range t {
				str, ok := s.(string)
				if !ok {
					return fmt.Errorf("%w: non-string variant at %s", ErrInvalidCatalog, path)
				}
				variants = append(variants, str)
			}
			if len(variants) == 0 {
				return fmt.Errorf("%w: empty variant list at %s", ErrInvalidCatalog, path)
			}
			c.templates[path] = variants
		case string:
			c.templates[path] = []string{t}
		default:
			return fmt.Errorf("%w: unexpected %T at %s", ErrInvalidCatalog, v, path)
		}
	}
	return nil
}

// Has reports whether a template exists at path.
func (c *Catalog) Has(path string) bool {
	_, ok := c.templates[path]
	return ok
}

// Paths lists every template path, sorted.
func (c *Catalog) Paths() []string {
	out := make([]string, 0, len(c.templates))
	for p := range c.templates {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Render picks a variant at path and substitutes args. Placeholders with
// no matching arg are left in place.
func (c *Catalog) Render(path string, args Args) (string, error) {
	variants, ok := c.templates[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, path)
	}
	i := c.pick(len(variants))
	if i < 0 || i >= len(variants) {
		i = 0
	}
	return Substitute(variants[i], args), nil
}

// Substitute replaces {key} with the formatted value of args[key].
func Substitute(tmpl string, args Args) string {
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
