package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/rift/internal/domain/describe"
	"github.com/okian/rift/internal/domain/model"
	"github.com/okian/rift/internal/domain/phrase"
	"github.com/okian/rift/internal/domain/ranking"
	"github.com/okian/rift/internal/domain/types"
	"github.com/okian/rift/pkg/logger"
	"github.com/okian/rift/pkg/metrics"
)

// window turns list parameters into a ranking window. Sizes above the
// configured maximum are capped.
func (s *Service) window(l types.List) (ranking.Window, error) {
	w := ranking.DefaultWindow()
	if l.ListSize.Set {
		w.Size = min(l.ListSize.Value, s.maxListSize)
	}
	if l.ListPosition.Set {
		w.Position = l.ListPosition.Value
	}
	d, err := ranking.ParseDirection(l.ListOrder)
	if err != nil {
		return w, invalid("the list order %s is not highest or lowest", l.ListOrder)
	}
	w.Direction = d
	if err := w.Validate(); err != nil {
		return w, invalid("the list position must be at least one and the list size cannot be negative")
	}
	return w, nil
}

// speakRanked renders a ranked list. path names the template group; args
// carries the endpoint specific placeholders and is extended with the list
// fragments.
func (s *Service) speakRanked(endpoint, path string, sum ranking.Summary, dir ranking.Direction, names []string, args phrase.Args) (string, error) {
	metrics.RecordRankRequest(endpoint, dir.String(), sum.Selected)
	d := describe.Describe(sum, "champion", s.english)
	if d.Shortfall != describe.None {
		metrics.RecordRankShortfall(endpoint, d.Shortfall.String())
	}

	switch {
	case sum.Requested == 0:
		return s.catalog.Render(path+".none_requested", args)
	case sum.Available == 0 && sum.Offset == 1:
		return s.catalog.Render(path+".empty", args)
	case d.Shortfall == describe.Overrun:
		args["available"] = s.english.Cardinal(sum.Available) + " " + s.english.Pluralize("champion", sum.Available)
		args["position"] = s.english.Ordinal(sum.Offset)
		return s.catalog.Render(path+".overrun", args)
	}

	args["order"] = dir.String()
	args["names"] = s.english.Conjunction(names)
	args["ordinal"] = ""
	if d.OffsetPhrase != "" {
		args["ordinal"] = d.OffsetPhrase + " "
	}
	args["window"] = d.OffsetPhrase
	if d.OffsetPhrase == "" {
		args["window"] = d.SizePhrase
	}

	variant := ".multiple"
	if sum.Selected == 1 {
		variant = ".single"
	}
	speech, err := s.catalog.Render(path+variant, args)
	if err != nil {
		return "", err
	}
	if d.Shortfall == describe.Scarcity {
		speech = d.ShortfallClause + speech
	}
	return speech, nil
}

// champions returns the cached roster.
func (s *Service) champions(ctx context.Context) (model.Champions, error) {
	roster, found, err := s.cache.Champions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: champions: %w", ErrUnavailable, err)
	}
	if !found || len(roster) == 0 {
		return nil, fmt.Errorf("%w: champion roster is empty", ErrUnavailable)
	}
	return roster, nil
}

// resolveChampion maps a spoken name onto the roster, exactly first and
// fuzzily otherwise.
func (s *Service) resolveChampion(ctx context.Context, name string) (model.Champion, error) {
	roster, err := s.champions(ctx)
	if err != nil {
		return model.Champion{}, err
	}
	if ch, ok := roster[name]; ok {
		metrics.RecordResolverLookup("champions", "exact")
		return ch, nil
	}
	m, ok := s.resolver.Resolve(name, roster.Names())
	if !ok {
		metrics.RecordResolverLookup("champions", "miss")
		return model.Champion{}, &LookupError{Kind: ErrUnknownChampion, Name: name}
	}
	result := "fuzzy"
	if m.Similarity == 1 {
		result = "exact"
	}
	metrics.RecordResolverLookup("champions", result)
	return roster[m.Key], nil
}

// Explain renders err as a spoken sentence for the caller.
func (s *Service) Explain(ctx context.Context, err error) string {
	var (
		path string
		args = phrase.Args{}
		le   *LookupError
	)
	switch {
	case errors.As(err, &le) && errors.Is(le.Kind, ErrUnknownSummoner):
		path = "errors.unknown_summoner"
		args["name"], args["region"] = le.Name, le.Region
	case errors.As(err, &le) && errors.Is(le.Kind, ErrUnknownChampion):
		path = "errors.unknown_champion"
		args["name"] = le.Name
	case errors.Is(err, ErrInvalidParameters):
		path = "errors.invalid_parameters"
		args["details"] = details(err)
	default:
		path = "errors.unavailable"
		if !isUnavailable(err) {
			s.logger.Error(ctx, "query failed", logger.Error(err))
		}
	}

	speech, rerr := s.catalog.Render(path, args)
	if rerr != nil {
		s.logger.Error(ctx, "rendering error response failed", logger.Error(rerr))
		return "Sorry, I cannot answer that right now."
	}
	return speech
}

// details turns "invalid parameters: the role x is unknown" into "The role
// x is unknown."
func details(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ErrInvalidParameters.Error()+": "); i >= 0 {
		msg = msg[i+len(ErrInvalidParameters.Error())+2:]
	}
	if msg == "" {
		return ""
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
