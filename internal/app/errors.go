package service

import (
	"errors"
	"fmt"

	"github.com/okian/rift/internal/domain/types"
)

// Sentinel kinds for query failures. Each maps to a spoken sentence via
// Explain.
var (
	ErrInvalidParameters = types.ErrInvalidParameters
	ErrUnknownChampion   = errors.New("unknown champion")
	ErrUnknownSummoner   = errors.New("unknown summoner")
	ErrUnavailable       = errors.New("data unavailable")
	ErrNotStarted        = errors.New("service not started")
)

// LookupError names what could not be resolved.
type LookupError struct {
	Kind   error
	Name   string
	Region string
}

func (e *LookupError) Error() string {
	if e.Region != "" {
		return fmt.Sprintf("%v: %q in %s", e.Kind, e.Name, e.Region)
	}
	return fmt.Sprintf("%v: %q", e.Kind, e.Name)
}

func (e *LookupError) Unwrap() error { return e.Kind }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameters, fmt.Sprintf(format, args...))
}
