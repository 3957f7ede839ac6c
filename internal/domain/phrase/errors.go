package phrase

import "errors"

var (
	// ErrUnknownTemplate is returned when no template exists at a path.
	ErrUnknownTemplate = errors.New("unknown response template")
	// ErrInvalidCatalog is returned when a catalog document cannot be parsed.
	ErrInvalidCatalog = errors.New("invalid response catalog")
)
