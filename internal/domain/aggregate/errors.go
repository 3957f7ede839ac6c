package aggregate

import "errors"

var (
	// ErrUnknownField is returned when a metric references a field a record does not carry.
	ErrUnknownField = errors.New("unknown metric field")
	// ErrInvalidMetric is returned for malformed metric definitions.
	ErrInvalidMetric = errors.New("invalid metric")
)
