package ranking

import "errors"

// Sentinel kinds for ranking contract violations. These are caller bugs,
// not data conditions: empty collections and out-of-range windows are
// valid input and never produce an error.
var (
	ErrInvalidWindow = errors.New("invalid ranking window")
	ErrDuplicateKey  = errors.New("duplicate key in collection")
	ErrUndefinedKey  = errors.New("sort key undefined for entry")
)
