package cache

import "errors"

// ErrNotFound is returned by a Loader when upstream has no data for a key.
// The cache reports such lookups as not found rather than failed.
var ErrNotFound = errors.New("collection not found")
