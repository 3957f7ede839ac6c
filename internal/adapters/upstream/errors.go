package upstream

import "errors"

// Sentinel kinds for upstream API errors.
var (
	// ErrNotFound is a 404 from upstream.
	ErrNotFound = errors.New("upstream resource not found")
	// ErrStatus is any other non-2xx response.
	ErrStatus = errors.New("unexpected upstream status")
	// ErrDecode is a body that could not be parsed.
	ErrDecode = errors.New("decode upstream response")
)
