package repository

import "errors"

// Sentinel kinds for performance store errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrUnknownColumn = errors.New("unknown filter column")
	ErrInvalidRecord = errors.New("invalid record")
)
