package service

import "errors"

// Error kinds surfaced to the caller. Handlers match with errors.Is; the
// wrapped message names the offending field or condition.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("not found")
	ErrPersistence       = errors.New("persistence failure")
)
