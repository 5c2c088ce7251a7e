package service

import "errors"

// Business outcomes. Callers match with errors.Is; messages carry the details.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidRange      = errors.New("unknown time range")
	ErrInvalidPrice      = errors.New("price must not be negative")
)
