package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuantity indicates a mutation carried a quantity below 1.
	// Callers that want an item gone must use Remove, not a zero update.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)
