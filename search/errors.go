package search

import "errors"

var (
	// ErrAdapterRequired is returned when an embedding adapter is not provided.
	ErrAdapterRequired = errors.New("embedding adapter required")

	// ErrInvalidThreshold is returned when the similarity threshold is outside [-1, 1].
	ErrInvalidThreshold = errors.New("threshold must be in [-1, 1]")
)
