package ai

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidDimension is returned when a non-positive dimension is configured.
	ErrInvalidDimension = errors.New("dimension must be positive")
)
