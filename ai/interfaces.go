package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	//
	// Labels are embedded one at a time so a failing item can be
	// degraded without aborting the rest of a batch.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Provider creates and manages the embedding service, ensuring configuration
// and resources are shared appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
