package ai

import (
	"context"
	"log/slog"
)

// Embedding is the outcome of embedding one text through the Adapter.
// Degradation is data, not a swallowed error: a failing external call yields
// a zero vector with Degraded set and the cause in Err, so callers can count
// degraded items deterministically.
type Embedding struct {
	Vector   []float32
	Degraded bool
	Err      error
}

// Adapter wraps an Embedder and enforces a fixed output dimensionality.
// Vectors longer than the configured dimension are truncated, shorter ones
// are right-padded with zeros.
type Adapter struct {
	embedder  Embedder
	dimension int
	logger    *slog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithAdapterLogger sets a custom logger. Default is slog.Default().
func WithAdapterLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
	}
}

// NewAdapter creates an adapter enforcing the given dimension.
func NewAdapter(embedder Embedder, dimension int, opts ...AdapterOption) (*Adapter, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if dimension <= 0 {
		return nil, ErrInvalidDimension
	}

	a := &Adapter{
		embedder:  embedder,
		dimension: dimension,
		logger:    slog.Default().With("component", "embedding-adapter"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Dimension returns the enforced vector length.
func (a *Adapter) Dimension() int {
	return a.dimension
}

// Embed calls the external embedder once for text. The returned vector always
// has exactly the configured dimension; an embedder failure degrades this one
// item to a zero vector instead of propagating an error.
func (a *Adapter) Embed(ctx context.Context, text string) Embedding {
	vector, err := a.embedder.EmbedText(ctx, text)
	if err != nil {
		a.logger.Warn("embedding degraded to zero vector", "text", text, "err", err)
		return Embedding{
			Vector:   make([]float32, a.dimension),
			Degraded: true,
			Err:      err,
		}
	}
	return Embedding{Vector: Fit(vector, a.dimension)}
}

// EmbedAll maps Embed over texts. Per-item failures never abort the batch;
// each failing item is degraded independently.
func (a *Adapter) EmbedAll(ctx context.Context, texts []string) []Embedding {
	results := make([]Embedding, len(texts))
	for i, text := range texts {
		results[i] = a.Embed(ctx, text)
	}
	return results
}

// Fit forces vector to exactly dimension elements: longer vectors are
// truncated, shorter ones right-padded with zeros. The input is never
// modified; a copy is returned when resizing is needed.
func Fit(vector []float32, dimension int) []float32 {
	switch {
	case len(vector) == dimension:
		return vector
	case len(vector) > dimension:
		out := make([]float32, dimension)
		copy(out, vector[:dimension])
		return out
	default:
		out := make([]float32, dimension)
		copy(out, vector)
		return out
	}
}
