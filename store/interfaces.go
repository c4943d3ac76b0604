package store

import (
	"context"

	"github.com/poiesic/anadex/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds catalog entries similar to the given vector.
	// Returns entries with similarity strictly greater than minSimilarity,
	// up to limit results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float64, limit int) ([]*core.SimilarityResult, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// CatalogRepository provides operations for managing catalog entries.
type CatalogRepository interface {
	Repository
	// PutEntries stores one or more catalog entries.
	// IDs are content-based (IDFromContent of the composite key), so
	// re-putting the same entry is idempotent.
	PutEntries(ctx context.Context, entries ...*core.CatalogEntry) error

	// GetEntry retrieves a single catalog entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, id core.ID) (*core.CatalogEntry, error)

	// AllEntries retrieves every catalog entry in storage.
	AllEntries(ctx context.Context) ([]*core.CatalogEntry, error)

	// Count returns the number of catalog entries in storage.
	Count(ctx context.Context) (int, error)

	// DeleteEntries removes catalog entries by their IDs.
	// Returns ErrNotFound if any entry doesn't exist.
	DeleteEntries(ctx context.Context, ids ...core.ID) error
}
