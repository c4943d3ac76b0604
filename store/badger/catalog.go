package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/anadex/core"
	"github.com/poiesic/anadex/store"
)

// CatalogRepository implements store.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ store.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	return &CatalogRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CatalogRepository has no resources to release.
func (r *CatalogRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *CatalogRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float64, limit int) ([]*core.SimilarityResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *CatalogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutEntries stores one or more catalog entries.
// IDs are content-based, so putting the same entry twice overwrites in place.
func (r *CatalogRepository) PutEntries(ctx context.Context, entries ...*core.CatalogEntry) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			key := makeCatalogEntryKey(entry.Id())
			value := store.MarshalCatalogEntry(entry)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEntry retrieves a single catalog entry by ID.
func (r *CatalogRepository) GetEntry(ctx context.Context, id core.ID) (*core.CatalogEntry, error) {
	var result *core.CatalogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCatalogEntryKey(id)
		var err error
		result, err = readEntry(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return store.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// AllEntries retrieves every catalog entry from storage.
func (r *CatalogRepository) AllEntries(ctx context.Context) ([]*core.CatalogEntry, error) {
	var results []*core.CatalogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(catalogEntryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var entry *core.CatalogEntry
			err := item.Value(func(val []byte) error {
				var err error
				entry, err = store.UnmarshalCatalogEntry(val)
				return err
			})
			if err != nil {
				return err
			}

			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)

	return results, err
}

// Count returns the number of catalog entries in storage.
// Values are not prefetched; only keys are scanned.
func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(catalogEntryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// DeleteEntries removes catalog entries by their IDs.
func (r *CatalogRepository) DeleteEntries(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCatalogEntryKey(id)

			entry, err := readEntry(tx, key)
			if err != nil {
				return err
			}
			if entry == nil {
				return store.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readEntry reads a catalog entry from the transaction.
func readEntry(tx *badger.Txn, key []byte) (*core.CatalogEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.CatalogEntry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = store.UnmarshalCatalogEntry(val)
		return err
	})
	return entry, err
}
