package badger

import (
	"context"
	"testing"

	"github.com/poiesic/anadex/core"
	"github.com/poiesic/anadex/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) store.CatalogRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestCatalogBasics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entry := &core.CatalogEntry{
		AnalyteCode:     "GLYC",
		Label:           "GLYCEMIE A JEUN",
		NormalizedLabel: "glycemie-a-jeun",
		ExternalCode:    "1558-6",
		Chapter:         "BIOCHIMIE",
		Vector:          []float32{0.1, 0.2, 0.3},
	}

	require.NoError(t, repo.PutEntries(ctx, entry))

	retrieved, err := repo.GetEntry(ctx, entry.Id())
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, "GLYC", retrieved.AnalyteCode)
	assert.Equal(t, "glycemie-a-jeun", retrieved.NormalizedLabel)
	assert.Equal(t, entry.Vector, retrieved.Vector)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetEntry_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetEntry(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPutEntries_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entry := &core.CatalogEntry{
		AnalyteCode: "NA",
		Label:       "SODIUM",
		Chapter:     "BIOCHIMIE",
	}

	// Content-based IDs make repeated puts overwrite, not duplicate.
	require.NoError(t, repo.PutEntries(ctx, entry))
	require.NoError(t, repo.PutEntries(ctx, entry))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAllEntries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entries := []*core.CatalogEntry{
		{AnalyteCode: "NA", Label: "SODIUM", Chapter: "BIOCHIMIE"},
		{AnalyteCode: "K", Label: "POTASSIUM", Chapter: "BIOCHIMIE"},
		{AnalyteCode: "TSH", Label: "TSH", Chapter: "HORMONOLOGIE"},
	}
	require.NoError(t, repo.PutEntries(ctx, entries...))

	all, err := repo.AllEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	codes := make(map[string]bool)
	for _, e := range all {
		codes[e.AnalyteCode] = true
	}
	assert.True(t, codes["NA"])
	assert.True(t, codes["K"])
	assert.True(t, codes["TSH"])

	// Fixed-width BigEndian keys make the prefix scan visit entries in
	// ascending ID order.
	for i := 1; i < len(all); i++ {
		assert.Less(t, uint64(all[i-1].Id()), uint64(all[i].Id()))
	}
}

func TestDeleteEntries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entry := &core.CatalogEntry{AnalyteCode: "NA", Label: "SODIUM"}
	require.NoError(t, repo.PutEntries(ctx, entry))

	require.NoError(t, repo.DeleteEntries(ctx, entry.Id()))

	_, err := repo.GetEntry(ctx, entry.Id())
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Deleting a missing entry reports not found.
	err = repo.DeleteEntries(ctx, entry.Id())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindSimilar_ViaRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutEntries(ctx, &core.CatalogEntry{
		AnalyteCode: "GLYC",
		Label:       "GLYCEMIE",
		Vector:      []float32{0.6, 0.8},
	}))

	results, err := repo.FindSimilar(ctx, []float32{0.6, 0.8}, 0.8, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "GLYC", results[0].AnalyteCode)
	assert.Equal(t, "GLYCEMIE", results[0].Label)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}
