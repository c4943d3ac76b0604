package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/anadex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportEntries(n, dim int) []*core.CatalogEntry {
	entries := make([]*core.CatalogEntry, n)
	for i := range entries {
		entries[i] = &core.CatalogEntry{
			AnalyteCode:     "A" + string(rune('0'+i%10)),
			Label:           "LABEL",
			NormalizedLabel: "label",
			ExternalCode:    "100",
			Chapter:         "CHAP",
			Vector:          make([]float32, dim),
		}
	}
	return entries
}

func TestWriteDocument_Format(t *testing.T) {
	var buf bytes.Buffer
	doc := &Document{
		CollectionName: "FRLISNAQ",
		Data: []*core.CatalogEntry{
			{
				AnalyteCode:     "GLY",
				Label:           "GLYCEMIE",
				NormalizedLabel: "glycemie",
				ExternalCode:    "552",
				Chapter:         "BIOCHIMIE",
				Vector:          []float32{0.5, 0.25},
			},
		},
	}

	require.NoError(t, WriteDocument(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, `"collectionName": "FRLISNAQ"`)
	assert.Contains(t, out, `"Code_Ana": "GLY"`)
	assert.Contains(t, out, `"Libelle_Ana": "GLYCEMIE"`)
	assert.Contains(t, out, `"Libelle_Llm": "glycemie"`)
	assert.Contains(t, out, `"Iata_code": "552"`)
	assert.Contains(t, out, `"Chap_Ana": "BIOCHIMIE"`)
	assert.Contains(t, out, `"vector"`)
}

func TestExportFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	entries := exportEntries(3, 8)

	path, err := ExportFile(dir, "FRLISNAQ", entries)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "milvus_export_"))
	assert.True(t, strings.HasSuffix(path, ".json"))

	doc, err := ReadExportFile(path)
	require.NoError(t, err)
	assert.Equal(t, "FRLISNAQ", doc.CollectionName)
	require.Len(t, doc.Data, 3)
	for i, entry := range doc.Data {
		assert.Equal(t, entries[i].AnalyteCode, entry.AnalyteCode)
		assert.Len(t, entry.Vector, 8)
	}
}

func TestExportFile_EmptyCollectionNameFallsBack(t *testing.T) {
	path, err := ExportFile(t.TempDir(), "", exportEntries(1, 4))
	require.NoError(t, err)

	doc, err := ReadExportFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCollectionName, doc.CollectionName)
}

func TestReadDocument_Invalid(t *testing.T) {
	t.Run("not JSON", func(t *testing.T) {
		_, err := ReadDocument(strings.NewReader("not json"))
		assert.ErrorIs(t, err, ErrInvalidExport)
	})

	t.Run("missing data array", func(t *testing.T) {
		_, err := ReadDocument(strings.NewReader(`{"collectionName":"X"}`))
		assert.ErrorIs(t, err, ErrInvalidExport)
	})
}

func TestReadExportFile_Missing(t *testing.T) {
	_, err := ReadExportFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadExport)
}

func TestReadExportFile_EmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"collectionName":"X","data":[]}`), 0644))

	doc, err := ReadExportFile(path)
	require.NoError(t, err)
	assert.Empty(t, doc.Data)
}
