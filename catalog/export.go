package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/anadex/core"
)

// DefaultCollectionName is used when an export document carries no collection
// name of its own.
const DefaultCollectionName = "FRLISNAQ"

// Document is the bulk-import JSON structure consumed by the vector
// collection service.
type Document struct {
	CollectionName string               `json:"collectionName"`
	Data           []*core.CatalogEntry `json:"data"`
}

// exportFileName returns a timestamped export file name, e.g.
// milvus_export_20250120_172832.json.
func exportFileName(now time.Time) string {
	return fmt.Sprintf("milvus_export_%s.json", now.Format("20060102_150405"))
}

// WriteDocument writes the export document as two-space-indented JSON.
func WriteDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// ExportFile writes entries as an export document into dir under a
// timestamped file name and returns the full path. The directory is created
// if needed; an empty dir writes into the current directory. An empty
// collection name falls back to DefaultCollectionName.
func ExportFile(dir, collectionName string, entries []*core.CatalogEntry) (string, error) {
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}

	name := exportFileName(time.Now())
	path := name
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrWriteExport, dir, err)
		}
		path = filepath.Join(dir, name)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWriteExport, path, err)
	}
	defer f.Close()

	doc := &Document{CollectionName: collectionName, Data: entries}
	if err := WriteDocument(f, doc); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWriteExport, path, err)
	}
	return path, nil
}

// ReadDocument parses an export document from r.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("%w: missing data array", ErrInvalidExport)
	}
	return &doc, nil
}

// ReadExportFile opens path and parses it as an export document.
func ReadExportFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadExport, path, err)
	}
	defer f.Close()

	doc, err := ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
