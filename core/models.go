package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing of the composite dedup key,
// so identical catalog candidates always map to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ExtractionRecord is one deduplicated analyte catalog candidate extracted
// from an MFE/OM1 segment pair.
type ExtractionRecord struct {
	AnalyteCode  string // OM1 field 3, sub-field 1
	Label        string // OM1 field 3, sub-field 2
	Chapter      string // OM1 field 3, sub-field 3
	ExternalCode string // MFE field 5, sub-field 2 (SEL code)

	// Captured source fields, carried for the extraction report.
	DefinitionRef    string // MFE field 4
	DefinitionField  string // full MFE field 5
	ObservationField string // full OM1 field 3
}

// CompositeKey returns the dedup key "code|label|chapter|external".
// It is also the content used to derive the record's store ID.
func (r *ExtractionRecord) CompositeKey() string {
	return strings.Join([]string{r.AnalyteCode, r.Label, r.Chapter, r.ExternalCode}, "|")
}

// Id returns the content-based identifier for the record.
func (r *ExtractionRecord) Id() ID {
	return IDFromContent(r.CompositeKey())
}

// CatalogEntry is the final unit stored and indexed in the vector collection.
// JSON tags follow the collection's bulk-import format.
type CatalogEntry struct {
	AnalyteCode     string    `json:"Code_Ana"`
	Label           string    `json:"Libelle_Ana"`
	NormalizedLabel string    `json:"Libelle_Llm"`
	ExternalCode    string    `json:"Iata_code"`
	Chapter         string    `json:"Chap_Ana"`
	Vector          []float32 `json:"vector"`
}

// CompositeKey returns the dedup key of the extraction record the entry was
// built from.
func (e *CatalogEntry) CompositeKey() string {
	return strings.Join([]string{e.AnalyteCode, e.Label, e.Chapter, e.ExternalCode}, "|")
}

// Id returns the content-based identifier for the entry.
func (e *CatalogEntry) Id() ID {
	return IDFromContent(e.CompositeKey())
}

// SimilarityResult is one ranked hit from a similarity search.
// Score is cosine similarity in [-1, 1].
type SimilarityResult struct {
	AnalyteCode string
	Label       string
	Score       float64
}
