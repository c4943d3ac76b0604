package hl7

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/poiesic/anadex/core"
)

// Segment type tags handled by the extractor.
const (
	segmentMFE = "MFE" // master file entry (definition)
	segmentOM1 = "OM1" // general observation (analyte)
)

const (
	fieldDelimiter    = "|"
	subFieldDelimiter = "^"
)

// Chapters carrying no analyte data. Pairs tagged with one of these are
// dropped before dedup.
var defaultExcludedChapters = []string{"ADMINISTRATIF", "CONCLUSION"}

// FieldLengths holds the running maxima of sub-field widths observed across
// admitted records. The figures size the VarChar columns of the vector
// collection schema.
type FieldLengths struct {
	AnalyteCode  int
	Label        int
	Chapter      int
	ExternalCode int
}

// Stats summarizes one extraction run.
type Stats struct {
	UniqueCount    int
	DuplicateCount int
}

// Result is the complete output of an extraction run.
type Result struct {
	Records    []*core.ExtractionRecord
	MaxLengths FieldLengths
	Stats      Stats
	// Chapters lists every distinct chapter value encountered, sorted,
	// including the excluded ones.
	Chapters []string
}

// Extractor scans HL7 feed lines for MFE/OM1 segment pairs.
type Extractor struct {
	excluded map[string]bool
	logger   *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// WithExcludedChapters overrides the chapter values whose pairs are dropped.
func WithExcludedChapters(chapters ...string) Option {
	return func(e *Extractor) {
		e.excluded = make(map[string]bool, len(chapters))
		for _, c := range chapters {
			e.excluded[c] = true
		}
	}
}

// NewExtractor creates an extractor with the default excluded chapters.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		excluded: make(map[string]bool, len(defaultExcludedChapters)),
		logger:   slog.Default().With("component", "hl7-extractor"),
	}
	for _, c := range defaultExcludedChapters {
		e.excluded[c] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// subField returns the idx-th caret-delimited sub-token of parts, or "" when
// absent.
func subField(parts []string, idx int) string {
	if idx < len(parts) {
		return parts[idx]
	}
	return ""
}

// Extract scans lines by index, pairing each MFE line with the immediately
// following OM1 line. Qualifying pairs are deduplicated on the composite key
// code|label|chapter|external; the first occurrence wins and later identical
// pairs only bump the duplicate counter. Malformed lines are skipped without
// counting.
func (e *Extractor) Extract(lines []string) *Result {
	result := &Result{}
	seen := make(map[string]bool)
	chapters := make(map[string]bool)

	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], segmentMFE) {
			continue
		}

		mfeFields := strings.Split(lines[i], fieldDelimiter)
		if len(mfeFields) < 5 {
			continue
		}
		definitionField := mfeFields[4]
		externalCode := subField(strings.Split(definitionField, subFieldDelimiter), 1)

		if i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], segmentOM1) {
			continue
		}
		om1Fields := strings.Split(lines[i+1], fieldDelimiter)
		if len(om1Fields) < 4 {
			continue
		}

		observationField := om1Fields[3]
		subs := strings.Split(observationField, subFieldDelimiter)
		analyteCode := subField(subs, 0)
		labelText := subField(subs, 1)
		chapter := subField(subs, 2)

		chapters[chapter] = true
		if e.excluded[chapter] {
			continue
		}

		record := &core.ExtractionRecord{
			AnalyteCode:      analyteCode,
			Label:            labelText,
			Chapter:          chapter,
			ExternalCode:     externalCode,
			DefinitionRef:    mfeFields[3],
			DefinitionField:  definitionField,
			ObservationField: observationField,
		}

		key := record.CompositeKey()
		if seen[key] {
			result.Stats.DuplicateCount++
			continue
		}
		seen[key] = true
		result.Records = append(result.Records, record)
		result.Stats.UniqueCount++

		result.MaxLengths.AnalyteCode = max(result.MaxLengths.AnalyteCode, len(analyteCode))
		result.MaxLengths.Label = max(result.MaxLengths.Label, len(labelText))
		result.MaxLengths.Chapter = max(result.MaxLengths.Chapter, len(chapter))
		result.MaxLengths.ExternalCode = max(result.MaxLengths.ExternalCode, len(externalCode))
	}

	result.Chapters = make([]string, 0, len(chapters))
	for c := range chapters {
		result.Chapters = append(result.Chapters, c)
	}
	sort.Strings(result.Chapters)

	e.logger.Info("extraction finished",
		"unique", result.Stats.UniqueCount,
		"duplicates", result.Stats.DuplicateCount,
		"chapters", len(result.Chapters))

	return result
}

// ExtractFile reads an HL7 feed file and extracts its records. A read failure
// is terminal for this file: an empty Result with zero counts is returned
// together with an error naming the path.
func (e *Extractor) ExtractFile(path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		e.logger.Error("cannot read HL7 input", "path", path, "err", err)
		return &Result{}, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}
	return e.Extract(strings.Split(string(content), "\n")), nil
}

// Merge combines per-document extraction results into one, re-applying the
// composite-key dedup across document boundaries. Record order follows the
// argument order with first-seen wins; field maxima are recomputed over the
// admitted records. Extraction itself stays document-at-a-time: a segment
// pair never spans a document boundary.
func Merge(results ...*Result) *Result {
	merged := &Result{}
	seen := make(map[string]bool)
	chapters := make(map[string]bool)

	for _, result := range results {
		if result == nil {
			continue
		}
		merged.Stats.DuplicateCount += result.Stats.DuplicateCount
		for _, chapter := range result.Chapters {
			chapters[chapter] = true
		}
		for _, record := range result.Records {
			key := record.CompositeKey()
			if seen[key] {
				merged.Stats.DuplicateCount++
				continue
			}
			seen[key] = true
			merged.Records = append(merged.Records, record)
			merged.Stats.UniqueCount++

			merged.MaxLengths.AnalyteCode = max(merged.MaxLengths.AnalyteCode, len(record.AnalyteCode))
			merged.MaxLengths.Label = max(merged.MaxLengths.Label, len(record.Label))
			merged.MaxLengths.Chapter = max(merged.MaxLengths.Chapter, len(record.Chapter))
			merged.MaxLengths.ExternalCode = max(merged.MaxLengths.ExternalCode, len(record.ExternalCode))
		}
	}

	merged.Chapters = make([]string, 0, len(chapters))
	for chapter := range chapters {
		merged.Chapters = append(merged.Chapters, chapter)
	}
	sort.Strings(merged.Chapters)

	return merged
}
