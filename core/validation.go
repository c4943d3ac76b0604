// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// Maximum string field lengths enforced by the vector collection schema.
const (
	MaxAnalyteCodeLen     = 20
	MaxLabelLen           = 50
	MaxNormalizedLabelLen = 50
	MaxExternalCodeLen    = 40
	MaxChapterLen         = 40
)

// ValidateExtractionRecord validates an ExtractionRecord according to domain rules.
//
// Validation rules:
//   - AnalyteCode must not be empty
//   - Label must not be empty
//
// NOT validated:
//   - Chapter and ExternalCode (legitimately empty for some feeds)
//   - Captured source fields (report-only payload)
func ValidateExtractionRecord(record *ExtractionRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidExtractionRecord)
	}

	if record.AnalyteCode == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExtractionRecord, ErrEmptyAnalyteCode)
	}

	if record.Label == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExtractionRecord, ErrEmptyLabel)
	}

	return nil
}

// ValidateCatalogEntry validates a CatalogEntry against the vector collection
// schema: required fields present, string fields within schema limits, and a
// vector of exactly dimension elements.
func ValidateCatalogEntry(entry *CatalogEntry, dimension int) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidCatalogEntry)
	}

	if entry.AnalyteCode == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogEntry, ErrEmptyAnalyteCode)
	}

	if entry.Label == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogEntry, ErrEmptyLabel)
	}

	limits := []struct {
		name  string
		value string
		max   int
	}{
		{"Code_Ana", entry.AnalyteCode, MaxAnalyteCodeLen},
		{"Libelle_Ana", entry.Label, MaxLabelLen},
		{"Libelle_Llm", entry.NormalizedLabel, MaxNormalizedLabelLen},
		{"Iata_code", entry.ExternalCode, MaxExternalCodeLen},
		{"Chap_Ana", entry.Chapter, MaxChapterLen},
	}
	for _, l := range limits {
		if len(l.value) > l.max {
			return fmt.Errorf("%w: %w: %s is %d chars (max %d)",
				ErrInvalidCatalogEntry, ErrFieldTooLong, l.name, len(l.value), l.max)
		}
	}

	if len(entry.Vector) != dimension {
		return fmt.Errorf("%w: %w: got %d, want %d",
			ErrInvalidCatalogEntry, ErrVectorDimension, len(entry.Vector), dimension)
	}

	return nil
}
