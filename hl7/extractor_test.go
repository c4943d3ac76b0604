package hl7

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_QualifyingPair(t *testing.T) {
	lines := []string{
		"MFE|1|2|3|X^Y",
		"OM1|1|2|P^Q^R",
	}

	result := NewExtractor().Extract(lines)

	require.Len(t, result.Records, 1)
	record := result.Records[0]
	assert.Equal(t, "P", record.AnalyteCode)
	assert.Equal(t, "Q", record.Label)
	assert.Equal(t, "R", record.Chapter)
	assert.Equal(t, "Y", record.ExternalCode)
	assert.Equal(t, "P|Q|R|Y", record.CompositeKey())
	assert.Equal(t, "3", record.DefinitionRef)
	assert.Equal(t, "X^Y", record.DefinitionField)
	assert.Equal(t, "P^Q^R", record.ObservationField)
	assert.Equal(t, 1, result.Stats.UniqueCount)
	assert.Equal(t, 0, result.Stats.DuplicateCount)
}

func TestExtract_ExcludedChapters(t *testing.T) {
	lines := []string{
		"MFE|a|b|c|A^B",
		"OM1|a|b|C^D^ADMINISTRATIF",
		"MFE|a|b|c|A^B",
		"OM1|a|b|C^D^CONCLUSION",
	}

	result := NewExtractor().Extract(lines)

	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.Stats.UniqueCount)
	assert.Equal(t, 0, result.Stats.DuplicateCount)
	// Excluded chapters still show up in the distinct chapter listing.
	assert.Equal(t, []string{"ADMINISTRATIF", "CONCLUSION"}, result.Chapters)
}

func TestExtract_NoRecordCarriesExcludedChapter(t *testing.T) {
	lines := []string{
		"MFE|1|2|3|X^Y",
		"OM1|1|2|P^Q^R",
		"MFE|1|2|3|X^Z",
		"OM1|1|2|C^D^ADMINISTRATIF",
		"MFE|1|2|3|X^W",
		"OM1|1|2|E^F^BIOCHIMIE",
	}

	result := NewExtractor().Extract(lines)

	require.Len(t, result.Records, 2)
	for _, r := range result.Records {
		assert.NotEqual(t, "ADMINISTRATIF", r.Chapter)
		assert.NotEqual(t, "CONCLUSION", r.Chapter)
	}
}

func TestExtract_Deduplication(t *testing.T) {
	lines := []string{
		"MFE|1|2|3|X^Y",
		"OM1|1|2|P^Q^R",
		"MFE|1|2|3|X^Y",
		"OM1|1|2|P^Q^R",
	}

	result := NewExtractor().Extract(lines)

	require.Len(t, result.Records, 1)
	assert.Equal(t, 1, result.Stats.UniqueCount)
	assert.Equal(t, 1, result.Stats.DuplicateCount)
}

func TestExtract_FirstSeenOrderPreserved(t *testing.T) {
	lines := []string{
		"MFE|1|2|3|X^B",
		"OM1|1|2|ZZZ^Z label^CHAP",
		"MFE|1|2|3|X^A",
		"OM1|1|2|AAA^A label^CHAP",
		"MFE|1|2|3|X^B",
		"OM1|1|2|ZZZ^Z label^CHAP",
	}

	result := NewExtractor().Extract(lines)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "ZZZ", result.Records[0].AnalyteCode)
	assert.Equal(t, "AAA", result.Records[1].AnalyteCode)
	assert.Equal(t, 1, result.Stats.DuplicateCount)
}

func TestExtract_Determinism(t *testing.T) {
	lines := []string{
		"MFE|1|2|3|X^Y",
		"OM1|1|2|P^Q^R",
		"MFE|1|2|3|X^Z",
		"OM1|1|2|A^B^C",
		"MFE|1|2|3|X^Y",
		"OM1|1|2|P^Q^R",
		"junk line",
		"OM1|orphan|line|D^E^F",
	}

	first := NewExtractor().Extract(lines)
	second := NewExtractor().Extract(lines)

	require.Equal(t, len(first.Records), len(second.Records))
	for i := range first.Records {
		assert.Equal(t, first.Records[i].CompositeKey(), second.Records[i].CompositeKey())
	}
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.MaxLengths, second.MaxLengths)
	assert.Equal(t, first.Chapters, second.Chapters)
}

func TestExtract_DedupInvariant(t *testing.T) {
	// uniqueCount + duplicateCount must equal the number of qualifying
	// adjacent pairs (excluded and malformed pairs not counted).
	lines := []string{
		"MFE|1|2|3|X^Y",
		"OM1|1|2|P^Q^R", // qualifying
		"MFE|1|2|3|X^Y",
		"OM1|1|2|P^Q^R", // qualifying duplicate
		"MFE|1|2|3|X^Y",
		"OM1|1|2|C^D^ADMINISTRATIF", // excluded
		"MFE|short",                 // malformed MFE
		"OM1|1|2|E^F^G",
		"MFE|1|2|3|A^B",
		"OM1|too-short", // malformed OM1
		"MFE|1|2|3|M^N",
		"OM1|1|2|S^T^U", // qualifying
	}
	const qualifyingPairs = 3

	result := NewExtractor().Extract(lines)

	assert.Equal(t, qualifyingPairs, result.Stats.UniqueCount+result.Stats.DuplicateCount)
	assert.Equal(t, 2, result.Stats.UniqueCount)
	assert.Equal(t, 1, result.Stats.DuplicateCount)
}

func TestMerge_AcrossDocuments(t *testing.T) {
	extractor := NewExtractor()

	t.Run("dedup spans documents, order follows arguments", func(t *testing.T) {
		first := extractor.Extract([]string{
			"MFE|1|2|3|X^Y",
			"OM1|1|2|P^Q^R",
			"MFE|1|2|3|A^B",
			"OM1|1|2|S^T^ADMINISTRATIF",
		})
		second := extractor.Extract([]string{
			"MFE|1|2|3|X^Y",
			"OM1|1|2|P^Q^R", // duplicate of a record in first
			"MFE|1|2|3|M^N",
			"OM1|1|2|E^F^G",
		})

		merged := Merge(first, second)

		require.Len(t, merged.Records, 2)
		assert.Equal(t, "P|Q|R|Y", merged.Records[0].CompositeKey())
		assert.Equal(t, "E|F|G|N", merged.Records[1].CompositeKey())
		assert.Equal(t, 2, merged.Stats.UniqueCount)
		assert.Equal(t, 1, merged.Stats.DuplicateCount)
		assert.Equal(t, []string{"ADMINISTRATIF", "G", "R"}, merged.Chapters)
	})

	t.Run("a pair never forms across a document boundary", func(t *testing.T) {
		// A trailing MFE in one document and a leading OM1 in the next
		// are unrelated; neither qualifies on its own.
		first := extractor.Extract([]string{"MFE|1|2|3|X^Y"})
		second := extractor.Extract([]string{"OM1|1|2|P^Q^R"})

		merged := Merge(first, second)

		assert.Empty(t, merged.Records)
		assert.Equal(t, 0, merged.Stats.UniqueCount)
		assert.Equal(t, 0, merged.Stats.DuplicateCount)
	})

	t.Run("nil and empty results are tolerated", func(t *testing.T) {
		merged := Merge(nil, &Result{})
		assert.Empty(t, merged.Records)
	})
}

func TestExtract_MalformedAndNonAdjacentLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{
			name:  "MFE with too few fields",
			lines: []string{"MFE|1|2", "OM1|1|2|P^Q^R"},
		},
		{
			name:  "OM1 with too few fields",
			lines: []string{"MFE|1|2|3|X^Y", "OM1|1"},
		},
		{
			name:  "OM1 not adjacent",
			lines: []string{"MFE|1|2|3|X^Y", "NTE|comment", "OM1|1|2|P^Q^R"},
		},
		{
			name:  "OM1 before MFE",
			lines: []string{"OM1|1|2|P^Q^R", "MFE|1|2|3|X^Y"},
		},
		{
			name:  "MFE at end of input",
			lines: []string{"MFE|1|2|3|X^Y"},
		},
		{
			name:  "empty input",
			lines: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewExtractor().Extract(tt.lines)
			assert.Empty(t, result.Records)
			assert.Equal(t, 0, result.Stats.UniqueCount)
			assert.Equal(t, 0, result.Stats.DuplicateCount)
		})
	}
}

func TestExtract_MissingSubFieldsDefaultToEmpty(t *testing.T) {
	lines := []string{
		"MFE|1|2|3|X", // no second sub-field: external code defaults to ""
		"OM1|1|2|P^Q", // no chapter sub-field
	}

	result := NewExtractor().Extract(lines)

	require.Len(t, result.Records, 1)
	record := result.Records[0]
	assert.Equal(t, "P", record.AnalyteCode)
	assert.Equal(t, "Q", record.Label)
	assert.Equal(t, "", record.Chapter)
	assert.Equal(t, "", record.ExternalCode)
	assert.Equal(t, "P|Q||", record.CompositeKey())
}

func TestExtract_MaxFieldLengths(t *testing.T) {
	lines := []string{
		"MFE|1|2|3|X^12345",
		"OM1|1|2|ABC^LONG LABEL^CHAP",
		"MFE|1|2|3|X^1",
		"OM1|1|2|ABCDEF^SHORT^CHAPTERX",
	}

	result := NewExtractor().Extract(lines)

	assert.Equal(t, 6, result.MaxLengths.AnalyteCode)
	assert.Equal(t, 10, result.MaxLengths.Label)
	assert.Equal(t, 8, result.MaxLengths.Chapter)
	assert.Equal(t, 5, result.MaxLengths.ExternalCode)
}

func TestExtract_CustomExcludedChapters(t *testing.T) {
	lines := []string{
		"MFE|1|2|3|X^Y",
		"OM1|1|2|P^Q^INTERNE",
		"MFE|1|2|3|X^Y",
		"OM1|1|2|C^D^ADMINISTRATIF",
	}

	result := NewExtractor(WithExcludedChapters("INTERNE")).Extract(lines)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "ADMINISTRATIF", result.Records[0].Chapter)
}

func TestExtractFile(t *testing.T) {
	t.Run("reads and extracts", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feed.hl7")
		content := "MFE|1|2|3|X^Y\nOM1|1|2|P^Q^R\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		result, err := NewExtractor().ExtractFile(path)
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
	})

	t.Run("missing file returns empty result and error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.hl7")

		result, err := NewExtractor().ExtractFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrReadInput)
		assert.Contains(t, err.Error(), path)
		require.NotNil(t, result)
		assert.Empty(t, result.Records)
		assert.Equal(t, 0, result.Stats.UniqueCount)
		assert.Equal(t, 0, result.Stats.DuplicateCount)
	})
}
