package hl7

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/anadex/core"
)

// Report block labels. The RES line is machine-readable: catalog builds can
// start from a report instead of the raw feed.
const (
	reportDefinitionRef   = "MFE-4"
	reportDefinitionField = "MFE-5"
	reportObservation     = "OM1-3"
	reportKey             = "RES"
	reportSeparator       = "---"
)

// reportFileName returns a timestamped report file name, e.g.
// export_lib_20250120_145032.txt.
func reportFileName(now time.Time) string {
	return fmt.Sprintf("export_lib_%s.txt", now.Format("20060102_150405"))
}

// WriteReport writes one block per record: the captured definition and
// observation fields plus the composite key, separated by a delimiter line.
func WriteReport(w io.Writer, records []*core.ExtractionRecord) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		fmt.Fprintf(bw, "%s: %s\n", reportDefinitionRef, r.DefinitionRef)
		fmt.Fprintf(bw, "%s: %s\n", reportDefinitionField, r.DefinitionField)
		fmt.Fprintf(bw, "%s: %s\n", reportObservation, r.ObservationField)
		fmt.Fprintf(bw, "%s: %s\n", reportKey, r.CompositeKey())
		fmt.Fprintln(bw, reportSeparator)
	}
	return bw.Flush()
}

// ExportReport writes the extraction report into dir under a timestamped
// file name and returns the full path. The directory is created if needed;
// an empty dir writes into the current directory.
func ExportReport(dir string, records []*core.ExtractionRecord) (string, error) {
	name := reportFileName(time.Now())
	path := name
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrWriteReport, dir, err)
		}
		path = filepath.Join(dir, name)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}
	defer f.Close()

	if err := WriteReport(f, records); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}
	return path, nil
}

// ParseReport reads the RES lines of an extraction report back into records.
// Only the four composite-key fields survive the round trip; the captured
// source fields are left empty. Lines other than RES are ignored.
func ParseReport(r io.Reader) ([]*core.ExtractionRecord, error) {
	var records []*core.ExtractionRecord

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, reportKey+":") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, reportKey+":"))
		fields := strings.Split(payload, "|")
		if len(fields) < 2 {
			continue
		}
		records = append(records, &core.ExtractionRecord{
			AnalyteCode:  strings.TrimSpace(subField(fields, 0)),
			Label:        strings.TrimSpace(subField(fields, 1)),
			Chapter:      strings.TrimSpace(subField(fields, 2)),
			ExternalCode: strings.TrimSpace(subField(fields, 3)),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}
	return records, nil
}

// ParseReportFile opens path and parses it as an extraction report.
func ParseReportFile(path string) ([]*core.ExtractionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}
	defer f.Close()
	return ParseReport(f)
}
