package catalog

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/anadex/ai"
	"github.com/poiesic/anadex/core"
	"github.com/poiesic/anadex/label"
	"github.com/poiesic/anadex/progress"
)

// DegradedLabel identifies one record whose embedding degraded to a zero
// vector, with the cause. Tracked for observability, not correctness.
type DegradedLabel struct {
	AnalyteCode string
	Label       string
	Reason      string
}

// BuildResult is the output of one catalog build.
type BuildResult struct {
	Entries  []*core.CatalogEntry
	Degraded []DegradedLabel
}

// Builder turns extraction records into catalog entries: normalize the label,
// embed the normalized label, assemble the entry. Input order is preserved.
type Builder struct {
	table          label.Table
	adapter        *ai.Adapter
	progressWriter io.Writer
	reportInterval int
	logger         *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithProgress enables console progress reporting during builds.
// Interval is the number of records between reports.
func WithProgress(w io.Writer, interval int) BuilderOption {
	return func(b *Builder) {
		if interval < 1 {
			interval = 1
		}
		b.progressWriter = w
		b.reportInterval = interval
	}
}

// WithBuilderLogger sets a custom logger. Default is slog.Default().
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
	}
}

// NewBuilder creates a builder. The synonym table may be empty; the adapter
// is required.
func NewBuilder(table label.Table, adapter *ai.Adapter, opts ...BuilderOption) (*Builder, error) {
	if adapter == nil {
		return nil, ErrAdapterRequired
	}

	b := &Builder{
		table:          table,
		adapter:        adapter,
		reportInterval: 100,
		logger:         slog.Default().With("component", "catalog-builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build assembles one CatalogEntry per extraction record, in first-seen
// order. Per-item embedding failures degrade that entry to a zero vector and
// are collected on the result; they never abort the build.
func (b *Builder) Build(ctx context.Context, records []*core.ExtractionRecord) (*BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &BuildResult{
		Entries: make([]*core.CatalogEntry, 0, len(records)),
	}

	var tracker *progress.Tracker
	if b.progressWriter != nil {
		tracker = progress.NewTracker(b.progressWriter, "labels", len(records), b.reportInterval)
		tracker.Start()
	}

	for i, record := range records {
		normalized := label.Normalize(record.Label, b.table)
		embedding := b.adapter.Embed(ctx, normalized)
		if embedding.Degraded {
			reason := "unknown"
			if embedding.Err != nil {
				reason = embedding.Err.Error()
			}
			result.Degraded = append(result.Degraded, DegradedLabel{
				AnalyteCode: record.AnalyteCode,
				Label:       record.Label,
				Reason:      reason,
			})
		}

		result.Entries = append(result.Entries, &core.CatalogEntry{
			AnalyteCode:     record.AnalyteCode,
			Label:           record.Label,
			NormalizedLabel: normalized,
			ExternalCode:    record.ExternalCode,
			Chapter:         record.Chapter,
			Vector:          embedding.Vector,
		})

		if tracker != nil {
			tracker.Update(i + 1)
		}
	}

	if tracker != nil {
		tracker.Finish()
	}

	b.logger.Info("catalog build finished",
		"entries", len(result.Entries),
		"degraded", len(result.Degraded))

	return result, nil
}

// VectorLengthCounts counts entries per vector length. A healthy catalog has
// a single length equal to the configured dimension; anything else points at
// a mixed or corrupted export.
func VectorLengthCounts(entries []*core.CatalogEntry) map[int]int {
	counts := make(map[int]int)
	for _, e := range entries {
		counts[len(e.Vector)]++
	}
	return counts
}
