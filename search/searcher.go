package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/anadex/ai"
	"github.com/poiesic/anadex/core"
	"github.com/poiesic/anadex/label"
)

// DefaultThreshold is the minimum similarity a catalog entry must strictly
// exceed to be returned.
const DefaultThreshold = 0.8

// Searcher ranks an in-memory catalog record set by cosine similarity to a
// query label.
type Searcher struct {
	entries   []*core.CatalogEntry
	adapter   *ai.Adapter
	table     label.Table
	threshold float64
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithThreshold overrides the similarity threshold.
func WithThreshold(threshold float64) Option {
	return func(s *Searcher) error {
		if threshold < -1 || threshold > 1 {
			return ErrInvalidThreshold
		}
		s.threshold = threshold
		return nil
	}
}

// WithSynonyms sets the synonym table used to normalize queries.
// Default is an empty table.
func WithSynonyms(table label.Table) Option {
	return func(s *Searcher) error {
		s.table = table
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a searcher over entries. The entries slice is used as
// given; catalogs are immutable once built, so no copy is taken.
func NewSearcher(entries []*core.CatalogEntry, adapter *ai.Adapter, opts ...Option) (*Searcher, error) {
	if adapter == nil {
		return nil, ErrAdapterRequired
	}

	s := &Searcher{
		entries:   entries,
		adapter:   adapter,
		threshold: DefaultThreshold,
		logger:    slog.Default().With("component", "searcher"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Len returns the number of catalog entries the searcher ranks over.
func (s *Searcher) Len() int {
	return len(s.entries)
}

// Search embeds the normalized query label and returns catalog entries whose
// similarity strictly exceeds the threshold, sorted descending by score with
// ties kept in catalog order.
func (s *Searcher) Search(ctx context.Context, queryLabel string) ([]*core.SimilarityResult, error) {
	return s.SearchWithMonitor(ctx, queryLabel, nil)
}

// SearchWithMonitor searches with monitoring callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, queryLabel string, monitor SearchMonitor) ([]*core.SimilarityResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	monitor.Start(queryLabel)

	normalized := label.Normalize(queryLabel, s.table)
	monitor.AfterNormalize(normalized)

	embedding := s.adapter.Embed(ctx, normalized)
	monitor.AfterEmbedding(embedding)
	if embedding.Degraded {
		// A zero query vector scores 0 against everything; with the
		// default threshold the result is deterministically empty.
		s.logger.Warn("query embedding degraded", "query", queryLabel, "err", embedding.Err)
	}

	results := make([]*core.SimilarityResult, 0)
	for _, entry := range s.entries {
		score := CosineSimilarity(embedding.Vector, entry.Vector)
		if score > s.threshold {
			results = append(results, &core.SimilarityResult{
				AnalyteCode: entry.AnalyteCode,
				Label:       entry.Label,
				Score:       score,
			})
		}
	}

	// Stable sort keeps catalog order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	s.logger.Debug("search finished",
		"query", queryLabel,
		"normalized", normalized,
		"hits", len(results))
	monitor.Finish(results)

	return results, nil
}
