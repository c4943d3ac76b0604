package search

import (
	"github.com/poiesic/anadex/ai"
	"github.com/poiesic/anadex/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterNormalize(normalized string)
	AfterEmbedding(embedding ai.Embedding)
	Finish(results []*core.SimilarityResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterNormalize(_ string)                 {}
func (n *noopMonitor) AfterEmbedding(_ ai.Embedding)           {}
func (n *noopMonitor) Finish(_ []*core.SimilarityResult)       {}
