package search

import "github.com/contracthub/retrieval/core"

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate steps during retrieval.
type RankMonitor interface {
	Start(query string)
	AfterQueryEmbedding(embedding []float32)
	AfterCandidateRanking(hits []*core.ScoredChunk)
	Finish(results []*core.RetrievedChunk)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)            {}
func (n *noopMonitor) AfterCandidateRanking(_ []*core.ScoredChunk) {}
func (n *noopMonitor) Finish(_ []*core.RetrievedChunk)            {}
