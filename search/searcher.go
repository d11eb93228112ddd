package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/contracthub/retrieval/ai"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
)

// Strategy selects how candidate chunks are ranked.
type Strategy int

const (
	// StrategyBruteForce scans the tenant's chunks in process and sorts
	// them by distance.
	StrategyBruteForce Strategy = iota + 1

	// StrategyDelegated lets the store rank and select the top k itself
	// via its storage.VectorIndex capability.
	StrategyDelegated
)

// String returns the strategy name for logs.
func (s Strategy) String() string {
	switch s {
	case StrategyBruteForce:
		return "brute-force"
	case StrategyDelegated:
		return "delegated"
	default:
		return "unknown"
	}
}

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// Searcher ranks a tenant's chunks against natural-language queries.
type Searcher struct {
	store    storage.Store
	index    storage.VectorIndex
	embedder ai.Embedder
	composer ai.AnswerComposer
	strategy Strategy
	topK     int
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

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

// WithTopK sets how many chunks Ask retrieves. Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(s *Searcher) error {
		if k > 0 {
			s.topK = k
		}
		return nil
	}
}

// NewSearcher creates a new searcher over the given store. The delegated
// strategy requires the store to implement storage.VectorIndex; if it does
// not, construction fails with ErrIndexUnsupported rather than falling back
// to an in-process scan.
func NewSearcher(
	store storage.Store,
	embedder ai.Embedder,
	composer ai.AnswerComposer,
	strategy Strategy,
	opts ...Option,
) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if composer == nil {
		return nil, ErrComposerRequired
	}

	s := &Searcher{
		store:    store,
		embedder: embedder,
		composer: composer,
		strategy: strategy,
		topK:     DefaultTopK,
		logger:   slog.Default(),
	}

	switch strategy {
	case StrategyBruteForce:
	case StrategyDelegated:
		index, ok := store.(storage.VectorIndex)
		if !ok {
			return nil, ErrIndexUnsupported
		}
		s.index = index
	default:
		return nil, ErrUnknownStrategy
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Rank embeds the query and returns up to k of the tenant's chunks ordered
// by ascending cosine distance, restricted to one document when docID is
// non-zero. Each hit carries its relevance and display confidence.
func (s *Searcher) Rank(ctx context.Context, tenant core.ID, query string, docID core.ID, k int) ([]*core.RetrievedChunk, error) {
	return s.RankWithMonitor(ctx, tenant, query, docID, k, nil)
}

// RankWithMonitor is Rank with observation hooks for each stage.
func (s *Searcher) RankWithMonitor(ctx context.Context, tenant core.ID, query string, docID core.ID, k int, monitor RankMonitor) ([]*core.RetrievedChunk, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(embedding)

	scored, err := s.rankVector(ctx, tenant, embedding, docID, k)
	if err != nil {
		return nil, err
	}
	monitor.AfterCandidateRanking(scored)

	results := make([]*core.RetrievedChunk, 0, len(scored))
	for _, hit := range scored {
		relevance := Relevance(hit.Distance)
		results = append(results, &core.RetrievedChunk{
			Chunk:      hit.Chunk,
			Relevance:  relevance,
			Confidence: Confidence(relevance),
		})
	}
	monitor.Finish(results)

	return results, nil
}

// Ask answers a question from the tenant's documents: it retrieves the topK
// most similar chunks and hands them to the answer composer as evidence.
func (s *Searcher) Ask(ctx context.Context, tenant core.ID, question string, docID core.ID) (*core.AskResult, error) {
	chunks, err := s.Rank(ctx, tenant, question, docID, s.topK)
	if err != nil {
		return nil, err
	}

	answer, err := s.composer.Compose(ctx, question, chunks)
	if err != nil {
		s.logger.Error("error composing answer", "err", err)
		return nil, err
	}

	return &core.AskResult{Answer: answer, Chunks: chunks}, nil
}

// rankVector runs the configured strategy over the tenant's candidates.
func (s *Searcher) rankVector(ctx context.Context, tenant core.ID, query []float32, docID core.ID, k int) ([]*core.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	if s.strategy == StrategyDelegated {
		scored, err := s.index.RankSimilar(ctx, tenant, query, docID, k)
		if err != nil {
			s.logger.Error("error ranking via store index", "tenant", tenant, "err", err)
			return nil, err
		}
		return scored, nil
	}

	candidates, err := s.store.ListChunks(ctx, tenant, docID)
	if err != nil {
		s.logger.Error("error listing candidate chunks", "tenant", tenant, "err", err)
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	scored := make([]*core.ScoredChunk, 0, len(candidates))
	for _, chunk := range candidates {
		scored = append(scored, &core.ScoredChunk{
			Chunk:    chunk,
			Distance: core.CosineDistance(query, chunk.Embedding),
		})
	}

	// Stable sort keeps insertion order on equal distances, matching the
	// delegated path's tie-break.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}
