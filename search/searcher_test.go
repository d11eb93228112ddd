package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/contracthub/retrieval/ai"
	"github.com/contracthub/retrieval/ai/hash"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
	badgerstore "github.com/contracthub/retrieval/storage/badger"
	sqlitestore "github.com/contracthub/retrieval/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The contract fixture used throughout. With the hash embedder, the
// termination chunk lands measurably closer to the termination query than
// the liability chunk does.
const (
	chunkTermination = "Termination clause: Either party may terminate with 90 days’ notice."
	chunkLiability   = "Liability cap: Limited to 12 months’ fees."
	queryTermination = "termination notice period"
)

type fixture struct {
	searcher *Searcher
	store    storage.Store
	tenant   *core.Tenant
	doc      *core.Document
}

func newFixture(t *testing.T, store storage.Store, strategy Strategy) *fixture {
	t.Helper()
	ctx := context.Background()
	embedder := hash.New(core.DefaultEmbeddingDim)

	tenant, err := store.CreateTenant(ctx, "acme")
	require.NoError(t, err)

	doc := &core.Document{TenantId: tenant.Id, Filename: "msa.pdf"}
	texts := []string{chunkTermination, chunkLiability}
	chunks := make([]*core.Chunk, 0, len(texts))
	for _, text := range texts {
		vec, err := embedder.EmbedText(ctx, text)
		require.NoError(t, err)
		chunks = append(chunks, &core.Chunk{Text: text, Embedding: vec})
	}
	require.NoError(t, store.PutDocument(ctx, doc, chunks))

	searcher, err := NewSearcher(store, embedder, &ai.StaticComposer{}, strategy)
	require.NoError(t, err)

	return &fixture{searcher: searcher, store: store, tenant: tenant, doc: doc}
}

func newBadgerFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return newFixture(t, store, StrategyBruteForce)
}

func newSQLiteFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlitestore.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return newFixture(t, store, StrategyDelegated)
}

func TestNewSearcher(t *testing.T) {
	store, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	embedder := hash.New(core.DefaultEmbeddingDim)
	composer := &ai.StaticComposer{}

	t.Run("requires store", func(t *testing.T) {
		_, err := NewSearcher(nil, embedder, composer, StrategyBruteForce)
		assert.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewSearcher(store, nil, composer, StrategyBruteForce)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("requires composer", func(t *testing.T) {
		_, err := NewSearcher(store, embedder, nil, StrategyBruteForce)
		assert.ErrorIs(t, err, ErrComposerRequired)
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		_, err := NewSearcher(store, embedder, composer, Strategy(42))
		assert.ErrorIs(t, err, ErrUnknownStrategy)
	})

	t.Run("delegated requires vector index capability", func(t *testing.T) {
		// The badger store ranks nothing itself.
		_, err := NewSearcher(store, embedder, composer, StrategyDelegated)
		assert.ErrorIs(t, err, ErrIndexUnsupported)
	})

	t.Run("delegated over sqlite", func(t *testing.T) {
		sqlStore, err := sqlitestore.NewMemoryStore()
		require.NoError(t, err)
		t.Cleanup(func() { sqlStore.Close() })
		_, err = NewSearcher(sqlStore, embedder, composer, StrategyDelegated)
		assert.NoError(t, err)
	})
}

func TestRank_Ordering(t *testing.T) {
	for name, newFn := range map[string]func(*testing.T) *fixture{
		"brute-force": newBadgerFixture,
		"delegated":   newSQLiteFixture,
	} {
		t.Run(name, func(t *testing.T) {
			fx := newFn(t)
			ctx := context.Background()

			results, err := fx.searcher.Rank(ctx, fx.tenant.Id, queryTermination, 0, 5)
			require.NoError(t, err)
			require.Len(t, results, 2)

			assert.Equal(t, chunkTermination, results[0].Chunk.Text)
			assert.Equal(t, chunkLiability, results[1].Chunk.Text)
			assert.Greater(t, results[0].Relevance, results[1].Relevance)

			for _, hit := range results {
				assert.GreaterOrEqual(t, hit.Relevance, 0.0)
				assert.LessOrEqual(t, hit.Relevance, 1.0)
				assert.GreaterOrEqual(t, hit.Confidence, MinConfidence)
				assert.LessOrEqual(t, hit.Confidence, MaxConfidence)
			}
		})
	}
}

func TestRank_StrategiesAgree(t *testing.T) {
	ctx := context.Background()
	brute := newBadgerFixture(t)
	delegated := newSQLiteFixture(t)

	for _, query := range []string{queryTermination, "liability cap amount", "payment terms"} {
		bruteHits, err := brute.searcher.Rank(ctx, brute.tenant.Id, query, 0, 5)
		require.NoError(t, err)
		delegatedHits, err := delegated.searcher.Rank(ctx, delegated.tenant.Id, query, 0, 5)
		require.NoError(t, err)

		require.Len(t, delegatedHits, len(bruteHits), "query %q", query)
		for i := range bruteHits {
			assert.Equal(t, bruteHits[i].Chunk.Text, delegatedHits[i].Chunk.Text, "query %q rank %d", query, i)
			assert.InDelta(t, bruteHits[i].Relevance, delegatedHits[i].Relevance, 1e-6)
		}
	}
}

func TestRank_TopK(t *testing.T) {
	fx := newBadgerFixture(t)
	ctx := context.Background()

	// Add a second document so the tenant holds more chunks than k.
	embedder := hash.New(core.DefaultEmbeddingDim)
	doc := &core.Document{TenantId: fx.tenant.Id, Filename: "appendix.pdf"}
	var chunks []*core.Chunk
	for i := 0; i < 6; i++ {
		text := fmt.Sprintf("Appendix clause %d covering renewal and payment details.", i)
		vec, err := embedder.EmbedText(ctx, text)
		require.NoError(t, err)
		chunks = append(chunks, &core.Chunk{Text: text, Embedding: vec})
	}
	require.NoError(t, fx.store.PutDocument(ctx, doc, chunks))

	t.Run("caps at k", func(t *testing.T) {
		results, err := fx.searcher.Rank(ctx, fx.tenant.Id, queryTermination, 0, 5)
		require.NoError(t, err)
		assert.Len(t, results, 5)
	})

	t.Run("returns all when k exceeds candidates", func(t *testing.T) {
		results, err := fx.searcher.Rank(ctx, fx.tenant.Id, queryTermination, 0, 100)
		require.NoError(t, err)
		assert.Len(t, results, 8)
	})

	t.Run("non-positive k yields nothing", func(t *testing.T) {
		results, err := fx.searcher.Rank(ctx, fx.tenant.Id, queryTermination, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("document filter restricts candidates", func(t *testing.T) {
		results, err := fx.searcher.Rank(ctx, fx.tenant.Id, queryTermination, fx.doc.Id, 100)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestRank_EmptyTenant(t *testing.T) {
	fx := newBadgerFixture(t)
	ctx := context.Background()

	empty, err := fx.store.CreateTenant(ctx, "empty")
	require.NoError(t, err)

	results, err := fx.searcher.Rank(ctx, empty.Id, queryTermination, 0, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRank_EmbedderFailure(t *testing.T) {
	fx := newBadgerFixture(t)
	ctx := context.Background()

	boom := errors.New("embedding service down")
	failing := &failingEmbedder{err: boom}
	searcher, err := NewSearcher(fx.store, failing, &ai.StaticComposer{}, StrategyBruteForce)
	require.NoError(t, err)

	_, err = searcher.Rank(ctx, fx.tenant.Id, queryTermination, 0, 5)
	assert.ErrorIs(t, err, boom)
}

func TestAsk(t *testing.T) {
	fx := newBadgerFixture(t)
	ctx := context.Background()

	result, err := fx.searcher.Ask(ctx, fx.tenant.Id, queryTermination, 0)
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultAnswer, result.Answer)
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, chunkTermination, result.Chunks[0].Chunk.Text)

	t.Run("empty evidence still answers", func(t *testing.T) {
		lonely, err := fx.store.CreateTenant(ctx, "lonely")
		require.NoError(t, err)
		result, err := fx.searcher.Ask(ctx, lonely.Id, "anything", 0)
		require.NoError(t, err)
		assert.Equal(t, ai.DefaultAnswer, result.Answer)
		assert.Empty(t, result.Chunks)
	})
}

func TestRankWithMonitor(t *testing.T) {
	fx := newBadgerFixture(t)
	ctx := context.Background()

	monitor := &recordingMonitor{}
	results, err := fx.searcher.RankWithMonitor(ctx, fx.tenant.Id, queryTermination, 0, 5, monitor)
	require.NoError(t, err)

	assert.Equal(t, queryTermination, monitor.query)
	assert.Len(t, monitor.embedding, core.DefaultEmbeddingDim)
	assert.Len(t, monitor.hits, 2)
	assert.Equal(t, results, monitor.results)
}

type failingEmbedder struct {
	err error
}

var _ ai.Embedder = (*failingEmbedder)(nil)

func (e *failingEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return nil, e.err
}

func (e *failingEmbedder) EmbedTexts(context.Context, []string) ([][]float32, error) {
	return nil, e.err
}

type recordingMonitor struct {
	query     string
	embedding []float32
	hits      []*core.ScoredChunk
	results   []*core.RetrievedChunk
}

var _ RankMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(query string)                         { m.query = query }
func (m *recordingMonitor) AfterQueryEmbedding(embedding []float32)    { m.embedding = embedding }
func (m *recordingMonitor) AfterCandidateRanking(hits []*core.ScoredChunk) { m.hits = hits }
func (m *recordingMonitor) Finish(results []*core.RetrievedChunk)      { m.results = results }
