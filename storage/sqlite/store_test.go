package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTenantLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateTenant(ctx, "acme")
	require.NoError(t, err)
	assert.NotZero(t, created.Id)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = store.CreateTenant(ctx, "acme")
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	byID, err := store.GetTenant(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "acme", byID.Username)

	byName, err := store.FindTenantByUsername(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, created.Id, byName.Id)

	_, err = store.GetTenant(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.FindTenantByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPutDocumentRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tenant, err := store.CreateTenant(ctx, "acme")
	require.NoError(t, err)

	expires := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	doc := &core.Document{TenantId: tenant.Id, Filename: "msa.pdf", ExpiresAt: &expires}
	chunks := []*core.Chunk{
		{Text: "short vector", Embedding: []float32{0.5, 0.25}},
		{Text: "with metadata", Embedding: make([]float32, 8), Metadata: map[string]string{"page": "3"}},
	}

	require.NoError(t, store.PutDocument(ctx, doc, chunks))
	assert.NotZero(t, doc.Id)
	assert.Equal(t, core.StatusActive, doc.Status)
	assert.Equal(t, core.RiskLow, doc.Risk)

	got, err := store.GetDocument(ctx, tenant.Id, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "msa.pdf", got.Filename)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Equal(expires))

	stored, err := store.ListChunks(ctx, tenant.Id, doc.Id)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, []float32{0.5, 0.25, 0, 0, 0, 0, 0, 0}, stored[0].Embedding)
	assert.Equal(t, map[string]string{"page": "3"}, stored[1].Metadata)
	assert.NotEmpty(t, stored[0].Id)
	assert.Equal(t, tenant.Id, stored[0].TenantId)
	assert.Equal(t, doc.Id, stored[0].DocumentId)
}

func TestPutDocument_UnknownTenantAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &core.Document{TenantId: 4242, Filename: "ghost.pdf"}
	err := store.PutDocument(ctx, doc, []*core.Chunk{{Text: "orphan"}})
	assert.ErrorIs(t, err, storage.ErrConstraint)

	docs, err := store.ListDocuments(ctx, 4242)
	require.NoError(t, err)
	assert.Empty(t, docs)
	chunks, err := store.ListChunks(ctx, 4242, 0)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestListDocuments_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tenant, err := store.CreateTenant(ctx, "acme")
	require.NoError(t, err)

	older := &core.Document{
		TenantId:   tenant.Id,
		Filename:   "older.pdf",
		UploadedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := &core.Document{
		TenantId:   tenant.Id,
		Filename:   "newer.pdf",
		UploadedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.PutDocument(ctx, older, nil))
	require.NoError(t, store.PutDocument(ctx, newer, nil))

	docs, err := store.ListDocuments(ctx, tenant.Id)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "newer.pdf", docs[0].Filename)
	assert.Equal(t, "older.pdf", docs[1].Filename)
}

func TestUpdateDocumentStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tenant, err := store.CreateTenant(ctx, "acme")
	require.NoError(t, err)
	doc := &core.Document{TenantId: tenant.Id, Filename: "msa.pdf"}
	require.NoError(t, store.PutDocument(ctx, doc, nil))

	require.NoError(t, store.UpdateDocumentStatus(ctx, tenant.Id, doc.Id, core.StatusExpired, core.RiskMedium))

	got, err := store.GetDocument(ctx, tenant.Id, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusExpired, got.Status)
	assert.Equal(t, core.RiskMedium, got.Risk)

	err = store.UpdateDocumentStatus(ctx, tenant.Id, 9999, core.StatusActive, core.RiskLow)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteDocument_Cascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tenant, err := store.CreateTenant(ctx, "acme")
	require.NoError(t, err)

	doc := &core.Document{TenantId: tenant.Id, Filename: "gone.pdf"}
	require.NoError(t, store.PutDocument(ctx, doc, []*core.Chunk{{Text: "a"}, {Text: "b"}}))

	require.NoError(t, store.DeleteDocument(ctx, tenant.Id, doc.Id))

	_, err = store.GetDocument(ctx, tenant.Id, doc.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	chunks, err := store.ListChunks(ctx, tenant.Id, 0)
	require.NoError(t, err)
	assert.Empty(t, chunks, "chunks cascade with the document")

	err = store.DeleteDocument(ctx, tenant.Id, doc.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRankSimilar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	index, ok := store.(storage.VectorIndex)
	require.True(t, ok, "sqlite store exposes the vector-index capability")

	tenant, err := store.CreateTenant(ctx, "acme")
	require.NoError(t, err)

	doc := &core.Document{TenantId: tenant.Id, Filename: "vectors.pdf"}
	chunks := []*core.Chunk{
		{Text: "far", Embedding: []float32{0, 1, 0, 0, 0, 0, 0, 0}},
		{Text: "near", Embedding: []float32{1, 0.1, 0, 0, 0, 0, 0, 0}},
		{Text: "mid", Embedding: []float32{1, 1, 0, 0, 0, 0, 0, 0}},
	}
	require.NoError(t, store.PutDocument(ctx, doc, chunks))

	query := []float32{1, 0, 0, 0, 0, 0, 0, 0}

	t.Run("orders by ascending cosine distance", func(t *testing.T) {
		scored, err := index.RankSimilar(ctx, tenant.Id, query, 0, 5)
		require.NoError(t, err)
		require.Len(t, scored, 3)
		assert.Equal(t, "near", scored[0].Chunk.Text)
		assert.Equal(t, "mid", scored[1].Chunk.Text)
		assert.Equal(t, "far", scored[2].Chunk.Text)
		assert.InDelta(t, 0.00496, scored[0].Distance, 1e-4)
		assert.InDelta(t, 0.29289, scored[1].Distance, 1e-4)
		assert.InDelta(t, 1.0, scored[2].Distance, 1e-9)
	})

	t.Run("limits to k", func(t *testing.T) {
		scored, err := index.RankSimilar(ctx, tenant.Id, query, 0, 2)
		require.NoError(t, err)
		require.Len(t, scored, 2)
		assert.Equal(t, "near", scored[0].Chunk.Text)
	})

	t.Run("equal distances keep insertion order", func(t *testing.T) {
		tied := &core.Document{TenantId: tenant.Id, Filename: "tied.pdf"}
		dup := []float32{0, 0, 1, 0, 0, 0, 0, 0}
		require.NoError(t, store.PutDocument(ctx, tied, []*core.Chunk{
			{Text: "first twin", Embedding: dup},
			{Text: "second twin", Embedding: dup},
		}))

		scored, err := index.RankSimilar(ctx, tenant.Id, dup, tied.Id, 5)
		require.NoError(t, err)
		require.Len(t, scored, 2)
		assert.Equal(t, "first twin", scored[0].Chunk.Text)
		assert.Equal(t, "second twin", scored[1].Chunk.Text)
	})

	t.Run("document filter", func(t *testing.T) {
		scored, err := index.RankSimilar(ctx, tenant.Id, query, doc.Id, 10)
		require.NoError(t, err)
		assert.Len(t, scored, 3)
	})

	t.Run("zero-magnitude query yields maximum distance, not error", func(t *testing.T) {
		scored, err := index.RankSimilar(ctx, tenant.Id, make([]float32, 8), doc.Id, 5)
		require.NoError(t, err)
		require.Len(t, scored, 3)
		for _, sc := range scored {
			assert.InDelta(t, 1.0, sc.Distance, 1e-9)
		}
	})

	t.Run("tenant isolation", func(t *testing.T) {
		other, err := store.CreateTenant(ctx, "rival")
		require.NoError(t, err)
		scored, err := index.RankSimilar(ctx, other.Id, query, 0, 5)
		require.NoError(t, err)
		assert.Empty(t, scored)
	})

	t.Run("non-positive k", func(t *testing.T) {
		scored, err := index.RankSimilar(ctx, tenant.Id, query, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, scored)
	})
}

func TestEmbeddingCodec(t *testing.T) {
	vec := []float32{0.114, -0.598, 0, 3.5}
	decoded, err := DecodeEmbedding(EncodeEmbedding(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, decoded)

	_, err = DecodeEmbedding([]byte{1, 2, 3})
	assert.Error(t, err)

	decoded, err = DecodeEmbedding(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestFileStore_ForeignKeysAcrossConnections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	tenant, err := store.CreateTenant(ctx, "acme")
	require.NoError(t, err)

	doc := &core.Document{TenantId: tenant.Id, Filename: "msa.pdf"}
	chunks := []*core.Chunk{
		{Text: "Termination for convenience with 30 days notice."},
		{Text: "Aggregate liability capped at fees paid."},
	}
	require.NoError(t, store.PutDocument(ctx, doc, chunks))

	// Drop idle connections so every statement below runs on a freshly
	// opened one. foreign_keys is per-connection; it must hold on all of
	// them, not just the connection that ran the migrations.
	s := store.(*Store)
	s.db.SetMaxIdleConns(0)

	var enabled int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)

	require.NoError(t, store.DeleteDocument(ctx, tenant.Id, doc.Id))

	remaining, err := store.ListChunks(ctx, tenant.Id, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining, "chunks must cascade with their document")

	stray := &core.Document{TenantId: tenant.Id + 100, Filename: "stray.pdf"}
	err = store.PutDocument(ctx, stray, []*core.Chunk{{Text: "orphan"}})
	assert.ErrorIs(t, err, storage.ErrConstraint)
}

func TestOpen_FailsClosedWithoutVecDistance(t *testing.T) {
	require.NoError(t, registerVecDistance())

	// The registration error is sticky; with it set, Open must refuse the
	// backend rather than hand out a store whose RankSimilar cannot run.
	registerVecDistanceErr = errors.New("function already registered")
	t.Cleanup(func() { registerVecDistanceErr = nil })

	_, err := Open(filepath.Join(t.TempDir(), "contracts.db"))
	assert.ErrorIs(t, err, storage.ErrBackendUnavailable)
}
