package retrieval

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/contracthub/retrieval/ai"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openService(t *testing.T, backend Backend) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contracts_db")
	if backend == BackendSQLite {
		path = filepath.Join(t.TempDir(), "contracts.db")
	}
	service, err := Open(path, WithBackend(backend))
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })
	return service
}

func TestOpen(t *testing.T) {
	t.Run("badger backend", func(t *testing.T) {
		service := openService(t, BackendBadger)
		assert.NotNil(t, service.Store())
	})

	t.Run("sqlite backend", func(t *testing.T) {
		service := openService(t, BackendSQLite)
		assert.NotNil(t, service.Store())
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(t.TempDir(), WithBackend("postgres"))
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})
}

func TestService_EndToEnd(t *testing.T) {
	for _, backend := range []Backend{BackendBadger, BackendSQLite} {
		t.Run(string(backend), func(t *testing.T) {
			service := openService(t, backend)
			ctx := context.Background()

			tenant, err := service.CreateTenant(ctx, "acme")
			require.NoError(t, err)

			found, err := service.FindTenant(ctx, "acme")
			require.NoError(t, err)
			assert.Equal(t, tenant.Id, found.Id)

			doc, err := service.Ingest(ctx, tenant.Id, "msa.pdf", []ingestion.ParsedChunk{
				{Text: "Termination clause: Either party may terminate with 90 days’ notice."},
				{Text: "Liability cap: Limited to 12 months’ fees."},
				{Text: "Payment terms: Net 30 from invoice date."},
			}, nil)
			require.NoError(t, err)

			result, err := service.Ask(ctx, tenant.Id, "termination notice period", 0)
			require.NoError(t, err)
			assert.Equal(t, ai.DefaultAnswer, result.Answer)
			require.NotEmpty(t, result.Chunks)
			assert.Contains(t, result.Chunks[0].Chunk.Text, "Termination clause")
			for _, hit := range result.Chunks {
				assert.GreaterOrEqual(t, hit.Confidence, 0.50)
				assert.LessOrEqual(t, hit.Confidence, 0.99)
			}

			docs, err := service.ListDocuments(ctx, tenant.Id)
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, "msa.pdf", docs[0].Filename)

			require.NoError(t, service.UpdateDocumentStatus(ctx, tenant.Id, doc.Id, core.StatusRenewalDue, core.RiskHigh))
			got, err := service.GetDocument(ctx, tenant.Id, doc.Id)
			require.NoError(t, err)
			assert.Equal(t, core.StatusRenewalDue, got.Status)

			require.NoError(t, service.DeleteDocument(ctx, tenant.Id, doc.Id))
			result, err = service.Ask(ctx, tenant.Id, "termination notice period", 0)
			require.NoError(t, err)
			assert.Empty(t, result.Chunks, "deleted chunks leave the ranking pool")
		})
	}
}

func TestService_TenantIsolation(t *testing.T) {
	service := openService(t, BackendBadger)
	ctx := context.Background()

	alice, err := service.CreateTenant(ctx, "alice")
	require.NoError(t, err)
	bob, err := service.CreateTenant(ctx, "bob")
	require.NoError(t, err)

	_, err = service.Ingest(ctx, alice.Id, "alice.pdf", []ingestion.ParsedChunk{
		{Text: "Alice's exclusive renewal terms."},
	}, nil)
	require.NoError(t, err)

	result, err := service.Ask(ctx, bob.Id, "renewal terms", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Chunks, "one tenant never sees another's chunks")
}
