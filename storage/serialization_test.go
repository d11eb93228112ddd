package storage

import (
	"testing"
	"time"

	"github.com/contracthub/retrieval/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalID_RoundTrip(t *testing.T) {
	ids := []core.ID{0, 1, 255, 256, 1 << 20, 1<<63 + 17}
	for _, id := range ids {
		data := MarshalID(id)
		got, err := UnmarshalID(data)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestUnmarshalID_Truncated(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalTenant_RoundTrip(t *testing.T) {
	tenant := &core.Tenant{
		Id:        42,
		Username:  "acme",
		CreatedAt: time.Date(2025, 3, 14, 9, 26, 53, 589000, time.UTC),
	}

	data := MarshalTenant(tenant)
	got, err := UnmarshalTenant(data)
	require.NoError(t, err)
	assert.Equal(t, tenant, got)
}

func TestMarshalDocument_RoundTrip(t *testing.T) {
	expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		doc  *core.Document
	}{
		{
			name: "without expiry",
			doc: &core.Document{
				Id:         7,
				TenantId:   3,
				Filename:   "msa.pdf",
				UploadedAt: time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC),
				Status:     core.StatusActive,
				Risk:       core.RiskLow,
			},
		},
		{
			name: "with expiry",
			doc: &core.Document{
				Id:         8,
				TenantId:   3,
				Filename:   "nda.pdf",
				UploadedAt: time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC),
				ExpiresAt:  &expiry,
				Status:     core.StatusRenewalDue,
				Risk:       core.RiskHigh,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalDocument(tt.doc)
			got, err := UnmarshalDocument(data)
			require.NoError(t, err)
			assert.Equal(t, tt.doc, got)
		})
	}
}

func TestMarshalChunk_RoundTrip(t *testing.T) {
	chunk := &core.Chunk{
		Id:         "7_1",
		DocumentId: 7,
		TenantId:   3,
		Text:       "Termination clause: Either party may terminate with 90 days' notice.",
		Embedding:  []float32{0.02, 0.496, 0.654, 0.002, 0.591, 0.019, 0.897, 0.617},
		Metadata:   map[string]string{"page": "2", "contract_name": "MSA.pdf"},
	}

	data := MarshalChunk(chunk)
	got, err := UnmarshalChunk(data)
	require.NoError(t, err)
	assert.Equal(t, chunk.Id, got.Id)
	assert.Equal(t, chunk.DocumentId, got.DocumentId)
	assert.Equal(t, chunk.TenantId, got.TenantId)
	assert.Equal(t, chunk.Text, got.Text)
	assert.Equal(t, chunk.Embedding, got.Embedding)
	assert.Equal(t, chunk.Metadata, got.Metadata)
}

func TestUnmarshalChunk_Corrupted(t *testing.T) {
	chunk := &core.Chunk{Id: "1_1", Text: "text", Embedding: []float32{0.1, 0.2}}
	data := MarshalChunk(chunk)

	_, err := UnmarshalChunk(data[:len(data)/2])
	assert.Error(t, err)
}
