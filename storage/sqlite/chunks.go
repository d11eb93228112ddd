package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
)

// ListChunks returns the tenant's chunks in insertion order, restricted to
// one document when docID is non-zero.
func (s *Store) ListChunks(ctx context.Context, tenant core.ID, docID core.ID) ([]*core.Chunk, error) {
	query := `
		SELECT chunk_id, document_id, tenant_id, text, embedding, metadata
		FROM chunks WHERE tenant_id = ?
	`
	args := []any{int64(tenant)}
	if docID != 0 {
		query += " AND document_id = ?"
		args = append(args, int64(docID))
	}
	query += " ORDER BY document_id ASC, seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*core.Chunk
	for rows.Next() {
		chunk, _, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// RankSimilar implements storage.VectorIndex: the database computes cosine
// distances via the registered vec_distance function and returns the top k
// rows, ordered by ascending distance with insertion order breaking ties.
func (s *Store) RankSimilar(ctx context.Context, tenant core.ID, query []float32, docID core.ID, k int) ([]*core.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	sqlQuery := `
		SELECT chunk_id, document_id, tenant_id, text, embedding, metadata,
		       vec_distance(embedding, ?) AS dist
		FROM chunks WHERE tenant_id = ?
	`
	args := []any{EncodeEmbedding(query), int64(tenant)}
	if docID != 0 {
		sqlQuery += " AND document_id = ?"
		args = append(args, int64(docID))
	}
	sqlQuery += " ORDER BY dist ASC, document_id ASC, seq ASC LIMIT ?"
	args = append(args, k)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scored []*core.ScoredChunk
	for rows.Next() {
		chunk, dist, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		scored = append(scored, &core.ScoredChunk{Chunk: chunk, Distance: dist})
	}
	return scored, rows.Err()
}

// scanChunk reads one chunk row. The distance column is present only in
// RankSimilar's result set; ListChunks rows scan without it.
func scanChunk(rows *sql.Rows) (*core.Chunk, float64, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, 0, err
	}

	var (
		chunkID    string
		documentID int64
		tenantID   int64
		text       string
		embedding  []byte
		metadata   string
		dist       float64
	)
	dest := []any{&chunkID, &documentID, &tenantID, &text, &embedding, &metadata}
	if len(cols) == 7 {
		dest = append(dest, &dist)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, 0, mapError(err)
	}

	vec, err := DecodeEmbedding(embedding)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}

	chunk := &core.Chunk{
		Id:         chunkID,
		DocumentId: core.ID(documentID),
		TenantId:   core.ID(tenantID),
		Text:       text,
		Embedding:  vec,
	}
	if metadata != "" && metadata != "null" {
		if err := json.Unmarshal([]byte(metadata), &chunk.Metadata); err != nil {
			return nil, 0, fmt.Errorf("%w: chunk metadata: %v", storage.ErrSerializationFailed, err)
		}
	}
	return chunk, dist, nil
}
