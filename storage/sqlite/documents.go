package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
)

// PutDocument creates a document and all of its chunks in one transaction.
func (s *Store) PutDocument(ctx context.Context, doc *core.Document, chunks []*core.Chunk) error {
	if doc != nil && doc.Status == "" {
		doc.Status = core.StatusActive
	}
	if doc != nil && doc.Risk == "" {
		doc.Risk = core.RiskLow
	}
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Referential integrity: the owning tenant must exist at insert time.
	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM tenants WHERE id = ?", int64(doc.TenantId)).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: tenant %d does not exist", storage.ErrConstraint, doc.TenantId)
	} else if err != nil {
		return err
	}

	var expiresAt any
	if doc.ExpiresAt != nil {
		expiresAt = doc.ExpiresAt.UnixMicro()
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (tenant_id, filename, uploaded_at, expires_at, status, risk)
		VALUES (?, ?, ?, ?, ?, ?)
	`, int64(doc.TenantId), doc.Filename, doc.UploadedAt.UnixMicro(), expiresAt, doc.Status, doc.Risk)
	if err != nil {
		return mapError(err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	doc.Id = core.ID(docID)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (tenant_id, document_id, seq, chunk_id, text, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		seq := int64(i + 1)
		chunk.DocumentId = doc.Id
		chunk.TenantId = doc.TenantId
		if chunk.Id == "" {
			chunk.Id = fmt.Sprintf("%d_%d", doc.Id, seq)
		}
		chunk.Embedding = core.Conform(chunk.Embedding, s.dim)

		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("%w: chunk metadata: %v", storage.ErrSerializationFailed, err)
		}
		if _, err := stmt.ExecContext(ctx, int64(chunk.TenantId), int64(chunk.DocumentId), seq,
			chunk.Id, chunk.Text, EncodeEmbedding(chunk.Embedding), string(metadata)); err != nil {
			return mapError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return mapError(err)
	}

	s.logger.Debug("document stored", "tenant", doc.TenantId, "doc", doc.Id, "chunks", len(chunks))
	return nil
}

// GetDocument retrieves one of the tenant's documents.
func (s *Store) GetDocument(ctx context.Context, tenant core.ID, docID core.ID) (*core.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, filename, uploaded_at, expires_at, status, risk
		FROM documents WHERE tenant_id = ? AND id = ?
	`, int64(tenant), int64(docID))
	return scanDocument(row.Scan)
}

// ListDocuments returns the tenant's documents, most recently uploaded first.
func (s *Store) ListDocuments(ctx context.Context, tenant core.ID) ([]*core.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, filename, uploaded_at, expires_at, status, risk
		FROM documents WHERE tenant_id = ?
		ORDER BY uploaded_at DESC, id DESC
	`, int64(tenant))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*core.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateDocumentStatus updates the status and risk labels of a document.
func (s *Store) UpdateDocumentStatus(ctx context.Context, tenant core.ID, docID core.ID, status, risk string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET status = ?, risk = ? WHERE tenant_id = ? AND id = ?",
		status, risk, int64(tenant), int64(docID))
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteDocument removes a document; the schema cascades to its chunks.
func (s *Store) DeleteDocument(ctx context.Context, tenant core.ID, docID core.ID) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE tenant_id = ? AND id = ?",
		int64(tenant), int64(docID))
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	s.logger.Debug("document deleted", "tenant", tenant, "doc", docID)
	return nil
}

func scanDocument(scan func(...any) error) (*core.Document, error) {
	var (
		id         int64
		tenantID   int64
		filename   string
		uploadedAt int64
		expiresAt  sql.NullInt64
		status     string
		risk       string
	)
	if err := scan(&id, &tenantID, &filename, &uploadedAt, &expiresAt, &status, &risk); err != nil {
		return nil, mapError(err)
	}

	doc := &core.Document{
		Id:         core.ID(id),
		TenantId:   core.ID(tenantID),
		Filename:   filename,
		UploadedAt: time.UnixMicro(uploadedAt).UTC(),
		Status:     status,
		Risk:       risk,
	}
	if expiresAt.Valid {
		t := time.UnixMicro(expiresAt.Int64).UTC()
		doc.ExpiresAt = &t
	}
	return doc, nil
}
