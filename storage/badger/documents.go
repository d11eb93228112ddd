package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
)

// PutDocument creates a document and persists all of its chunks within a
// single BadgerDB transaction; either everything commits or nothing does.
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

	return s.backend.WithTx(func(tx *badger.Txn) error {
		// Referential integrity: the owning tenant must exist at insert time.
		tenant, err := readTenant(tx, makeTenantKey(doc.TenantId))
		if err != nil {
			return err
		}
		if tenant == nil {
			return fmt.Errorf("%w: tenant %d does not exist", storage.ErrConstraint, doc.TenantId)
		}

		id, err := nextID(s.docSeq)
		if err != nil {
			return err
		}
		doc.Id = id
		if doc.UploadedAt.IsZero() {
			doc.UploadedAt = time.Now().UTC()
		}

		if err := tx.Set(makeDocumentKey(doc.TenantId, doc.Id), storage.MarshalDocument(doc)); err != nil {
			return err
		}

		for i, chunk := range chunks {
			seq := uint64(i + 1)
			chunk.DocumentId = doc.Id
			chunk.TenantId = doc.TenantId
			if chunk.Id == "" {
				chunk.Id = fmt.Sprintf("%d_%d", doc.Id, seq)
			}
			chunk.Embedding = core.Conform(chunk.Embedding, s.dim)

			key := makeChunkKey(doc.TenantId, doc.Id, seq)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves one of the tenant's documents.
func (s *Store) GetDocument(ctx context.Context, tenant core.ID, docID core.ID) (*core.Document, error) {
	var doc *core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = readDocument(tx, makeDocumentKey(tenant, docID))
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return doc, err
}

// ListDocuments returns all documents owned by the tenant, most recently
// uploaded first.
func (s *Store) ListDocuments(ctx context.Context, tenant core.ID) ([]*core.Document, error) {
	var docs []*core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantDocumentPrefix(tenant)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc != nil {
				docs = append(docs, doc)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(docs, func(a, b *core.Document) int {
		if a.UploadedAt.After(b.UploadedAt) {
			return -1
		}
		if a.UploadedAt.Before(b.UploadedAt) {
			return 1
		}
		return 0
	})

	return docs, nil
}

// UpdateDocumentStatus updates the status and risk labels of a document.
func (s *Store) UpdateDocumentStatus(ctx context.Context, tenant core.ID, docID core.ID, status, risk string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(tenant, docID)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		doc.Status = status
		doc.Risk = risk
		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteDocument removes a document and cascades to all its chunks.
func (s *Store) DeleteDocument(ctx context.Context, tenant core.ID, docID core.ID) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(tenant, docID)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		// Cascade: collect the document's chunk keys, then delete them.
		var chunkKeys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentChunkPrefix(tenant, docID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			chunkKeys = append(chunkKeys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, ck := range chunkKeys {
			if err := tx.Delete(ck); err != nil {
				return err
			}
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readDocument reads a document record from the transaction.
// Returns nil without error when the key does not exist.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}
