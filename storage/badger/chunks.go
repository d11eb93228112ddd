package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
)

// ListChunks returns the tenant's chunks in insertion order, restricted to
// one document when docID is non-zero. The iteration runs in a single
// read transaction, so it sees a consistent snapshot: a concurrent delete
// does not disturb a scan already underway.
func (s *Store) ListChunks(ctx context.Context, tenant core.ID, docID core.ID) ([]*core.Chunk, error) {
	prefix := makeTenantChunkPrefix(tenant)
	if docID != 0 {
		prefix = makeDocumentChunkPrefix(tenant, docID)
	}

	var chunks []*core.Chunk
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk != nil {
				chunks = append(chunks, chunk)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return chunks, nil
}
