package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/contracthub/retrieval/core"
)

// Key prefixes for different data types
const (
	tenantRecordPrefix = "tenrec"
	tenantNamePrefix   = "tenuna"
	tenantIDSeq        = "tenseq"
	documentPrefix     = "docrec"
	documentIDSeq      = "docseq"
	chunkPrefix        = "chkrec"
)

// makeTenantKey generates a key for a tenant by ID.
func makeTenantKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", tenantRecordPrefix, id))
}

// makeTenantNameKey generates a key for tenant lookup by username.
func makeTenantNameKey(username string) []byte {
	return []byte(tenantNamePrefix + ":" + username)
}

// makeDocumentKey generates a composite key for a document.
// Format: prefix:tenantID:docID, IDs written in BigEndian order so
// lexicographic iteration yields documents grouped per tenant in
// ascending ID order.
func makeDocumentKey(tenant, doc core.ID) []byte {
	prefix := []byte(documentPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tenant))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(doc))
	return buf
}

// makeTenantDocumentPrefix generates the iteration prefix covering all of a
// tenant's documents.
func makeTenantDocumentPrefix(tenant core.ID) []byte {
	prefix := []byte(documentPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tenant))
	return buf
}

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:tenantID:docID:seq. Iterating a tenant prefix returns
// chunks in insertion order (documents ascend by ID, chunks by sequence).
func makeChunkKey(tenant, doc core.ID, seq uint64) []byte {
	prefix := []byte(chunkPrefix + ":")
	buf := make([]byte, len(prefix)+24)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tenant))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(doc))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeTenantChunkPrefix generates the iteration prefix covering all of a
// tenant's chunks, across documents.
func makeTenantChunkPrefix(tenant core.ID) []byte {
	prefix := []byte(chunkPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tenant))
	return buf
}

// makeDocumentChunkPrefix generates the iteration prefix covering one
// document's chunks.
func makeDocumentChunkPrefix(tenant, doc core.ID) []byte {
	prefix := []byte(chunkPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tenant))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(doc))
	return buf
}
