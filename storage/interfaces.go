package storage

import (
	"context"

	"github.com/contracthub/retrieval/core"
)

// Store is the tenant-scoped persistence interface for the retrieval
// backend. Implementations must be thread-safe.
type Store interface {
	TenantStore
	DocumentStore
	ChunkStore

	// Close closes the storage backend and releases resources.
	Close() error
}

// TenantStore provides operations for the tenant registry.
type TenantStore interface {
	// CreateTenant registers a new tenant with a unique username.
	// Returns ErrDuplicateKey if the username is already taken.
	CreateTenant(ctx context.Context, username string) (*core.Tenant, error)

	// GetTenant retrieves a tenant by ID.
	// Returns ErrNotFound if the tenant does not exist.
	GetTenant(ctx context.Context, id core.ID) (*core.Tenant, error)

	// FindTenantByUsername retrieves a tenant by username.
	// Returns ErrNotFound if no tenant has that username.
	FindTenantByUsername(ctx context.Context, username string) (*core.Tenant, error)
}

// DocumentStore provides operations for managing documents and their chunks.
type DocumentStore interface {
	// PutDocument creates a document and persists all of its chunks as a
	// single atomic unit: either the document and every chunk become
	// visible together, or nothing does.
	//
	// The store assigns doc.Id from a sequence and stamps UploadedAt if
	// unset. Chunks receive "{documentID}_{sequence}" IDs when their Id
	// field is empty, and every embedding is conformed to the store's
	// dimension (trailing-zero pad or tail truncation, never an error).
	//
	// Returns ErrConstraint if doc.TenantId references no existing tenant.
	PutDocument(ctx context.Context, doc *core.Document, chunks []*core.Chunk) error

	// GetDocument retrieves one of the tenant's documents.
	// Returns ErrNotFound if the document does not exist or belongs to a
	// different tenant.
	GetDocument(ctx context.Context, tenant core.ID, docID core.ID) (*core.Document, error)

	// ListDocuments returns all documents owned by the tenant, most
	// recently uploaded first.
	ListDocuments(ctx context.Context, tenant core.ID) ([]*core.Document, error)

	// UpdateDocumentStatus updates the status and risk labels of a
	// document. These fields are never read for ranking, so the update
	// may race with an in-flight candidate scan without corrupting it.
	// Returns ErrNotFound if the document does not exist for the tenant.
	UpdateDocumentStatus(ctx context.Context, tenant core.ID, docID core.ID, status, risk string) error

	// DeleteDocument removes a document and cascades to all its chunks.
	// Returns ErrNotFound if the document does not exist for the tenant.
	DeleteDocument(ctx context.Context, tenant core.ID, docID core.ID) error
}

// ChunkStore provides read access to stored chunks.
type ChunkStore interface {
	// ListChunks returns the tenant's chunks in insertion order,
	// restricted to one document when docID is non-zero. Chunks of other
	// tenants are never returned, regardless of the filter value.
	ListChunks(ctx context.Context, tenant core.ID, docID core.ID) ([]*core.Chunk, error)
}

// VectorIndex is an optional capability of a Store: the backend computes
// distances and selects the top k itself, returning pre-sorted rows. The
// caller trusts the store's ordering.
//
// Backends that implement VectorIndex must use cosine distance with the
// same tie-break as the in-process scan (insertion order on equal
// distance), so both ranking strategies order identically.
type VectorIndex interface {
	// RankSimilar returns up to k of the tenant's chunks ordered by
	// ascending cosine distance to query, restricted to one document when
	// docID is non-zero. An empty candidate set yields an empty result.
	RankSimilar(ctx context.Context, tenant core.ID, query []float32, docID core.ID, k int) ([]*core.ScoredChunk, error)
}
