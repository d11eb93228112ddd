package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document status and risk labels. Both fields are free-form; these are the
// values the upload path writes by default.
const (
	StatusActive     = "Active"
	StatusRenewalDue = "Renewal Due"
	StatusExpired    = "Expired"

	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Tenant represents an account that owns documents and chunks.
// Every read and write in the storage layer is scoped to a tenant.
type Tenant struct {
	Id        ID
	Username  string
	CreatedAt time.Time
}

// Document represents an uploaded contract. It owns an ordered set of chunks
// which are written together with it and destroyed with it.
type Document struct {
	Id         ID
	TenantId   ID
	Filename   string
	UploadedAt time.Time
	ExpiresAt  *time.Time // nil when the contract has no expiry
	Status     string
	Risk       string
}

// Chunk is a segment of a document's text stored with its embedding and
// metadata. Chunks are immutable after ingestion and only removed via
// cascade delete of their document.
//
// Embedding always has exactly the store's configured dimension; vectors of
// the wrong length are conformed (padded or truncated) at write time.
type Chunk struct {
	Id         string // "{documentID}_{sequence}" or a random token
	DocumentId ID
	TenantId   ID
	Text       string
	Embedding  []float32
	Metadata   map[string]string // page number, contract name, section, ...
}

// ScoredChunk is a chunk paired with its distance to a query vector.
// Smaller distance means more similar.
type ScoredChunk struct {
	Chunk    *Chunk
	Distance float64
}

// RetrievedChunk is a ranked piece of evidence returned to callers.
// Relevance is the score used for ordering; Confidence is a bounded,
// display-only transformation of it and must never be used for ranking.
type RetrievedChunk struct {
	Chunk      *Chunk
	Relevance  float64
	Confidence float64
}

// AskResult is the outcome of a retrieval query: an answer composed from the
// evidence plus the ranked evidence itself.
type AskResult struct {
	Answer string
	Chunks []*RetrievedChunk
}
