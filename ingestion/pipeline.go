package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/contracthub/retrieval/ai"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
)

// ParsedChunk is one unit of text extracted from an uploaded document,
// with whatever metadata the parser attached (page, section, heading).
type ParsedChunk struct {
	Text     string
	Metadata map[string]string
}

// Pipeline embeds parsed chunks and persists them with their document.
type Pipeline struct {
	store    storage.Store
	embedder ai.Embedder
	pool     *ants.Pool
	chunkID  func(text string) string
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithRandomChunkIDs assigns each chunk a UUID token instead of letting the
// store derive "{documentID}_{sequence}" IDs.
func WithRandomChunkIDs() Option {
	return func(p *Pipeline) error {
		p.chunkID = func(string) string { return uuid.NewString() }
		return nil
	}
}

// WithContentChunkIDs derives each chunk's ID from its text via BLAKE2b.
// Identical text always maps to the same token, also across documents.
func WithContentChunkIDs() Option {
	return func(p *Pipeline) error {
		p.chunkID = func(text string) string {
			return fmt.Sprintf("%016x", uint64(core.IDFromContent(text)))
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(store storage.Store, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:    store,
		embedder: embedder,
		pool:     pool,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	return p, nil
}

// IngestOptions holds optional parameters for ingestion.
type IngestOptions struct {
	Status    string     // Document status label; defaults to core.StatusActive
	Risk      string     // Document risk label; defaults to core.RiskLow
	ExpiresAt *time.Time // Optional contract expiry
}

// Ingest embeds every parsed chunk and stores the document with all of its
// chunks atomically. Returns the created document. If embedding any chunk
// fails, the whole ingest fails and nothing is stored.
func (p *Pipeline) Ingest(ctx context.Context, tenant core.ID, filename string, parsed []ParsedChunk, opts *IngestOptions) (*core.Document, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	embeddings := make([][]float32, len(parsed))
	errs := make([]error, len(parsed))
	var wg sync.WaitGroup

	for i, pc := range parsed {
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			embeddings[i], errs[i] = p.embedder.EmbedText(ctx, pc.Text)
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			p.logger.Error("error embedding chunk", "tenant", tenant, "filename", filename, "chunk", i, "err", err)
			return nil, fmt.Errorf("embedding chunk %d: %w", i, err)
		}
	}

	chunks := make([]*core.Chunk, len(parsed))
	for i, pc := range parsed {
		chunks[i] = &core.Chunk{
			Text:      pc.Text,
			Embedding: embeddings[i],
			Metadata:  pc.Metadata,
		}
		if p.chunkID != nil {
			chunks[i].Id = p.chunkID(pc.Text)
		}
	}

	doc := &core.Document{
		TenantId:  tenant,
		Filename:  filename,
		ExpiresAt: opts.ExpiresAt,
		Status:    opts.Status,
		Risk:      opts.Risk,
	}
	if err := p.store.PutDocument(ctx, doc, chunks); err != nil {
		return nil, err
	}

	p.logger.Info("document ingested", "tenant", tenant, "doc", doc.Id, "filename", filename, "chunks", len(chunks))
	return doc, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
