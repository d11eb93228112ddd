// Copyright 2025 ContractHub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package retrieval wires the storage, search, and ingestion layers into a
// single document-retrieval service for multi-tenant contract archives.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contracthub/retrieval/ai"
	"github.com/contracthub/retrieval/ai/hash"
	"github.com/contracthub/retrieval/ai/openai"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/ingestion"
	"github.com/contracthub/retrieval/search"
	"github.com/contracthub/retrieval/storage"
	badgerstore "github.com/contracthub/retrieval/storage/badger"
	sqlitestore "github.com/contracthub/retrieval/storage/sqlite"
)

// Backend names a storage backend. The choice also fixes the ranking
// strategy: SQLite ranks inside the database, BadgerDB is scanned in
// process.
type Backend string

const (
	BackendBadger Backend = "badger"
	BackendSQLite Backend = "sqlite"
)

// ErrUnknownBackend is returned by Open for a backend name it does not
// recognize.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Service is the application facade: one tenant registry, document store,
// ingestion pipeline, and question-answering searcher over a shared
// backend.
type Service struct {
	store    storage.Store
	searcher *search.Searcher
	pipeline *ingestion.Pipeline
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	backend  Backend
	dim      int
	embedder ai.Embedder
	composer ai.AnswerComposer
	aiConfig *ai.Config
	logger   *slog.Logger
}

// WithBackend selects the storage backend. Default is BackendBadger.
func WithBackend(backend Backend) ServiceOption {
	return func(o *serviceOptions) {
		o.backend = backend
	}
}

// WithServiceDimension sets the embedding dimension for the deployment.
// Default is core.DefaultEmbeddingDim.
func WithServiceDimension(dim int) ServiceOption {
	return func(o *serviceOptions) {
		if dim > 0 {
			o.dim = dim
		}
	}
}

// WithEmbedder replaces the default hash embedder.
func WithEmbedder(embedder ai.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		if embedder != nil {
			o.embedder = embedder
		}
	}
}

// WithOpenAIEmbedder uses an OpenAI-compatible embedding endpoint instead
// of the hash placeholder.
func WithOpenAIEmbedder(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = config
	}
}

// WithComposer replaces the default static answer composer.
func WithComposer(composer ai.AnswerComposer) ServiceOption {
	return func(o *serviceOptions) {
		if composer != nil {
			o.composer = composer
		}
	}
}

// WithServiceLogger sets a custom logger. Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open creates a Service over the database at path.
func Open(path string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		backend:  BackendBadger,
		dim:      core.DefaultEmbeddingDim,
		composer: &ai.StaticComposer{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.embedder == nil {
		if options.aiConfig != nil {
			embedder, err := openai.NewEmbedder(options.aiConfig)
			if err != nil {
				return nil, err
			}
			options.embedder = embedder
		} else {
			options.embedder = hash.New(options.dim)
		}
	}

	var (
		store    storage.Store
		strategy search.Strategy
		err      error
	)
	switch options.backend {
	case BackendBadger:
		store, err = badgerstore.Open(path,
			badgerstore.WithDimension(options.dim),
			badgerstore.WithLogger(options.logger))
		strategy = search.StrategyBruteForce
	case BackendSQLite:
		store, err = sqlitestore.Open(path,
			sqlitestore.WithDimension(options.dim),
			sqlitestore.WithLogger(options.logger))
		strategy = search.StrategyDelegated
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, options.backend)
	}
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(store, options.embedder, options.composer, strategy,
		search.WithLogger(options.logger))
	if err != nil {
		store.Close()
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(store, options.embedder,
		ingestion.WithLogger(options.logger))
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Service{
		store:    store,
		searcher: searcher,
		pipeline: pipeline,
		logger:   options.logger,
	}, nil
}

// Close releases the ingestion pool and closes the store.
func (s *Service) Close() error {
	s.pipeline.Release()
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}

// Store exposes the underlying storage for callers that need direct access.
func (s *Service) Store() storage.Store {
	return s.store
}

// CreateTenant registers a new tenant.
func (s *Service) CreateTenant(ctx context.Context, username string) (*core.Tenant, error) {
	return s.store.CreateTenant(ctx, username)
}

// FindTenant looks up a tenant by username.
func (s *Service) FindTenant(ctx context.Context, username string) (*core.Tenant, error) {
	return s.store.FindTenantByUsername(ctx, username)
}

// Ingest embeds and stores a parsed document for the tenant.
func (s *Service) Ingest(ctx context.Context, tenant core.ID, filename string, chunks []ingestion.ParsedChunk, opts *ingestion.IngestOptions) (*core.Document, error) {
	return s.pipeline.Ingest(ctx, tenant, filename, chunks, opts)
}

// Ask answers a question from the tenant's documents, optionally restricted
// to a single document when docID is non-zero.
func (s *Service) Ask(ctx context.Context, tenant core.ID, question string, docID core.ID) (*core.AskResult, error) {
	return s.searcher.Ask(ctx, tenant, question, docID)
}

// Rank returns the tenant's k most similar chunks for a query.
func (s *Service) Rank(ctx context.Context, tenant core.ID, query string, docID core.ID, k int) ([]*core.RetrievedChunk, error) {
	return s.searcher.Rank(ctx, tenant, query, docID, k)
}

// ListDocuments returns the tenant's documents, newest first.
func (s *Service) ListDocuments(ctx context.Context, tenant core.ID) ([]*core.Document, error) {
	return s.store.ListDocuments(ctx, tenant)
}

// GetDocument retrieves one of the tenant's documents.
func (s *Service) GetDocument(ctx context.Context, tenant core.ID, docID core.ID) (*core.Document, error) {
	return s.store.GetDocument(ctx, tenant, docID)
}

// UpdateDocumentStatus updates a document's status and risk labels.
func (s *Service) UpdateDocumentStatus(ctx context.Context, tenant core.ID, docID core.ID, status, risk string) error {
	return s.store.UpdateDocumentStatus(ctx, tenant, docID, status, risk)
}

// DeleteDocument removes a document and all of its chunks.
func (s *Service) DeleteDocument(ctx context.Context, tenant core.ID, docID core.ID) error {
	return s.store.DeleteDocument(ctx, tenant, docID)
}
