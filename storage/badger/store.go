package badger

import (
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
)

// Store implements storage.Store on BadgerDB. It performs no in-store
// ranking; the brute-force strategy in the search package scans ListChunks.
type Store struct {
	backend   *Backend
	tenantSeq *badger.Sequence
	docSeq    *badger.Sequence
	dim       int
	logger    *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*config)

type config struct {
	inMemory bool
	dim      int
	logger   *slog.Logger
}

// WithInMemory opens an in-memory database instead of a directory on disk.
// Used for tests.
func WithInMemory() Option {
	return func(c *config) {
		c.inMemory = true
	}
}

// WithDimension sets the embedding dimension every stored vector is
// conformed to. Default is core.DefaultEmbeddingDim.
func WithDimension(dim int) Option {
	return func(c *config) {
		if dim > 0 {
			c.dim = dim
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Open opens a BadgerDB-backed store at the given directory, creating it if
// needed. Returns storage.Store interface to enforce abstraction.
func Open(path string, opts ...Option) (storage.Store, error) {
	cfg := &config{
		dim:    core.DefaultEmbeddingDim,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	backend, err := openBackend(path, cfg.inMemory, cfg.logger)
	if err != nil {
		return nil, err
	}

	tenantSeq, err := backend.GetSequence(tenantIDSeq)
	if err != nil {
		backend.Close()
		return nil, err
	}

	docSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		tenantSeq.Release()
		backend.Close()
		return nil, err
	}

	return &Store{
		backend:   backend,
		tenantSeq: tenantSeq,
		docSeq:    docSeq,
		dim:       cfg.dim,
		logger:    cfg.logger.With("store", "badger"),
	}, nil
}

// Close releases the ID sequences and closes the database.
func (s *Store) Close() error {
	if err := s.tenantSeq.Release(); err != nil {
		s.logger.Error("error releasing tenant sequence", "err", err)
	}
	if err := s.docSeq.Release(); err != nil {
		s.logger.Error("error releasing document sequence", "err", err)
	}
	return s.backend.Close()
}

// nextID draws the next non-zero value from a sequence.
// BadgerDB sequences can return 0 on first call, so we skip it.
func nextID(seq *badger.Sequence) (core.ID, error) {
	next, err := seq.Next()
	if err != nil {
		return 0, err
	}
	if next == 0 {
		next, err = seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(next), nil
}
