package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
	"github.com/contracthub/retrieval/storage/sqlite/migrations"
)

// Store implements storage.Store and storage.VectorIndex on SQLite.
type Store struct {
	db     *sql.DB
	dim    int
	logger *slog.Logger
}

var (
	_ storage.Store       = (*Store)(nil)
	_ storage.VectorIndex = (*Store)(nil)
)

// Option configures a Store.
type Option func(*config)

type config struct {
	inMemory bool
	dim      int
	logger   *slog.Logger
}

// WithInMemory opens an in-memory database instead of a file on disk.
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

// Open opens a SQLite-backed store at the given database file, creating it
// if needed. Returns storage.Store interface to enforce abstraction; the
// search package discovers the vector-index capability by type assertion.
func Open(path string, opts ...Option) (storage.Store, error) {
	cfg := &config{
		dim:    core.DefaultEmbeddingDim,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := registerVecDistance(); err != nil {
		return nil, fmt.Errorf("%w: registering vec_distance: %v", storage.ErrBackendUnavailable, err)
	}

	// foreign_keys is a per-connection pragma, so it has to travel in the
	// DSN; enabling it with a one-off Exec would leave it off on every
	// connection the pool opens later.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if cfg.inMemory {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrBackendUnavailable, err)
	}
	if cfg.inMemory {
		// Each pooled connection gets its own private :memory: database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{
		db:     db,
		dim:    cfg.dim,
		logger: cfg.logger.With("store", "sqlite"),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies all embedded migrations newer than the current schema
// version.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL DEFAULT (unixepoch())
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		s.logger.Debug("applied migration", "name", name)
	}
	return nil
}

// mapError translates driver errors into the storage package's sentinels.
// The modernc driver surfaces constraint violations as plain error strings,
// so matching on the SQLite message text is the only option.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return storage.ErrNotFound
	case strings.Contains(err.Error(), "FOREIGN KEY constraint"):
		return fmt.Errorf("%w: %v", storage.ErrConstraint, err)
	case strings.Contains(err.Error(), "UNIQUE constraint"):
		return fmt.Errorf("%w: %v", storage.ErrDuplicateKey, err)
	default:
		return err
	}
}
