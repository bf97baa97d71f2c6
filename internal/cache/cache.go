package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/docweave/docsearch/pkg/types"
)

// Default cache TTLs.
const (
	// DefaultCorpusTTL is the maximum age of a cached corpus before it is
	// treated as a miss.
	DefaultCorpusTTL = 24 * time.Hour

	// DefaultMetadataTTL applies to lighter-weight metadata-only entries.
	DefaultMetadataTTL = 1 * time.Hour
)

// Well-known cache keys.
const (
	KeyCorpus = "corpus"
)

// ErrClosed is returned when operating on a closed store.
var ErrClosed = errors.New("cache store is closed")

// Store persists corpus snapshots (embeddings included) across sessions
// in a local SQLite database. Everything read back from it is treated as
// untrusted: expired, malformed, or unreadable entries are misses, never
// failures.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (or creates) the cache database at path. Use ":memory:" for
// an ephemeral store in tests.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating cache schema: %w", err)
	}
	return s, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
    key      TEXT PRIMARY KEY,
    payload  BLOB NOT NULL,
    saved_at INTEGER NOT NULL
);
`

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// PutCorpus serializes the documents (embeddings ride along) and stamps
// them with the current time. The previous entry under the same key is
// replaced.
func (s *Store) PutCorpus(ctx context.Context, key string, docs []types.SearchDocument) error {
	if s.db == nil {
		return ErrClosed
	}

	payload, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("serializing corpus: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, payload, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		key, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// GetCorpus returns the cached documents under key if the entry exists
// and is younger than ttl. Any storage, decode, or freshness problem is a
// miss: the second return value is false and no error escapes, because a
// cold cache is a normal state.
func (s *Store) GetCorpus(ctx context.Context, key string, ttl time.Duration) ([]types.SearchDocument, bool) {
	if s.db == nil {
		return nil, false
	}

	var payload []byte
	var savedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, saved_at FROM cache_entries WHERE key = ?`, key).
		Scan(&payload, &savedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Debug().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		}
		return nil, false
	}

	if age := time.Since(time.Unix(savedAt, 0)); age > ttl {
		s.log.Debug().Str("key", key).Dur("age", age).Msg("cache entry expired")
		s.evict(ctx, key)
		return nil, false
	}

	var docs []types.SearchDocument
	if err := json.Unmarshal(payload, &docs); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt cache entry discarded")
		s.evict(ctx, key)
		return nil, false
	}
	return docs, true
}

// evict drops an entry; failures are irrelevant since the entry is
// already unusable.
func (s *Store) evict(ctx context.Context, key string) {
	_, _ = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
}

// Purge removes every cached entry.
func (s *Store) Purge(ctx context.Context) error {
	if s.db == nil {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	return err
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
