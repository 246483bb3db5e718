// Package sqlite implements store.ObjectStore using pure-Go SQLite.
// Zero CGO required. Objects live in a single blob table keyed by
// (bucket, key).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	passage "github.com/passage-rag/passage"
	"github.com/passage-rag/passage/store"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// StoreOption configures a SQLite Store.
type StoreOption func(*Store)

// WithLogger sets a structured logger for the store. When set, the store
// emits debug logs for every operation. If not set, no logs are emitted.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// Store implements store.ObjectStore backed by a local SQLite file.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.ObjectStore = (*Store)(nil)

// New creates a Store using a local SQLite file at dbPath.
// It opens a single shared connection pool with SetMaxOpenConns(1) so that
// all goroutines serialize through one connection, eliminating SQLITE_BUSY
// errors caused by concurrent writers opening independent connections.
func New(dbPath string, opts ...StoreOption) *Store {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		// sql.Open only fails when the driver is not registered; with the
		// blank import above that never happens.
		panic(fmt.Sprintf("sqlite: open driver: %v", err))
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(s)
	}
	s.logger.Debug("sqlite: store opened", "path", dbPath)
	return s
}

// Init creates the objects table.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS objects (
		bucket TEXT NOT NULL,
		key TEXT NOT NULL,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (bucket, key)
	)`)
	if err != nil {
		return fmt.Errorf("sqlite: init: %w", err)
	}
	return nil
}

// Get reads the object stored under (bucket, key).
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	start := time.Now()
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM objects WHERE bucket = ? AND key = ?`,
		bucket, key).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %s/%s: %w", bucket, key, err)
	}
	s.logger.Debug("sqlite: get", "bucket", bucket, "key", key,
		"bytes", len(data), "duration_ms", time.Since(start).Milliseconds())
	return data, nil
}

// Put writes the object under (bucket, key), replacing any previous value.
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO objects (bucket, key, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (bucket, key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		bucket, key, data, passage.NowUnix())
	if err != nil {
		return fmt.Errorf("sqlite: put %s/%s: %w", bucket, key, err)
	}
	s.logger.Debug("sqlite: put", "bucket", bucket, "key", key,
		"bytes", len(data), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
