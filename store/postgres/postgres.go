// Package postgres implements store.ObjectStore using PostgreSQL.
// Objects live in a bytea blob table keyed by (bucket, key).
//
// Store accepts an externally-owned *pgxpool.Pool via constructor injection.
// The caller creates and closes the pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/passage-rag/passage/store"
)

// Store implements store.ObjectStore backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.ObjectStore = (*Store)(nil)

// New creates a Store using an existing pgxpool.Pool.
// The caller owns the pool and is responsible for closing it.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Init creates the objects table.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS objects (
		bucket TEXT NOT NULL,
		key TEXT NOT NULL,
		data BYTEA NOT NULL,
		updated_at BIGINT NOT NULL,
		PRIMARY KEY (bucket, key)
	)`)
	if err != nil {
		return fmt.Errorf("postgres: init: %w", err)
	}
	return nil
}

// Get reads the object stored under (bucket, key).
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM objects WHERE bucket = $1 AND key = $2`,
		bucket, key).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("postgres: get %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// Put writes the object under (bucket, key), replacing any previous value.
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO objects (bucket, key, data, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (bucket, key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		bucket, key, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("postgres: put %s/%s: %w", bucket, key, err)
	}
	return nil
}
