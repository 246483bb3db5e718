// Package store defines object storage for batch files.
//
// Implementations live in store/fs (local filesystem), store/sqlite (pure-Go
// SQLite blob table), and store/postgres (bytea table over pgx).
package store

import "context"

// ObjectStore reads and writes batch objects addressed by bucket and key.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte) error
}
