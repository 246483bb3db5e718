// Package fs implements store.ObjectStore on the local filesystem.
// A bucket is a directory under the root; a key is a relative path inside it.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/passage-rag/passage/store"
)

var _ store.ObjectStore = (*Store)(nil)

// Store reads and writes objects as files under a root directory.
type Store struct {
	root string
}

// New creates a filesystem store rooted at root.
func New(root string) *Store {
	return &Store{root: root}
}

// Get reads the object at root/bucket/key.
func (s *Store) Get(_ context.Context, bucket, key string) ([]byte, error) {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fs: read %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// Put writes the object at root/bucket/key, creating parent directories.
func (s *Store) Put(_ context.Context, bucket, key string, data []byte) error {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("fs: mkdir for %s/%s: %w", bucket, key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("fs: write %s/%s: %w", bucket, key, err)
	}
	return nil
}

// objectPath joins root, bucket, and key, rejecting buckets that escape the
// store root and keys that escape the bucket directory.
func (s *Store) objectPath(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("fs: empty bucket or key")
	}
	if !filepath.IsLocal(filepath.FromSlash(bucket)) {
		return "", fmt.Errorf("fs: bucket %q escapes store root", bucket)
	}
	base := filepath.Join(s.root, filepath.FromSlash(bucket))
	path := filepath.Join(base, filepath.FromSlash(key))
	if path != base && !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", fmt.Errorf("fs: key %q escapes bucket", key)
	}
	return path, nil
}
