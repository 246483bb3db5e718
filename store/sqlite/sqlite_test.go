package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "objects.db"))
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	data := []byte(`{"fileContents":[{"contentBody":"hello"}]}`)
	if err := s.Put(ctx, "bucket", "batches/0001.json", data); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "bucket", "batches/0001.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "bucket", "nope"); err == nil {
		t.Error("expected error for missing object")
	}
}

func TestPutUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "b", "k", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "b", "k", []byte("two")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "b", "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Errorf("got %q, want %q", got, "two")
	}
}

func TestBucketsIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "b1", "k", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "b2", "k"); err == nil {
		t.Error("object leaked across buckets")
	}
}
