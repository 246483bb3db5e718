package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	passage "github.com/passage-rag/passage"
	"github.com/passage-rag/passage/chunk"
)

// staticProvider returns the same completion for every request.
type staticProvider struct {
	text string
}

func (s staticProvider) Generate(_ context.Context, _ passage.GenerateRequest) (passage.GenerateResponse, error) {
	return passage.GenerateResponse{Text: s.text}, nil
}

func (s staticProvider) Name() string { return "static" }

// memStore is an in-memory ObjectStore for tests.
type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("no such object: %s/%s", bucket, key)
	}
	return data, nil
}

func (m *memStore) Put(_ context.Context, bucket, key string, data []byte) error {
	m.objects[bucket+"/"+key] = data
	return nil
}

func (m *memStore) mustPutBatch(t *testing.T, bucket, key string, file BatchFile) {
	t.Helper()
	data, err := json.Marshal(file)
	if err != nil {
		t.Fatal(err)
	}
	m.objects[bucket+"/"+key] = data
}

func (m *memStore) mustGetBatch(t *testing.T, bucket, key string) BatchFile {
	t.Helper()
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		t.Fatalf("object %s/%s not written", bucket, key)
	}
	var file BatchFile
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatal(err)
	}
	return file
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i+1)
	}
	return strings.Join(parts, " ")
}

func TestProcessRewritesBatches(t *testing.T) {
	objects := newMemStore()
	objects.mustPutBatch(t, "kb-bucket", "batches/0001.json", BatchFile{
		FileContents: []Content{
			{
				ContentType:     "text/plain",
				ContentMetadata: json.RawMessage(`{"page":"1"}`),
				ContentBody:     words(250),
			},
		},
	})

	d := NewDriver(objects, chunk.NewFlatChunker(100))
	result, err := d.Process(context.Background(), Event{
		BucketName: "kb-bucket",
		InputFiles: []InputFile{
			{
				FileMetadata:   json.RawMessage(`{"source":"s3://docs/a.pdf"}`),
				ContentBatches: []ContentBatch{{Key: "batches/0001.json"}},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.OutputFiles) != 1 {
		t.Fatalf("got %d output files, want 1", len(result.OutputFiles))
	}
	out := result.OutputFiles[0]
	if string(out.FileMetadata) != `{"source":"s3://docs/a.pdf"}` {
		t.Errorf("file metadata not passed through: %s", out.FileMetadata)
	}
	if len(out.ContentBatches) != 1 || out.ContentBatches[0].Key != "Output/batches/0001.json" {
		t.Errorf("unexpected output batches: %+v", out.ContentBatches)
	}

	written := objects.mustGetBatch(t, "kb-bucket", "Output/batches/0001.json")
	// 250 words in 100-word flat windows: 3 chunks, one record each.
	if len(written.FileContents) != 3 {
		t.Fatalf("got %d output records, want 3", len(written.FileContents))
	}
	for i, c := range written.FileContents {
		if c.ContentType != "text/plain" {
			t.Errorf("record %d content type not passed through: %q", i, c.ContentType)
		}
		if string(c.ContentMetadata) != `{"page":"1"}` {
			t.Errorf("record %d metadata not passed through: %s", i, c.ContentMetadata)
		}
	}
	if !strings.HasPrefix(written.FileContents[0].ContentBody, "w1 ") {
		t.Errorf("first chunk body unexpected: %q", written.FileContents[0].ContentBody[:12])
	}
}

func TestProcessUsesContextChunker(t *testing.T) {
	objects := newMemStore()
	objects.mustPutBatch(t, "b", "k.json", BatchFile{
		FileContents: []Content{{ContentBody: words(60)}},
	})

	ctxizer := chunk.NewContextualizer(staticProvider{text: "ctx"})
	hc, err := chunk.NewHierarchicalChunker(
		chunk.WithChildSize(50),
		chunk.WithOverlap(10),
		chunk.WithContextualizer(ctxizer),
	)
	if err != nil {
		t.Fatal(err)
	}

	d := NewDriver(objects, hc)
	if _, err := d.Process(context.Background(), Event{
		BucketName: "b",
		InputFiles: []InputFile{{ContentBatches: []ContentBatch{{Key: "k.json"}}}},
	}); err != nil {
		t.Fatal(err)
	}

	written := objects.mustGetBatch(t, "b", "Output/k.json")
	if len(written.FileContents) == 0 {
		t.Fatal("no output records")
	}
	for i, c := range written.FileContents {
		if !strings.HasPrefix(c.ContentBody, "ctx\n\n") {
			t.Errorf("record %d missing situating context prefix: %q", i, c.ContentBody[:min(20, len(c.ContentBody))])
		}
	}
}

func TestProcessValidation(t *testing.T) {
	d := NewDriver(newMemStore(), chunk.NewFlatChunker(100))

	if _, err := d.Process(context.Background(), Event{}); err == nil {
		t.Error("expected error for empty event")
	}
	if _, err := d.Process(context.Background(), Event{BucketName: "b"}); err == nil {
		t.Error("expected error for missing input files")
	}
	if _, err := d.Process(context.Background(), Event{
		BucketName: "b",
		InputFiles: []InputFile{{ContentBatches: []ContentBatch{{}}}},
	}); err == nil {
		t.Error("expected error for batch without key")
	}
}

func TestProcessEmptyContentBody(t *testing.T) {
	objects := newMemStore()
	objects.mustPutBatch(t, "b", "k.json", BatchFile{
		FileContents: []Content{{ContentBody: ""}},
	})

	d := NewDriver(objects, chunk.NewFlatChunker(100))
	if _, err := d.Process(context.Background(), Event{
		BucketName: "b",
		InputFiles: []InputFile{{ContentBatches: []ContentBatch{{Key: "k.json"}}}},
	}); err != nil {
		t.Fatalf("empty document should not error: %v", err)
	}

	written := objects.mustGetBatch(t, "b", "Output/k.json")
	if len(written.FileContents) != 0 {
		t.Errorf("empty document produced %d records, want 0", len(written.FileContents))
	}
}

func TestProcessMissingObject(t *testing.T) {
	d := NewDriver(newMemStore(), chunk.NewFlatChunker(100))
	_, err := d.Process(context.Background(), Event{
		BucketName: "b",
		InputFiles: []InputFile{{ContentBatches: []ContentBatch{{Key: "gone.json"}}}},
	})
	if err == nil {
		t.Fatal("expected error for missing batch object")
	}
}
