package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	passage "github.com/passage-rag/passage"
	"github.com/passage-rag/passage/chunk"
	"github.com/passage-rag/passage/store"
)

// OutputPrefix is prepended to every input batch key to form its output key.
const OutputPrefix = "Output/"

// Driver reads content batches from an object store, chunks every content
// body, and writes the rechunked batches back. Processing is fully
// sequential: files, then batches, then contents, then chunks.
type Driver struct {
	objects  store.ObjectStore
	chunker  chunk.Chunker
	logger   *slog.Logger
	recorder Recorder
}

// Recorder receives per-batch counts as they are processed. The observer
// package's Instruments satisfies this.
type Recorder interface {
	RecordDocument(ctx context.Context, chunks int)
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLogger sets a structured logger. If not set, nothing is logged.
func WithLogger(l *slog.Logger) DriverOption {
	return func(d *Driver) { d.logger = l }
}

// WithRecorder sets a metrics recorder notified after each processed batch.
func WithRecorder(r Recorder) DriverOption {
	return func(d *Driver) { d.recorder = r }
}

// NewDriver creates a Driver over the given store and chunker. When the
// chunker also implements chunk.ContextChunker, Process uses ChunkContext so
// chunks are enriched with situating context.
func NewDriver(objects store.ObjectStore, chunker chunk.Chunker, opts ...DriverOption) *Driver {
	d := &Driver{
		objects: objects,
		chunker: chunker,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Process runs the chunker over every content batch named by the event and
// returns the event mirrored with output batch keys. A failed read, write,
// or (in strict mode) enrichment aborts processing.
func (d *Driver) Process(ctx context.Context, event Event) (Result, error) {
	if event.BucketName == "" || len(event.InputFiles) == 0 {
		return Result{}, fmt.Errorf("batch: missing required input parameters")
	}

	// Run ID correlates all log lines of one event.
	logger := d.logger.With("run_id", passage.NewID())
	logger.Info("processing event",
		"bucket", event.BucketName, "files", len(event.InputFiles))

	result := Result{OutputFiles: make([]OutputFile, 0, len(event.InputFiles))}

	for _, input := range event.InputFiles {
		processed := make([]ContentBatch, 0, len(input.ContentBatches))

		for _, cb := range input.ContentBatches {
			if cb.Key == "" {
				return Result{}, fmt.Errorf("batch: missing key in content batch")
			}

			outputKey, err := d.processBatch(ctx, logger, event.BucketName, cb.Key)
			if err != nil {
				return Result{}, err
			}
			processed = append(processed, ContentBatch{Key: outputKey})
		}

		result.OutputFiles = append(result.OutputFiles, OutputFile{
			OriginalFileLocation: input.OriginalFileLocation,
			FileMetadata:         input.FileMetadata,
			ContentBatches:       processed,
		})
	}

	return result, nil
}

// processBatch chunks one batch object and writes the result, returning the
// output key.
func (d *Driver) processBatch(ctx context.Context, logger *slog.Logger, bucket, key string) (string, error) {
	data, err := d.objects.Get(ctx, bucket, key)
	if err != nil {
		return "", fmt.Errorf("batch: read %s/%s: %w", bucket, key, err)
	}

	var file BatchFile
	if err := json.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("batch: decode %s/%s: %w", bucket, key, err)
	}

	chunked, err := d.processContents(ctx, file)
	if err != nil {
		return "", fmt.Errorf("batch: chunk %s/%s: %w", bucket, key, err)
	}

	out, err := json.Marshal(chunked)
	if err != nil {
		return "", fmt.Errorf("batch: encode %s/%s: %w", bucket, key, err)
	}

	outputKey := OutputPrefix + key
	if err := d.objects.Put(ctx, bucket, outputKey, out); err != nil {
		return "", fmt.Errorf("batch: write %s/%s: %w", bucket, outputKey, err)
	}

	if d.recorder != nil {
		d.recorder.RecordDocument(ctx, len(chunked.FileContents))
	}
	logger.Info("batch processed",
		"bucket", bucket, "key", key,
		"contents", len(file.FileContents), "chunks", len(chunked.FileContents))
	return outputKey, nil
}

// processContents chunks every content body, emitting one output record per
// chunk. ContentType and ContentMetadata pass through unchanged.
func (d *Driver) processContents(ctx context.Context, file BatchFile) (BatchFile, error) {
	out := BatchFile{FileContents: []Content{}}

	for _, content := range file.FileContents {
		chunks, err := d.chunkText(ctx, content.ContentBody)
		if err != nil {
			return BatchFile{}, err
		}
		for _, c := range chunks {
			out.FileContents = append(out.FileContents, Content{
				ContentType:     content.ContentType,
				ContentMetadata: content.ContentMetadata,
				ContentBody:     c,
			})
		}
	}

	return out, nil
}

func (d *Driver) chunkText(ctx context.Context, text string) ([]string, error) {
	if cc, ok := d.chunker.(chunk.ContextChunker); ok {
		return cc.ChunkContext(ctx, text)
	}
	return d.chunker.Chunk(text), nil
}
