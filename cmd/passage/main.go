package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	passage "github.com/passage-rag/passage"
	"github.com/passage-rag/passage/batch"
	"github.com/passage-rag/passage/chunk"
	"github.com/passage-rag/passage/extract"
	"github.com/passage-rag/passage/internal/config"
	"github.com/passage-rag/passage/observer"
	"github.com/passage-rag/passage/provider/resolve"
	"github.com/passage-rag/passage/store"
	fsstore "github.com/passage-rag/passage/store/fs"
	pgstore "github.com/passage-rag/passage/store/postgres"
	sqlitestore "github.com/passage-rag/passage/store/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv("PASSAGE_CONFIG"), "path to passage.toml")
		eventPath  = flag.String("event", "", "path to a batch event JSON file")
		filePath   = flag.String("file", "", "chunk a single document file and print chunks as JSON")
	)
	flag.Parse()

	if *eventPath == "" && *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: passage -event <event.json> | -file <document>")
		os.Exit(2)
	}

	ctx := context.Background()

	// 1. Load config
	cfg := config.Load(*configPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// 2. Observer (optional)
	var inst *observer.Instruments
	if cfg.Observer.Enabled {
		var shutdown func(context.Context) error
		var err error
		inst, shutdown, err = observer.Init(ctx)
		if err != nil {
			log.Fatalf("observer init: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("observer shutdown", "error", err)
			}
		}()
	}

	// 3. Provider
	provider, err := resolve.Provider(resolve.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		log.Fatalf("provider: %v", err)
	}
	if cfg.LLM.MaxAttempts > 1 {
		provider = passage.WithRetry(provider,
			passage.RetryMaxAttempts(cfg.LLM.MaxAttempts),
			passage.RetryLogger(logger))
	}
	if cfg.LLM.RPM > 0 || cfg.LLM.TPM > 0 {
		provider = passage.WithRateLimit(provider,
			passage.RPM(cfg.LLM.RPM), passage.TPM(cfg.LLM.TPM))
	}
	if inst != nil {
		provider = observer.WrapProvider(provider, cfg.LLM.Model, inst)
	}

	// 4. Chunker
	chunker, err := buildChunker(cfg, provider, logger)
	if err != nil {
		log.Fatalf("chunker: %v", err)
	}

	if *filePath != "" {
		if err := runFile(ctx, chunker, *filePath); err != nil {
			log.Fatalf("chunk file: %v", err)
		}
		return
	}

	// 5. Object store
	objects, err := buildStore(ctx, cfg.Storage, logger)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	// 6. Run the batch event
	event, err := readEvent(*eventPath)
	if err != nil {
		log.Fatalf("event: %v", err)
	}

	driverOpts := []batch.DriverOption{batch.WithLogger(logger)}
	if inst != nil {
		driverOpts = append(driverOpts, batch.WithRecorder(inst))
	}
	driver := batch.NewDriver(objects, chunker, driverOpts...)
	out, err := driver.Process(ctx, event)
	if err != nil {
		log.Fatalf("process: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}

func buildChunker(cfg config.Config, provider passage.Provider, logger *slog.Logger) (chunk.Chunker, error) {
	switch cfg.Chunking.Strategy {
	case "flat":
		return chunk.NewFlatChunker(cfg.Chunking.FlatSize), nil
	case "hierarchical", "":
		opts := []chunk.Option{
			chunk.WithParentSize(cfg.Chunking.ParentSize),
			chunk.WithChildSize(cfg.Chunking.ChildSize),
			chunk.WithOverlap(cfg.Chunking.Overlap),
		}
		if cfg.LLM.APIKey != "" || cfg.LLM.Provider == "ollama" {
			failMode := chunk.FailStrict
			if cfg.LLM.FailMode == "degraded" {
				failMode = chunk.FailDegraded
			}
			ctxer := chunk.NewContextualizer(provider,
				chunk.WithLanguage(cfg.LLM.Language),
				chunk.WithFailMode(failMode),
				chunk.WithMaxTokens(cfg.LLM.MaxTokens),
				chunk.WithTemperature(cfg.LLM.Temperature),
				chunk.WithLogger(logger),
			)
			opts = append(opts, chunk.WithContextualizer(ctxer))
		}
		return chunk.NewHierarchicalChunker(opts...)
	default:
		return nil, fmt.Errorf("unknown chunking strategy %q", cfg.Chunking.Strategy)
	}
}

func buildStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (store.ObjectStore, error) {
	switch cfg.Backend {
	case "fs", "":
		return fsstore.New(cfg.Root), nil
	case "sqlite":
		st := sqlitestore.New(cfg.Path, sqlitestore.WithLogger(logger))
		if err := st.Init(ctx); err != nil {
			return nil, err
		}
		return st, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		st := pgstore.New(pool)
		if err := st.Init(ctx); err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func readEvent(path string) (batch.Event, error) {
	var event batch.Event
	data, err := os.ReadFile(path)
	if err != nil {
		return event, err
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return event, err
	}
	return event, nil
}

// runFile extracts text from a local document, chunks it, and prints the
// chunks as a JSON array on stdout.
func runFile(ctx context.Context, chunker chunk.Chunker, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	extractor := extract.ForContentType(extract.ContentTypeFromExtension(ext))
	text, err := extractor.Extract(data)
	if err != nil {
		return err
	}

	var chunks []string
	if cc, ok := chunker.(chunk.ContextChunker); ok {
		chunks, err = cc.ChunkContext(ctx, text)
		if err != nil {
			return err
		}
	} else {
		chunks = chunker.Chunk(text)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(chunks)
}
