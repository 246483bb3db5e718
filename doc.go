// Package passage turns raw documents into retrieval-sized, contextually
// enriched passages for RAG pipelines.
//
// It sits between document ingestion and vector-index upsertion: documents go
// in as plain text, and an ordered sequence of chunk strings comes out. Two
// chunking strategies are provided in the chunk package:
//
//   - chunk.FlatChunker — fixed-size word windows, no overlap, no enrichment.
//   - chunk.HierarchicalChunker — two-level windowing (large parent windows,
//     smaller overlapping child windows) where each child window is enriched
//     with a short LLM-generated description of its place in the document.
//
// # Quick Start
//
//	provider := anthropic.New(apiKey, "claude-3-5-haiku-latest")
//	chunker, err := chunk.NewHierarchicalChunker(
//		chunk.WithContextualizer(chunk.NewContextualizer(provider)),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	chunks, err := chunker.ChunkContext(ctx, documentText)
//
// The batch package reproduces the knowledge-base custom-chunking protocol:
// it walks an event's input files and content batches, reads batch JSON from
// a store.ObjectStore, chunks every content body, and writes the rechunked
// batches back under an Output/ prefix.
//
// # Core Interfaces
//
// The root package defines the contracts the subpackages implement:
//
//   - [Provider] — text-generation backend used for situating context
//     (provider/anthropic, provider/openaicompat, provider/gemini)
//
// Storage backends for batch files live in store/fs, store/sqlite, and
// store/postgres. The extract package converts PDF, HTML, and Markdown files
// to plain text for the single-file CLI mode.
//
// See cmd/passage for the command-line entry point.
package passage
