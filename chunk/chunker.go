// Package chunk splits document text into retrieval-sized passages.
//
// Two strategies are provided: FlatChunker (fixed word windows) and
// HierarchicalChunker (two-level windowing with overlap, optionally enriching
// each child window with a short situating context from an LLM).
package chunk

import (
	"context"
	"fmt"
)

// Chunker splits text into chunks suitable for embedding and retrieval.
type Chunker interface {
	Chunk(text string) []string
}

// ContextChunker extends Chunker with context-aware chunking.
// Implementations that call external services should implement this
// interface. Callers use ChunkContext when available, falling back to Chunk
// otherwise.
type ContextChunker interface {
	Chunker
	ChunkContext(ctx context.Context, text string) ([]string, error)
}

// Default window sizes, in words.
const (
	DefaultParentSize = 1024
	DefaultChildSize  = 512
	DefaultOverlap    = 30
	DefaultFlatSize   = 100
)

// Option configures a HierarchicalChunker.
type Option func(*chunkerConfig)

type chunkerConfig struct {
	parentSize int
	childSize  int
	overlap    int
	ctxizer    *Contextualizer
}

func defaultChunkerConfig() chunkerConfig {
	return chunkerConfig{
		parentSize: DefaultParentSize,
		childSize:  DefaultChildSize,
		overlap:    DefaultOverlap,
	}
}

func (c chunkerConfig) validate() error {
	if c.parentSize <= 0 {
		return fmt.Errorf("chunk: parent size must be positive, got %d", c.parentSize)
	}
	if c.childSize <= 0 {
		return fmt.Errorf("chunk: child size must be positive, got %d", c.childSize)
	}
	if c.overlap < 0 {
		return fmt.Errorf("chunk: overlap must not be negative, got %d", c.overlap)
	}
	// overlap >= childSize makes the stride non-positive and the child loop
	// would never advance.
	if c.overlap >= c.childSize {
		return fmt.Errorf("chunk: overlap %d must be smaller than child size %d", c.overlap, c.childSize)
	}
	return nil
}

// WithParentSize sets the maximum parent window size in words (default 1024).
func WithParentSize(n int) Option {
	return func(c *chunkerConfig) { c.parentSize = n }
}

// WithChildSize sets the maximum child window size in words (default 512).
func WithChildSize(n int) Option {
	return func(c *chunkerConfig) { c.childSize = n }
}

// WithOverlap sets the number of words consecutive child windows share
// (default 30). Must be smaller than the child size.
func WithOverlap(n int) Option {
	return func(c *chunkerConfig) { c.overlap = n }
}

// WithContextualizer enables per-chunk enrichment: each child window is
// prefixed with a situating context generated by the given Contextualizer.
func WithContextualizer(ctxizer *Contextualizer) Option {
	return func(c *chunkerConfig) { c.ctxizer = ctxizer }
}
