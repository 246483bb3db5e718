package chunk

import (
	"context"
	"fmt"
	"strings"
)

var _ ContextChunker = (*HierarchicalChunker)(nil)

// HierarchicalChunker splits a document into large parent windows, then each
// parent into smaller overlapping child windows. Parent windows are never
// emitted; they exist as background context for their children. With a
// Contextualizer configured, ChunkContext prefixes every child window with a
// short LLM-generated description of its place in the parent.
type HierarchicalChunker struct {
	parentSize int
	childSize  int
	overlap    int
	ctxizer    *Contextualizer
}

// NewHierarchicalChunker creates a HierarchicalChunker with the given
// options. It returns an error when the window configuration is invalid
// (non-positive sizes, or overlap >= child size).
func NewHierarchicalChunker(opts ...Option) (*HierarchicalChunker, error) {
	cfg := defaultChunkerConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &HierarchicalChunker{
		parentSize: cfg.parentSize,
		childSize:  cfg.childSize,
		overlap:    cfg.overlap,
		ctxizer:    cfg.ctxizer,
	}, nil
}

// Chunk returns the child windows of text in parent-major order, without
// enrichment. Empty text yields no chunks.
func (h *HierarchicalChunker) Chunk(text string) []string {
	var chunks []string
	for _, parent := range splitParents(strings.Fields(text), h.parentSize) {
		for _, child := range splitChildren(parent, h.childSize, h.overlap) {
			chunks = append(chunks, strings.Join(child, " "))
		}
	}
	return chunks
}

// ChunkContext returns the child windows of text, each prefixed with a
// situating context and a blank line. Every child window issues exactly one
// generation call, sequentially, in emission order. Without a Contextualizer
// it behaves like Chunk.
//
// In strict mode a failed generation aborts the document; in degraded mode
// the Contextualizer substitutes its fallback string and chunking proceeds.
func (h *HierarchicalChunker) ChunkContext(ctx context.Context, text string) ([]string, error) {
	if h.ctxizer == nil {
		return h.Chunk(text), nil
	}

	var chunks []string
	for _, parent := range splitParents(strings.Fields(text), h.parentSize) {
		parentText := strings.Join(parent, " ")
		for _, child := range splitChildren(parent, h.childSize, h.overlap) {
			childText := strings.Join(child, " ")
			situating, err := h.ctxizer.Situate(ctx, parentText, childText)
			if err != nil {
				return nil, fmt.Errorf("situate chunk %d: %w", len(chunks), err)
			}
			chunks = append(chunks, situating+"\n\n"+childText)
		}
	}
	return chunks, nil
}

// splitParents partitions words into consecutive, non-overlapping windows of
// at most size words. The concatenation of all windows equals the input.
func splitParents(words []string, size int) [][]string {
	var parents [][]string
	for i := 0; i < len(words); i += size {
		end := min(i+size, len(words))
		parents = append(parents, words[i:end])
	}
	return parents
}

// splitChildren cuts a parent window into child windows of at most size
// words. Every window after the first starts overlap words before its
// offset, so consecutive windows share overlap words; offsets advance by
// size-overlap. A trailing candidate shorter than size/2 is suppressed
// rather than emitted or merged — its words stay covered only as far as the
// previous window reaches. Candidate lengths only shrink past that point, so
// iteration stops there.
func splitChildren(words []string, size, overlap int) [][]string {
	total := len(words)
	if total == 0 {
		return nil
	}

	var children [][]string
	stride := size - overlap
	for i := 0; i < total; i += stride {
		start := i
		if i > 0 {
			start = i - overlap
		}
		end := min(i+size, total)
		if i > 0 && end-start < size/2 {
			break
		}
		children = append(children, words[start:end])
	}
	return children
}
