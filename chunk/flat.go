package chunk

import "strings"

var _ Chunker = (*FlatChunker)(nil)

// FlatChunker splits text into consecutive fixed-size word windows.
// No overlap, no enrichment.
type FlatChunker struct {
	size int
}

// NewFlatChunker creates a FlatChunker emitting windows of at most size
// words. Non-positive size falls back to DefaultFlatSize.
func NewFlatChunker(size int) *FlatChunker {
	if size <= 0 {
		size = DefaultFlatSize
	}
	return &FlatChunker{size: size}
}

// Chunk splits text into word windows. Empty text yields no chunks.
func (f *FlatChunker) Chunk(text string) []string {
	words := strings.Fields(text)
	var chunks []string
	for i := 0; i < len(words); i += f.size {
		end := min(i+f.size, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
