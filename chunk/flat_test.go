package chunk

import (
	"strings"
	"testing"
)

func TestFlatChunkerEmpty(t *testing.T) {
	f := NewFlatChunker(100)
	if got := f.Chunk(""); len(got) != 0 {
		t.Errorf("Chunk(\"\") = %d chunks, want 0", len(got))
	}
}

func TestFlatChunkerWindows(t *testing.T) {
	f := NewFlatChunker(100)
	text := strings.Join(makeWords(250), " ")
	chunks := f.Chunk(text)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if n := len(strings.Fields(chunks[0])); n != 100 {
		t.Errorf("first chunk has %d words, want 100", n)
	}
	if n := len(strings.Fields(chunks[2])); n != 50 {
		t.Errorf("last chunk has %d words, want 50", n)
	}

	// No overlap: re-concatenation equals the input word sequence.
	rejoined := strings.Join(chunks, " ")
	if rejoined != text {
		t.Error("flat chunks do not re-concatenate to the input")
	}
}

func TestFlatChunkerDefaultSize(t *testing.T) {
	f := NewFlatChunker(0)
	text := strings.Join(makeWords(101), " ")
	chunks := f.Chunk(text)
	if len(chunks) != 2 {
		t.Errorf("got %d chunks, want 2 (default %d-word windows)", len(chunks), DefaultFlatSize)
	}
}
