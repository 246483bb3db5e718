package chunk

import (
	"context"
	"fmt"
	"strings"
	"testing"

	passage "github.com/passage-rag/passage"
)

// mockProvider returns a canned completion and records every request.
type mockProvider struct {
	text     string
	err      error
	requests []passage.GenerateRequest
}

func (m *mockProvider) Generate(_ context.Context, req passage.GenerateRequest) (passage.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return passage.GenerateResponse{}, m.err
	}
	return passage.GenerateResponse{Text: m.text}, nil
}

func (m *mockProvider) Name() string { return "mock" }

func TestSituateRequestShape(t *testing.T) {
	provider := &mockProvider{text: "This chunk covers installation steps."}
	c := NewContextualizer(provider, WithLanguage("English"))

	got, err := c.Situate(context.Background(), "parent window text", "child window text")
	if err != nil {
		t.Fatal(err)
	}
	if got != "This chunk covers installation steps." {
		t.Errorf("Situate returned %q, want the completion unmodified", got)
	}

	if len(provider.requests) != 1 {
		t.Fatalf("got %d generation calls, want exactly 1", len(provider.requests))
	}
	req := provider.requests[0]
	if !strings.Contains(req.Prompt, "<document>\nparent window text\n</document>") {
		t.Error("prompt missing parent window as document background")
	}
	if !strings.Contains(req.Prompt, "<chunk>\nchild window text\n</chunk>") {
		t.Error("prompt missing child window as subject")
	}
	if !strings.Contains(req.Prompt, "Answer in English.") {
		t.Error("prompt missing target language instruction")
	}
	if !strings.Contains(req.System, "1-5 short sentences") {
		t.Error("system prompt missing sentence range instruction")
	}
	if req.MaxTokens != 1000 {
		t.Errorf("MaxTokens = %d, want 1000", req.MaxTokens)
	}
	if req.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", req.Temperature)
	}
}

func TestSituateStrictPropagatesFailure(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("service unavailable")}
	c := NewContextualizer(provider)

	if _, err := c.Situate(context.Background(), "p", "c"); err == nil {
		t.Fatal("expected error in strict mode")
	}
}

func TestSituateDegradedSubstitutesFallback(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("service unavailable")}
	c := NewContextualizer(provider, WithFailMode(FailDegraded))

	got, err := c.Situate(context.Background(), "p", "c")
	if err != nil {
		t.Fatalf("degraded mode returned error: %v", err)
	}
	if got != DefaultFallbackContext {
		t.Errorf("got %q, want the fallback context", got)
	}
}

func TestSituateDegradedCustomFallback(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("boom")}
	c := NewContextualizer(provider,
		WithFailMode(FailDegraded),
		WithFallbackContext("[context unavailable]"),
	)

	got, err := c.Situate(context.Background(), "p", "c")
	if err != nil {
		t.Fatal(err)
	}
	if got != "[context unavailable]" {
		t.Errorf("got %q, want custom fallback", got)
	}
}

func TestChunkContextEnrichedFormat(t *testing.T) {
	provider := &mockProvider{text: "Situating context."}
	h, err := NewHierarchicalChunker(
		WithParentSize(100),
		WithChildSize(50),
		WithOverlap(10),
		WithContextualizer(NewContextualizer(provider)),
	)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Join(makeWords(130), " ")
	chunks, err := h.ChunkContext(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}

	// Parents of 100 and 30 words: 3 windows + 1 window.
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}
	plain := h.Chunk(text)
	for i, c := range chunks {
		want := "Situating context.\n\n" + plain[i]
		if c != want {
			t.Errorf("chunk %d = %q, want %q", i, c, want)
		}
	}
	// Exactly one generation call per child window.
	if len(provider.requests) != 4 {
		t.Errorf("got %d generation calls, want 4", len(provider.requests))
	}
}

func TestChunkContextParentBackground(t *testing.T) {
	provider := &mockProvider{text: "ctx"}
	h, err := NewHierarchicalChunker(
		WithParentSize(100),
		WithChildSize(50),
		WithOverlap(10),
		WithContextualizer(NewContextualizer(provider)),
	)
	if err != nil {
		t.Fatal(err)
	}

	// 130 words: the final 30-word parent's window must be situated against
	// its own parent, not the first one.
	text := strings.Join(makeWords(130), " ")
	if _, err := h.ChunkContext(context.Background(), text); err != nil {
		t.Fatal(err)
	}

	last := provider.requests[len(provider.requests)-1]
	if !strings.Contains(last.Prompt, "<document>\nw101 ") {
		t.Error("final chunk situated against the wrong parent window")
	}
	if strings.Contains(last.Prompt, "<document>\nw1 ") {
		t.Error("final chunk carries the first parent as background")
	}
}

func TestChunkContextStrictAbortsDocument(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("timeout")}
	h, err := NewHierarchicalChunker(
		WithChildSize(50),
		WithOverlap(10),
		WithContextualizer(NewContextualizer(provider)),
	)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := h.ChunkContext(context.Background(), strings.Join(makeWords(130), " "))
	if err == nil {
		t.Fatal("expected error in strict mode")
	}
	if chunks != nil {
		t.Errorf("got %d chunks alongside error, want none", len(chunks))
	}
	// The first failure aborts; no further calls are made.
	if len(provider.requests) != 1 {
		t.Errorf("got %d generation calls after failure, want 1", len(provider.requests))
	}
}

func TestChunkContextDegradedProceeds(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("timeout")}
	h, err := NewHierarchicalChunker(
		WithParentSize(100),
		WithChildSize(50),
		WithOverlap(10),
		WithContextualizer(NewContextualizer(provider, WithFailMode(FailDegraded))),
	)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Join(makeWords(130), " ")
	chunks, err := h.ChunkContext(context.Background(), text)
	if err != nil {
		t.Fatalf("degraded mode returned error: %v", err)
	}
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}
	for i, c := range chunks {
		if !strings.HasPrefix(c, DefaultFallbackContext+"\n\n") {
			t.Errorf("chunk %d missing fallback context prefix: %q", i, c[:min(40, len(c))])
		}
	}
}

func TestChunkContextWithoutContextualizer(t *testing.T) {
	h, err := NewHierarchicalChunker(WithChildSize(50), WithOverlap(10))
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Join(makeWords(60), " ")

	got, err := h.ChunkContext(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	plain := h.Chunk(text)
	if len(got) != len(plain) {
		t.Fatalf("got %d chunks, want %d", len(got), len(plain))
	}
	for i := range got {
		if got[i] != plain[i] {
			t.Errorf("chunk %d differs from plain chunking", i)
		}
	}
}
