package passage

import (
	"context"
	"testing"
	"time"
)

func TestWithRateLimit_NoLimitsPassThrough(t *testing.T) {
	stub := &stubProvider{results: []stubResult{
		{resp: GenerateResponse{Text: "hello"}},
	}}
	p := WithRateLimit(stub)

	resp, err := p.Generate(context.Background(), GenerateRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hello" {
		t.Errorf("got %q, want %q", resp.Text, "hello")
	}
}

func TestWithRateLimit_RPMBlocksOverBudget(t *testing.T) {
	stub := &stubProvider{results: []stubResult{
		{resp: GenerateResponse{Text: "a"}},
		{resp: GenerateResponse{Text: "b"}},
	}}
	p := WithRateLimit(stub, RPM(1))

	if _, err := p.Generate(context.Background(), GenerateRequest{}); err != nil {
		t.Fatalf("first request: %v", err)
	}

	// Second request must block until the window slides; cancel instead of waiting.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := p.Generate(ctx, GenerateRequest{}); err != context.DeadlineExceeded {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
	if stub.calls != 1 {
		t.Errorf("got %d upstream calls, want 1", stub.calls)
	}
}

func TestWithRateLimit_TPMSoftLimit(t *testing.T) {
	stub := &stubProvider{results: []stubResult{
		{resp: GenerateResponse{Text: "big", Usage: Usage{InputTokens: 90, OutputTokens: 20}}},
		{resp: GenerateResponse{Text: "more"}},
	}}
	p := WithRateLimit(stub, TPM(100))

	// First request exceeds the budget but completes (soft limit).
	if _, err := p.Generate(context.Background(), GenerateRequest{}); err != nil {
		t.Fatalf("first request: %v", err)
	}

	// Second request blocks: 110 tokens already spent this minute.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := p.Generate(ctx, GenerateRequest{}); err != context.DeadlineExceeded {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
	if stub.calls != 1 {
		t.Errorf("got %d upstream calls, want 1", stub.calls)
	}
}

func TestWithRateLimit_ErrorsDoNotConsumeTokenBudget(t *testing.T) {
	stub := &stubProvider{results: []stubResult{
		{err: &ErrHTTP{Status: 500, Body: "boom"}},
		{resp: GenerateResponse{Text: "ok", Usage: Usage{InputTokens: 5}}},
	}}
	p := WithRateLimit(stub, TPM(10))

	if _, err := p.Generate(context.Background(), GenerateRequest{}); err == nil {
		t.Fatal("expected error from first request")
	}
	// Failed call recorded no tokens, so the second proceeds immediately.
	if _, err := p.Generate(context.Background(), GenerateRequest{}); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("got %d upstream calls, want 2", stub.calls)
	}
}

func TestWithRateLimit_NamePassThrough(t *testing.T) {
	p := WithRateLimit(&stubProvider{})
	if p.Name() != "stub" {
		t.Errorf("Name() = %q, want stub", p.Name())
	}
}
