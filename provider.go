package passage

import "context"

// Provider abstracts the text-generation backend.
//
// The chunk package depends only on this shape: model choice, authentication,
// and transport belong to the implementations in provider/.
type Provider interface {
	// Generate sends a single-turn request and returns the first completion.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	// Name returns the provider name (e.g. "anthropic", "gemini").
	Name() string
}
