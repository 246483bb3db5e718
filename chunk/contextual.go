package chunk

import (
	"context"
	"fmt"
	"log/slog"

	passage "github.com/passage-rag/passage"
)

const situatingSystemPrompt = `You're an expert at providing a succinct context, targeted for specific text chunks.

<instruction>
- Offer 1-5 short sentences that explain what specific information this chunk provides within the document.
- Focus on the unique content of this chunk, avoiding general statements about the overall document.
- Clarify how this chunk's content relates to other parts of the document and its role in the document.
- If there's essential information in the document that backs up this chunk's key points, mention the details.
</instruction>`

const situatingPrompt = `<document>
%s
</document>
Here is the chunk we want to situate within the whole document.
<chunk>
%s
</chunk>
Please give a short succinct context to situate this chunk within the overall document for the purposes of improving search retrieval of the chunk.
Mention the title of the header that this chunk belongs to, followed by a short succinct context.
Answer in %s.`

// DefaultFallbackContext marks chunks whose enrichment call failed when the
// Contextualizer runs in FailDegraded mode.
const DefaultFallbackContext = "[컨텍스트: 이 청크는 문서의 일부입니다]"

// FailMode selects how a Contextualizer handles generation failures.
type FailMode int

const (
	// FailStrict propagates the failure, aborting the current document.
	FailStrict FailMode = iota
	// FailDegraded substitutes a fixed fallback context so one failed
	// enrichment never aborts a whole document.
	FailDegraded
)

// Contextualizer generates a short situating context for a child window
// given its enclosing parent window. Every call issues exactly one
// generation request: no retry, no caching across windows.
type Contextualizer struct {
	provider    passage.Provider
	language    string
	maxTokens   int
	temperature float64
	failMode    FailMode
	fallback    string
	logger      *slog.Logger
}

// ContextOption configures a Contextualizer.
type ContextOption func(*Contextualizer)

// WithLanguage sets the natural language the situating context is written in
// (default "Korean").
func WithLanguage(lang string) ContextOption {
	return func(c *Contextualizer) { c.language = lang }
}

// WithFailMode selects the failure policy (default FailStrict).
func WithFailMode(m FailMode) ContextOption {
	return func(c *Contextualizer) { c.failMode = m }
}

// WithFallbackContext overrides the context substituted in FailDegraded mode.
func WithFallbackContext(s string) ContextOption {
	return func(c *Contextualizer) { c.fallback = s }
}

// WithMaxTokens caps the completion length (default 1000).
func WithMaxTokens(n int) ContextOption {
	return func(c *Contextualizer) { c.maxTokens = n }
}

// WithTemperature sets the sampling temperature (default 0.7).
func WithTemperature(t float64) ContextOption {
	return func(c *Contextualizer) { c.temperature = t }
}

// WithLogger sets a structured logger. If not set, nothing is logged.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *Contextualizer) { c.logger = l }
}

// NewContextualizer creates a Contextualizer backed by the given provider.
func NewContextualizer(p passage.Provider, opts ...ContextOption) *Contextualizer {
	c := &Contextualizer{
		provider:    p,
		language:    "Korean",
		maxTokens:   1000,
		temperature: 0.7,
		failMode:    FailStrict,
		fallback:    DefaultFallbackContext,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Situate returns a short description of the child window's role within its
// parent window. The call blocks until the provider responds; the first
// completion is returned unmodified.
func (c *Contextualizer) Situate(ctx context.Context, parentText, childText string) (string, error) {
	req := passage.GenerateRequest{
		System:      situatingSystemPrompt,
		Prompt:      fmt.Sprintf(situatingPrompt, parentText, childText, c.language),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		if c.failMode == FailDegraded {
			c.logger.Warn("situating context failed, using fallback",
				"provider", c.provider.Name(), "err", err)
			return c.fallback, nil
		}
		return "", fmt.Errorf("situating context: %w", err)
	}
	return resp.Text, nil
}
