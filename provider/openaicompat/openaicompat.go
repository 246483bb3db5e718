// Package openaicompat implements passage.Provider for any OpenAI-compatible
// chat completions API.
//
// Works with OpenAI, Groq, Together, DeepSeek, Mistral, Ollama, vLLM, and
// any other provider implementing the same API surface.
package openaicompat

import (
	"context"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	passage "github.com/passage-rag/passage"
)

var _ passage.Provider = (*Provider)(nil)

// Provider implements passage.Provider over the chat completions API.
type Provider struct {
	client openai.Client
	model  string
	name   string
}

// Option configures a Provider.
type Option func(*Provider)

// WithName overrides the provider name reported by Name (e.g. "groq").
func WithName(name string) Option {
	return func(p *Provider) { p.name = name }
}

// New creates an OpenAI-compatible provider. baseURL may be empty for the
// OpenAI default endpoint.
func New(apiKey, model, baseURL string, opts ...Option) *Provider {
	requestOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(baseURL))
	}
	p := &Provider{
		client: openai.NewClient(requestOpts...),
		model:  model,
		name:   "openai",
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Name returns the configured provider name (default "openai").
func (p *Provider) Name() string { return p.name }

// Generate sends a single-turn chat completion request and returns the first
// choice's content.
func (p *Provider) Generate(ctx context.Context, req passage.GenerateRequest) (passage.GenerateResponse, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return passage.GenerateResponse{}, &passage.ErrLLM{Provider: p.Name(), Message: err.Error()}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return passage.GenerateResponse{}, &passage.ErrLLM{Provider: p.Name(), Message: "missing completion"}
	}

	return passage.GenerateResponse{
		Text: resp.Choices[0].Message.Content,
		Usage: passage.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}
