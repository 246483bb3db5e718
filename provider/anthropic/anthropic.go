// Package anthropic implements passage.Provider for Anthropic Claude models.
package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	passage "github.com/passage-rag/passage"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-haiku-latest"

// defaultMaxTokens caps completions when the request leaves MaxTokens unset;
// the messages API requires a positive value.
const defaultMaxTokens = 1024

var _ passage.Provider = (*Provider)(nil)

// Provider implements passage.Provider over the Anthropic messages API.
type Provider struct {
	client anthropic.Client
	model  string
}

// Option configures a Provider.
type Option func(*config)

type config struct {
	requestOpts []option.RequestOption
}

// WithBaseURL overrides the API base URL (proxies, compatible gateways).
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.requestOpts = append(c.requestOpts, option.WithBaseURL(u))
	}
}

// New creates an Anthropic provider. An empty model falls back to
// DefaultModel.
func New(apiKey, model string, opts ...Option) *Provider {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	if model == "" {
		model = DefaultModel
	}
	requestOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, cfg.requestOpts...)
	return &Provider{
		client: anthropic.NewClient(requestOpts...),
		model:  model,
	}
}

// Name returns "anthropic".
func (p *Provider) Name() string { return "anthropic" }

// Generate sends a single-turn message request and returns the first text
// block of the completion.
func (p *Provider) Generate(ctx context.Context, req passage.GenerateRequest) (passage.GenerateResponse, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return passage.GenerateResponse{}, &passage.ErrLLM{Provider: p.Name(), Message: err.Error()}
	}

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return passage.GenerateResponse{
				Text: block.Text,
				Usage: passage.Usage{
					InputTokens:  int(msg.Usage.InputTokens),
					OutputTokens: int(msg.Usage.OutputTokens),
				},
			}, nil
		}
	}
	return passage.GenerateResponse{}, &passage.ErrLLM{Provider: p.Name(), Message: "missing text completion"}
}
