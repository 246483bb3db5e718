// Package resolve creates a passage.Provider from provider-agnostic
// configuration.
package resolve

import (
	"fmt"

	passage "github.com/passage-rag/passage"
	"github.com/passage-rag/passage/provider/anthropic"
	"github.com/passage-rag/passage/provider/gemini"
	"github.com/passage-rag/passage/provider/openaicompat"
)

// Config holds provider-agnostic configuration for creating a Provider.
type Config struct {
	Provider string // "anthropic", "gemini", "openai", "groq", "deepseek", "together", "mistral", "ollama"
	APIKey   string
	Model    string
	BaseURL  string // optional for openai-compat; auto-filled for known providers
}

// knownBaseURLs maps openai-compatible provider names to their API bases.
var knownBaseURLs = map[string]string{
	"openai":   "", // SDK default
	"groq":     "https://api.groq.com/openai/v1",
	"deepseek": "https://api.deepseek.com/v1",
	"together": "https://api.together.xyz/v1",
	"mistral":  "https://api.mistral.ai/v1",
	"ollama":   "http://localhost:11434/v1",
}

// Provider creates a passage.Provider from a Config.
func Provider(cfg Config) (passage.Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		var opts []anthropic.Option
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return anthropic.New(cfg.APIKey, cfg.Model, opts...), nil
	case "gemini":
		return gemini.New(cfg.APIKey, cfg.Model), nil
	case "openai", "groq", "deepseek", "together", "mistral", "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = knownBaseURLs[cfg.Provider]
		}
		return openaicompat.New(cfg.APIKey, cfg.Model, baseURL,
			openaicompat.WithName(cfg.Provider)), nil
	default:
		return nil, fmt.Errorf("resolve: unknown provider %q", cfg.Provider)
	}
}
