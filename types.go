package passage

// --- LLM protocol types ---

// GenerateRequest is a single-turn text-generation request.
type GenerateRequest struct {
	// System is the system prompt. Empty means no system prompt.
	System string `json:"system,omitempty"`
	// Prompt is the user-turn content.
	Prompt string `json:"prompt"`
	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int `json:"max_tokens,omitempty"`
	// Temperature controls sampling. Zero means provider default.
	Temperature float64 `json:"temperature,omitempty"`
}

// GenerateResponse holds the first textual completion returned by a provider.
type GenerateResponse struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Usage reports token consumption for a single generation call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
