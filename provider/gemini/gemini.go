// Package gemini implements passage.Provider for Google Gemini models.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	passage "github.com/passage-rag/passage"
)

var baseURL = "https://generativelanguage.googleapis.com/v1beta"

var _ passage.Provider = (*Gemini)(nil)

// Gemini implements passage.Provider for Google Gemini models over the
// generateContent REST API.
type Gemini struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// New creates a Gemini provider.
func New(apiKey, model string) *Gemini {
	return &Gemini{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

// Name returns "gemini".
func (g *Gemini) Name() string { return "gemini" }

// Generate sends a non-streaming generateContent request and returns the
// first candidate's text.
func (g *Gemini) Generate(ctx context.Context, req passage.GenerateRequest) (passage.GenerateResponse, error) {
	body := g.buildBody(req)

	payload, err := json.Marshal(body)
	if err != nil {
		return passage.GenerateResponse{}, g.wrapErr("marshal body: " + err.Error())
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", baseURL, g.model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return passage.GenerateResponse{}, g.wrapErr("create request: " + err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return passage.GenerateResponse{}, g.wrapErr("request failed: " + err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return passage.GenerateResponse{}, g.wrapErr("failed to read response body: " + err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return passage.GenerateResponse{}, &passage.ErrHTTP{
			Status:     resp.StatusCode,
			Body:       string(respBody),
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return passage.GenerateResponse{}, g.wrapErr("failed to parse response JSON: " + err.Error())
	}

	var content strings.Builder
	if len(parsed.Candidates) > 0 {
		for _, part := range parsed.Candidates[0].Content.Parts {
			content.WriteString(part.Text)
		}
	}
	if content.Len() == 0 {
		return passage.GenerateResponse{}, g.wrapErr("missing completion")
	}

	var usage passage.Usage
	if parsed.UsageMetadata != nil {
		usage.InputTokens = parsed.UsageMetadata.PromptTokenCount
		usage.OutputTokens = parsed.UsageMetadata.CandidatesTokenCount
	}

	return passage.GenerateResponse{Text: content.String(), Usage: usage}, nil
}

// buildBody assembles the generateContent request body.
func (g *Gemini) buildBody(req passage.GenerateRequest) map[string]any {
	body := map[string]any{
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]any{{"text": req.Prompt}},
			},
		},
	}
	if req.System != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]any{{"text": req.System}},
		}
	}

	genConfig := map[string]any{}
	if req.Temperature > 0 {
		genConfig["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		genConfig["maxOutputTokens"] = req.MaxTokens
	}
	if len(genConfig) > 0 {
		body["generationConfig"] = genConfig
	}
	return body
}

func (g *Gemini) wrapErr(msg string) error {
	return &passage.ErrLLM{Provider: "gemini", Message: msg}
}

// retryAfter parses a Retry-After header value given in seconds.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}
