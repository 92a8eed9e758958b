package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Compile-time interface check.
var _ Provider = (*AnthropicProvider)(nil)

const (
	anthropicBaseURL      = "https://api.anthropic.com/v1"
	anthropicDefaultModel = "claude-haiku-4-5"
	anthropicMaxTokens    = 2048
)

// AnthropicProvider implements Provider using the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropicProvider creates an AnthropicProvider.
func NewAnthropicProvider(cfg ProviderConfig) *AnthropicProvider {
	p := &AnthropicProvider{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
	if p.model == "" {
		p.model = anthropicDefaultModel
	}
	if p.baseURL == "" {
		p.baseURL = anthropicBaseURL
	}
	return p
}

// anthropicRequest is the request body for the Anthropic Messages API.
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

// anthropicMessage is a single message in the Anthropic request.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the response body from the Anthropic Messages API.
type anthropicResponse struct {
	Content []struct {
		Text *string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends prompt as a single user message.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string) (Completion, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     p.model,
		MaxTokens: anthropicMaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Completion{}, fmt.Errorf("anthropic: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("anthropic: creating request: %w", err)
	}

	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("content-type", "application/json")

	slog.Debug("calling Anthropic API", "model", p.model)

	resp, err := p.client.Do(req)
	if err != nil {
		return Completion{}, fmt.Errorf("anthropic: sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, fmt.Errorf("anthropic: reading response body: %w", err)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return Completion{}, fmt.Errorf("anthropic: parsing response (status %d): %w", resp.StatusCode, err)
	}

	if apiResp.Error != nil {
		return Completion{}, fmt.Errorf("anthropic: API error (status %d): %s", resp.StatusCode, apiResp.Error.Message)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Completion{}, fmt.Errorf("anthropic: unexpected status code: %d", resp.StatusCode)
	}

	if len(apiResp.Content) == 0 || apiResp.Content[0].Text == nil || *apiResp.Content[0].Text == "" {
		return Completion{}, nil
	}
	return Completion{Text: *apiResp.Content[0].Text, OK: true}, nil
}
