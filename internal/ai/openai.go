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
var _ Provider = (*OpenAIProvider)(nil)

const (
	openaiBaseURL      = "https://api.openai.com/v1"
	openaiDefaultModel = "gpt-4.1-mini"
)

// OpenAIProvider implements Provider using the OpenAI Responses API.
type OpenAIProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIProvider creates an OpenAIProvider. The HTTP client timeout
// bounds each call.
func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	p := &OpenAIProvider{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
	if p.model == "" {
		p.model = openaiDefaultModel
	}
	if p.baseURL == "" {
		p.baseURL = openaiBaseURL
	}
	return p
}

// openaiRequest is the request body for the Responses API.
type openaiRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// openaiResponse is the part of a Responses API body we read. Text is a
// pointer so an absent field can be told apart from an empty one.
type openaiResponse struct {
	Output []struct {
		Content []struct {
			Text *string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// text returns the first content block of the first output item.
func (r *openaiResponse) text() (string, bool) {
	if len(r.Output) == 0 || len(r.Output[0].Content) == 0 {
		return "", false
	}
	t := r.Output[0].Content[0].Text
	if t == nil || *t == "" {
		return "", false
	}
	return *t, true
}

// Generate sends prompt as the input of a single Responses API call.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (Completion, error) {
	body, err := json.Marshal(openaiRequest{Model: p.model, Input: prompt})
	if err != nil {
		return Completion{}, fmt.Errorf("openai: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("openai: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("calling OpenAI API", "model", p.model)

	resp, err := p.client.Do(req)
	if err != nil {
		return Completion{}, fmt.Errorf("openai: sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, fmt.Errorf("openai: reading response body: %w", err)
	}

	var apiResp openaiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return Completion{}, fmt.Errorf("openai: parsing response (status %d): %w", resp.StatusCode, err)
	}

	if apiResp.Error != nil {
		return Completion{}, fmt.Errorf("openai: API error (status %d): %s", resp.StatusCode, apiResp.Error.Message)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Completion{}, fmt.Errorf("openai: unexpected status code: %d", resp.StatusCode)
	}

	text, ok := apiResp.text()
	return Completion{Text: text, OK: ok}, nil
}
