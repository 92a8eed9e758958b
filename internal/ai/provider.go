package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single provider call when none is configured.
const DefaultTimeout = 60 * time.Second

// Provider is the interface that all LLM providers must implement.
type Provider interface {
	// Generate sends prompt to the model and returns its text output.
	// Transport failures, non-2xx statuses and undecodable bodies are
	// errors; a well-formed response without text is Completion{OK: false}.
	Generate(ctx context.Context, prompt string) (Completion, error)
}

// NewProvider creates the appropriate provider based on config.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg), nil
	case "anthropic":
		return NewAnthropicProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
