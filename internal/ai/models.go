package ai

import "time"

// ProviderConfig holds the configuration needed to create an AI provider.
type ProviderConfig struct {
	Provider string // "openai" | "anthropic"
	APIKey   string
	Model    string
	BaseURL  string        // empty means the provider's public endpoint
	Timeout  time.Duration // zero means DefaultTimeout
}

// Completion is the outcome of a successful call to a provider. OK is false
// when the response decoded but carried no text where it should be.
type Completion struct {
	Text string
	OK   bool
}
