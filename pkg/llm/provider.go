package llm

import (
	"context"
)

// Provider defines the interface for text-completion backends.
// A request carries an instruction plus subject text and returns free-form
// text; everything above this boundary treats the backend as opaque.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one completion request and returns the response text
	Complete(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for one completion call
type Request struct {
	// System is the system instruction framing the task
	System string

	// Prompt is the user message (instruction + optional exemplars + subject text)
	Prompt string

	// Model overrides the configured model for this call (optional)
	Model string

	// MaxTokens limits the response length (optional, falls back to config)
	MaxTokens int
}

// Response contains the completion output
type Response struct {
	// Text is the raw model output
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds completion-backend configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, proxies)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// Temperature controls sampling; 0 leaves the backend default in place
	Temperature float32

	// MaxTokens for response generation
	MaxTokens int

	// MaxRetries is the per-request retry budget for transient failures
	MaxRetries int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Model:       "",
		Timeout:     60,
		Temperature: 0.1, // Low temperature: extraction and judgment want stable output
		MaxTokens:   2000,
		MaxRetries:  3,
	}
}
