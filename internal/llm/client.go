package llm

import (
	"context"
	"fmt"

	"github.com/jonathan/content-studio/internal/schemas"
)

// Request is a single generation call.
type Request struct {
	Prompt string
	Tier   ModelTier
	// Schema is required by GenerateJSON and ignored by GenerateContent
	Schema      *schemas.Schema
	Temperature *float32
	TopP        *float32
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates free text
	GenerateContent(ctx context.Context, req Request) (string, error)
	// GenerateJSON generates JSON text constrained by req.Schema
	GenerateJSON(ctx context.Context, req Request) (string, error)
	// GetModel returns the provider model serving a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
