package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// AnthropicClient implements Client for Claude. Claude has no response-schema
// parameter, so the schema is appended to the prompt and the reply is unwrapped.
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Claude client. Extra options are used by tests
// to point the client at a local server.
func NewAnthropicClient(config *Config, apiKey string, opts ...anthropicoption.RequestOption) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultAnthropicConfig()
	}

	all := append([]anthropicoption.RequestOption{anthropicoption.WithAPIKey(apiKey)}, opts...)
	return &AnthropicClient{
		client: anthropic.NewClient(all...),
		config: config,
	}, nil
}

// GenerateContent generates free text
func (c *AnthropicClient) GenerateContent(ctx context.Context, req Request) (string, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*req.Temperature))
	}
	if req.TopP != nil {
		params.TopP = anthropic.Float(float64(*req.TopP))
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := extractAnthropicText(message)
	if text == "" {
		return "", fmt.Errorf("no text parts in response")
	}
	return text, nil
}

// GenerateJSON generates JSON matching req.Schema
func (c *AnthropicClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	if req.Schema == nil {
		return "", fmt.Errorf("response schema is required for JSON generation")
	}
	req.Prompt = req.Prompt + "\n\nResponde únicamente con un objeto JSON válido que cumpla este JSON Schema, sin texto adicional:\n" + req.Schema.String()

	text, err := c.GenerateContent(ctx, req)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the SDK client holds no resources.
func (c *AnthropicClient) Close() error {
	return nil
}

func extractAnthropicText(msg *anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}
