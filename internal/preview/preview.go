// Package preview sends a decorated prompt to an OpenAI-compatible API so
// the effect of a decorator chain can be inspected against a live model.
package preview

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/promptdeco/promptdeco/internal/config"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Client wraps an OpenAI-compatible chat completion endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// New builds a client from the AI section of the config file.
func New(cfg config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is required, set ai.api_key in the config file")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	c := openai.DefaultConfig(cfg.APIKey)
	c.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(c),
		model:  model,
	}, nil
}

// Model returns the model name completions are sent to.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the prompt as a single user message and returns the
// model's reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
