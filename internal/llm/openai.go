package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/cargoquote/config"
	"github.com/sashabaranov/go-openai"
)

var ErrEmptyCompletion = errors.New("llm returned no choices")

// Client sends single-prompt chat completions. No conversation state is kept
// between calls.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg config.LLMConfig) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(clientCfg), model: cfg.Model}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
