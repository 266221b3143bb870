// Package llm provides the generative-model client behind the semantic
// classification fallback. It wraps the OpenAI-compatible chat completion API
// and bounds every call with a timeout so a slow model cannot stall
// classification.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client issues chat completions against an OpenAI-compatible endpoint.
// It implements classify.SemanticClassifier.
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

// Options configures a Client. BaseURL may point at any OpenAI-compatible
// server (a local model gateway in development).
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// New creates a Client from the given options.
func New(opts Options, logger *slog.Logger) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
		logger:      logger.With("system", "llm"),
	}
}

// Complete sends a system and user prompt and returns the raw model content.
// The call is bounded by the configured timeout; callers treat any error,
// timeout included, as a recoverable no-result.
func (c *Client) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	c.logger.Debug("completion finished",
		"model", c.model,
		"duration", time.Since(start),
		"total_tokens", resp.Usage.TotalTokens,
	)

	return resp.Choices[0].Message.Content, nil
}
