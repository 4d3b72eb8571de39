package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"TradeIQ/pkg/config"
	xhttp "TradeIQ/pkg/http"
	"TradeIQ/pkg/logger"
)

// Client talks to an OpenAI-compatible chat completions endpoint. It
// implements repository.Completer.
type Client struct {
	cfg    config.LLMConfig
	client *xhttp.Client
	logger *logger.Logger
}

func NewClient(cfg config.LLMConfig, log *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		logger: log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one chat completion round-trip and returns the assistant
// message text. Transient failures are retried up to cfg.MaxAttempts times.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64, maxTokens int) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.New("llm: api key not configured")
	}

	req := chatRequest{
		Model:       c.cfg.Model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	}

	attempts := c.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := c.send(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		c.logger.Warn("llm completion attempt failed",
			logger.Int("attempt", attempt),
			logger.Error(err))

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
	}
	return "", fmt.Errorf("llm: completion failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) send(ctx context.Context, req chatRequest) (string, error) {
	var resp chatResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.cfg.APIKey,
			"Content-Type":  "application/json",
		},
		Body: req,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("llm: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: empty choices in response")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("llm: empty completion content")
	}
	return content, nil
}
