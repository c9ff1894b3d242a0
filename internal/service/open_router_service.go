package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

var _ Completer = (*OpenRouterService)(nil)

// OpenRouterService talks to OpenRouter's OpenAI-compatible chat endpoint.
type OpenRouterService struct {
	client *resty.Client
	model  string
}

func NewOpenRouterService(apiKey string, cfg *config.OpenRouterConfig, timeout time.Duration) (*OpenRouterService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &OpenRouterService{client: client, model: cfg.Model}, nil
}

func (s *OpenRouterService) Model() string {
	return s.model
}

func (s *OpenRouterService) Complete(ctx context.Context, system, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	messages := []map[string]string{}
	if system != "" {
		messages = append(messages, map[string]string{"role": "system", "content": system})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model":       s.model,
			"messages":    messages,
			"temperature": 0.1,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}

	body := resp.String()
	if resp.IsError() {
		msg := gjson.Get(body, "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode(), msg)
	}

	text := gjson.Get(body, "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("no response from LLM")
	}
	return text, nil
}
