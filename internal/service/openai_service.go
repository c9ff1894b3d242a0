package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	_ Embedder  = (*OpenAIService)(nil)
	_ Completer = (*OpenAIService)(nil)
	_ Embedder  = (*OpenAIEmbedding)(nil)
)

// OpenAIService calls the OpenAI chat completions API with a session key.
type OpenAIService struct {
	client         openai.Client
	chatModel      string
	RequestTimeout time.Duration
	embedding      *OpenAIEmbedding
}

// OpenAIEmbedding is the embeddings half of OpenAIService, usable on its own.
type OpenAIEmbedding struct {
	client         openai.Client
	model          string
	RequestTimeout time.Duration
}

func newOpenAIClient(apiKey string, cfg *config.OpenAIConfig) (openai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return openai.Client{}, fmt.Errorf("OpenAI API key is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return openai.NewClient(opts...), nil
}

func NewOpenAIService(apiKey string, cfg *config.OpenAIConfig, timeout time.Duration) (*OpenAIService, error) {
	client, err := newOpenAIClient(apiKey, cfg)
	if err != nil {
		return nil, err
	}
	return &OpenAIService{
		client:         client,
		chatModel:      cfg.ChatModel,
		RequestTimeout: timeout,
		embedding: &OpenAIEmbedding{
			client:         client,
			model:          cfg.EmbeddingModel,
			RequestTimeout: timeout,
		},
	}, nil
}

func NewOpenAIEmbedding(apiKey string, cfg *config.OpenAIConfig, timeout time.Duration) (*OpenAIEmbedding, error) {
	client, err := newOpenAIClient(apiKey, cfg)
	if err != nil {
		return nil, err
	}
	return &OpenAIEmbedding{client: client, model: cfg.EmbeddingModel, RequestTimeout: timeout}, nil
}

func (s *OpenAIService) Model() string {
	return s.chatModel
}

func (s *OpenAIService) Complete(ctx context.Context, system, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := withTimeout(ctx, s.RequestTimeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := s.client.Chat.Completions.New(timeoutCtx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(s.chatModel),
		Messages:    messages,
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *OpenAIService) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return s.embedding.EmbedDocuments(ctx, texts)
}

func (s *OpenAIService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.embedding.EmbedQuery(ctx, text)
}

func (e *OpenAIEmbedding) Model() string {
	return e.model
}

func (e *OpenAIEmbedding) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	timeoutCtx, cancel := withTimeout(ctx, e.RequestTimeout)
	defer cancel()

	resp, err := e.client.Embeddings.New(timeoutCtx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	// order by index so output matches input
	embeddings := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index >= 0 && int(d.Index) < len(embeddings) {
			embeddings[d.Index] = float64sTo32(d.Embedding)
		}
	}
	for i, emb := range embeddings {
		if len(emb) == 0 {
			return nil, fmt.Errorf("no embedding returned for input %d", i)
		}
	}
	return embeddings, nil
}

func (e *OpenAIEmbedding) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	embeddings, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
