package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	_ Embedder  = (*GeminiService)(nil)
	_ Completer = (*GeminiService)(nil)
)

// Inputs longer than this are cut before embedding.
const maxEmbeddingChars = 10000

type GeminiService struct {
	Client         *genai.Client
	ChatModel      string
	EmbeddingModel string
	RequestTimeout time.Duration
	logger         *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey string, cfg *config.GeminiConfig, timeout time.Duration, logger *zap.Logger) (*GeminiService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiService{
		Client:         client,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		RequestTimeout: timeout,
		logger:         logger,
	}, nil
}

func (s *GeminiService) Model() string {
	return s.ChatModel
}

func (s *GeminiService) Complete(ctx context.Context, system, prompt string) (string, error) {
	if s.ChatModel == "" {
		return "", fmt.Errorf("model name cannot be empty")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := withTimeout(ctx, s.RequestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}
	if system != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	result, err := s.Client.Models.GenerateContent(timeoutCtx, s.ChatModel, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}
	if err := validateGenerateResponse(result); err != nil {
		return "", fmt.Errorf("invalid response: %w", err)
	}
	return result.Text(), nil
}

func (s *GeminiService) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for i, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, fmt.Errorf("text %d for embedding cannot be empty", i)
		}
		if len(trimmed) > maxEmbeddingChars {
			s.logger.Warn("Embedding input truncated", zap.Int("index", i), zap.Int("length", len(trimmed)))
			trimmed = trimmed[:maxEmbeddingChars]
		}
		contents = append(contents, genai.NewContentFromText(trimmed, genai.RoleUser))
	}

	timeoutCtx, cancel := withTimeout(ctx, s.RequestTimeout)
	defer cancel()

	result, err := s.Client.Models.EmbedContent(timeoutCtx, s.EmbeddingModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate embedding failed: %w", err)
	}
	return validateEmbeddingResponse(result, len(texts))
}

func (s *GeminiService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}

	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}

	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}

	return nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse, want int) ([][]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}

	if len(resp.Embeddings) != want {
		return nil, fmt.Errorf("expected %d embeddings, got %d", want, len(resp.Embeddings))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("embedding vector %d is empty", i)
		}
		for j, val := range emb.Values {
			if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
				return nil, fmt.Errorf("invalid embedding value at %d/%d: %v", i, j, val)
			}
		}
		out[i] = emb.Values
	}

	return out, nil
}
