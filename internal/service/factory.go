package service

import (
	"context"
	"fmt"

	"github.com/fadilmartias/job-coach-ai/internal/config"
	"github.com/fadilmartias/job-coach-ai/internal/model"
	"go.uber.org/zap"
)

// ProviderFactory builds embedding and completion clients for a session key
// according to AI_PROVIDER and EMBEDDING_PROVIDER.
type ProviderFactory struct {
	ai         *config.AIConfig
	openAI     *config.OpenAIConfig
	gemini     *config.GeminiConfig
	openRouter *config.OpenRouterConfig
	logger     *zap.Logger
}

func NewProviderFactory(ai *config.AIConfig, openAI *config.OpenAIConfig, gemini *config.GeminiConfig, openRouter *config.OpenRouterConfig, logger *zap.Logger) *ProviderFactory {
	return &ProviderFactory{
		ai:         ai,
		openAI:     openAI,
		gemini:     gemini,
		openRouter: openRouter,
		logger:     logger,
	}
}

func (f *ProviderFactory) Embedder(ctx context.Context, apiKey string) (Embedder, error) {
	switch provider := f.ai.ResolvedEmbeddingProvider(); provider {
	case config.ProviderOpenAI:
		emb, err := NewOpenAIEmbedding(apiKey, f.openAI, f.ai.RequestTimeout)
		if err != nil {
			return nil, err
		}
		return emb, nil
	case config.ProviderGemini:
		svc, err := NewGeminiService(ctx, apiKey, f.gemini, f.ai.RequestTimeout, f.logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.ProviderLocal:
		return NewLocalEmbedder(0), nil
	default:
		return nil, fmt.Errorf("%w: embedding provider %q", model.ErrUnknownProvider, provider)
	}
}

func (f *ProviderFactory) Completer(ctx context.Context, apiKey string) (Completer, error) {
	switch f.ai.Provider {
	case config.ProviderOpenAI:
		svc, err := NewOpenAIService(apiKey, f.openAI, f.ai.RequestTimeout)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.ProviderGemini:
		svc, err := NewGeminiService(ctx, apiKey, f.gemini, f.ai.RequestTimeout, f.logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.ProviderOpenRouter:
		svc, err := NewOpenRouterService(apiKey, f.openRouter, f.ai.RequestTimeout)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownProvider, f.ai.Provider)
	}
}

// ProviderName is shown on the setup page to tell the user which key to enter.
func (f *ProviderFactory) ProviderName() string {
	return f.ai.Provider
}
