package config

import (
	"strings"
	"sync"
	"time"
)

const (
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderLocal      = "local"
)

// AIConfig selects the hosted model vendor. The API key itself is never
// read from the environment; every session supplies its own.
type AIConfig struct {
	Provider          string
	EmbeddingProvider string
	RequestTimeout    time.Duration
}

var (
	aiConfig *AIConfig
	aiOnce   sync.Once
)

func LoadAIConfig() *AIConfig {
	aiOnce.Do(func() {
		aiConfig = &AIConfig{
			Provider:          strings.ToLower(getEnv("AI_PROVIDER", ProviderOpenAI)),
			EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", "")),
			RequestTimeout:    getEnvDuration("AI_REQUEST_TIMEOUT", 90*time.Second),
		}
	})
	return aiConfig
}

// ResolvedEmbeddingProvider returns the vendor used for embeddings.
// OpenRouter has no embeddings endpoint and falls back to local hashing.
func (c *AIConfig) ResolvedEmbeddingProvider() string {
	if c.EmbeddingProvider != "" {
		return c.EmbeddingProvider
	}
	if c.Provider == ProviderOpenRouter {
		return ProviderLocal
	}
	return c.Provider
}
