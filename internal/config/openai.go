package config

import (
	"os"
	"sync"
)

type OpenAIConfig struct {
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
}

var (
	openAIConfig *OpenAIConfig
	openAIOnce   sync.Once
)

func LoadOpenAIConfig() *OpenAIConfig {
	openAIOnce.Do(func() {
		openAIConfig = &OpenAIConfig{
			BaseURL:        os.Getenv("OPENAI_BASE_URL"),
			ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		}
	})
	return openAIConfig
}
