package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpenAIConfig(baseURL string) *config.OpenAIConfig {
	return &config.OpenAIConfig{
		BaseURL:        baseURL,
		ChatModel:      "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
	}
}

func TestNewOpenAIService_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIService("", testOpenAIConfig(""), time.Second)
	assert.Error(t, err)

	_, err = NewOpenAIEmbedding("  ", testOpenAIConfig(""), time.Second)
	assert.Error(t, err)
}

func TestOpenAIService_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)
		assert.Equal(t, "Which jobs grow fastest?", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Nurse practitioners."}}]
		}`))
	}))
	defer server.Close()

	svc, err := NewOpenAIService("sk-test", testOpenAIConfig(server.URL+"/"), 5*time.Second)
	require.NoError(t, err)

	answer, err := svc.Complete(context.Background(), "You are a career coach.", "Which jobs grow fastest?")
	require.NoError(t, err)
	assert.Equal(t, "Nurse practitioners.", answer)
	assert.Equal(t, "gpt-4o-mini", svc.Model())
}

func TestOpenAIService_CompleteAPIError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer server.Close()

	svc, err := NewOpenAIService("sk-test", testOpenAIConfig(server.URL+"/"), 5*time.Second)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "", "hello")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "requests must not be retried")
}

func TestOpenAIService_CompleteEmptyPrompt(t *testing.T) {
	svc, err := NewOpenAIService("sk-test", testOpenAIConfig(""), time.Second)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "system", "   ")
	assert.Error(t, err)
}

func TestOpenAIEmbedding_EmbedDocumentsKeepsOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)

		var body struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"first", "second"}, body.Input)
		assert.Equal(t, "text-embedding-3-small", body.Model)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"model": "text-embedding-3-small",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0.0, 1.0]},
				{"object": "embedding", "index": 0, "embedding": [1.0, 0.0]}
			],
			"usage": {"prompt_tokens": 2, "total_tokens": 2}
		}`))
	}))
	defer server.Close()

	emb, err := NewOpenAIEmbedding("sk-test", testOpenAIConfig(server.URL+"/"), 5*time.Second)
	require.NoError(t, err)

	vectors, err := emb.EmbedDocuments(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 0}, vectors[0])
	assert.Equal(t, []float32{0, 1}, vectors[1])
}

func TestOpenAIEmbedding_EmptyInput(t *testing.T) {
	emb, err := NewOpenAIEmbedding("sk-test", testOpenAIConfig(""), time.Second)
	require.NoError(t, err)

	vectors, err := emb.EmbedDocuments(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vectors)

	_, err = emb.EmbedQuery(context.Background(), "")
	assert.Error(t, err)
}
