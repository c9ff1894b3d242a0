package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestOpenRouterService_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer or-key", r.Header.Get("Authorization"))

		buf, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "openai/gpt-4o-mini", gjson.GetBytes(buf, "model").String())
		assert.Equal(t, "question", gjson.GetBytes(buf, "messages.1.content").String())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"answer"}}]}`))
	}))
	defer server.Close()

	svc, err := NewOpenRouterService("or-key", &config.OpenRouterConfig{BaseURL: server.URL, Model: "openai/gpt-4o-mini"}, 5*time.Second)
	require.NoError(t, err)

	text, err := svc.Complete(context.Background(), "system", "question")
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
}

func TestOpenRouterService_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer server.Close()

	svc, err := NewOpenRouterService("bad", &config.OpenRouterConfig{BaseURL: server.URL, Model: "m"}, 5*time.Second)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "", "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
	assert.Contains(t, err.Error(), "401")
}

func TestOpenRouterService_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	svc, err := NewOpenRouterService("key", &config.OpenRouterConfig{BaseURL: server.URL, Model: "m"}, 5*time.Second)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "", "question")
	assert.EqualError(t, err, "no response from LLM")
}

func TestNewOpenRouterService_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenRouterService("", &config.OpenRouterConfig{}, time.Second)
	assert.Error(t, err)
}
