package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ar2745/cognitive-daily/internal/config"
)

func TestOllamaGenerateSuccess(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "local plan"})
	}))
	defer srv.Close()

	client := NewOllamaClient(config.AIConfig{OllamaBaseURL: srv.URL, OllamaModel: "llama3"})
	got, err := client.Generate(context.Background(), "plan my day")
	require.NoError(t, err)
	assert.Equal(t, "local plan", got)

	assert.Equal(t, "llama3", gotReq.Model)
	assert.Equal(t, "plan my day", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
}

func TestOllamaGenerateNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewOllamaClient(config.AIConfig{OllamaBaseURL: srv.URL, OllamaModel: "missing"})
	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestOllamaGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewOllamaClient(config.AIConfig{OllamaBaseURL: srv.URL, OllamaModel: "llama3"})
	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama request")
}

func TestOllamaDefaultBaseURL(t *testing.T) {
	client := NewOllamaClient(config.AIConfig{OllamaModel: "llama3"})
	assert.Equal(t, "http://localhost:11434", client.baseURL)
}
