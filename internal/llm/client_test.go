package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoneNarendra/unibudget/internal/common"
)

func TestOpenAIClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0]["role"])
		assert.Equal(t, "be nice", body.Messages[0]["content"])
		assert.Equal(t, "tips please", body.Messages[1]["content"])

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"- save more"}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), Config{
		Provider: ProviderOpenAI, APIKey: "test-key", Model: "gpt-test", BaseURL: server.URL,
	})
	require.NoError(t, err)

	got, err := client.Generate(context.Background(), Request{System: "be nice", Prompt: "tips please"})
	require.NoError(t, err)
	assert.Equal(t, "- save more", got)
}

func TestAnthropicClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "be nice", body["system"])

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"one "},{"type":"text","text":"two"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), Config{
		Provider: ProviderAnthropic, APIKey: "test-key", BaseURL: server.URL + "/",
	})
	require.NoError(t, err)

	got, err := client.Generate(context.Background(), Request{System: "be nice", Prompt: "tips"})
	require.NoError(t, err)
	assert.Equal(t, "one two", got)
}

func TestGeminiClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "models/gemini-test:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"eat at the mess"}]}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), Config{
		Provider: ProviderGemini, APIKey: "test-key", Model: "gemini-test", BaseURL: server.URL + "/",
	})
	require.NoError(t, err)

	got, err := client.Generate(context.Background(), Request{System: "be nice", Prompt: "tips"})
	require.NoError(t, err)
	assert.Equal(t, "eat at the mess", got)
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Provider: "cohere", APIKey: "k"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	for _, provider := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		_, err := NewClient(context.Background(), Config{Provider: provider})
		assert.ErrorIs(t, err, common.ErrAdvisorUnavailable, provider)
	}
}

func TestStatusError(t *testing.T) {
	assert.ErrorIs(t, statusError("x", http.StatusTooManyRequests, nil, ""), common.ErrRateLimit)
	assert.True(t, common.IsRetryable(statusError("x", http.StatusBadGateway, nil, "")))
	assert.False(t, common.IsRetryable(statusError("x", http.StatusUnauthorized, []byte("bad key"), "")))
	assert.Contains(t, statusError("x", http.StatusUnauthorized, []byte("bad key"), "").Error(), "bad key")

	var retryable *common.RetryableError
	require.ErrorAs(t, statusError("x", http.StatusTooManyRequests, nil, "4"), &retryable)
	assert.Equal(t, 4*time.Second, retryable.RetryAfter)
}
