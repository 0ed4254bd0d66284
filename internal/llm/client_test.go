// ABOUTME: Tests for the chat completions client
// ABOUTME: Uses httptest servers to stub the upstream API

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Complete(t *testing.T) {
	var gotReq completionRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Contame sobre tu negocio."}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", "gpt-4o-mini")
	reply, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "Eres un consultor."},
		{Role: "user", Content: "Hola"},
	}, Options{Temperature: 0.7, MaxTokens: 1000})

	require.NoError(t, err)
	assert.Equal(t, "Contame sobre tu negocio.", reply)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Len(t, gotReq.Messages, 2)
	assert.Equal(t, 0.7, gotReq.Temperature)
	assert.Equal(t, 1000, gotReq.MaxTokens)
}

func TestClient_Complete_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_exceeded","message":"slow down"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", "gpt-4o-mini")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "Hola"}}, Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", "gpt-4o-mini")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "Hola"}}, Options{})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestClient_Complete_BlankContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"   "}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", "gpt-4o-mini")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "Hola"}}, Options{})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestClient_Complete_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", "gpt-4o-mini")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "Hola"}}, Options{})
	require.Error(t, err)
}

func TestClient_Complete_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "sk-test", "gpt-4o-mini")
	_, err := client.Complete(ctx, []Message{{Role: "user", Content: "Hola"}}, Options{})
	require.Error(t, err)
}
