package coach

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/habitkick/internal/domain"
)

func TestOllamaChat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama3","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"  Drink water.  "},"done":true}`))
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL+"/", "llama3", time.Second)
	reply, err := client.Chat(context.Background(), []domain.ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "tips?"},
	})
	require.NoError(t, err)
	require.Equal(t, domain.ChatMessage{Role: "assistant", Content: "Drink water."}, reply)
	require.Equal(t, "llama3", got.Model)
	require.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
}

func TestOllamaChatErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"nope\" not found"}`))
	}))
	defer srv.Close()

	_, err := NewOllamaClient(srv.URL, "nope", time.Second).Chat(context.Background(), []domain.ChatMessage{{Role: "user", Content: "hi"}})
	require.EqualError(t, err, `ollama: status 404: model "nope" not found`)

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"done":true}`))
	}))
	defer empty.Close()

	_, err = NewOllamaClient(empty.URL, "llama3", time.Second).Chat(context.Background(), []domain.ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
}
