// Package coach talks to an Ollama chat model.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/httputil"
)

// OllamaClient implements domain.ChatModel against /api/chat.
type OllamaClient struct {
	baseURL string
	model   string
	http    *httputil.Client
}

// NewOllamaClient constructs an OllamaClient. Generation is slow so timeout should be generous.
func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    httputil.NewClient("ollama", timeout, httputil.DefaultRetryConfig()),
	}
}

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
}

// Chat sends the conversation and returns the assistant reply.
func (c *OllamaClient) Chat(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error) {
	payload, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return domain.ChatMessage{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return domain.ChatMessage{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return domain.ChatMessage{}, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.ChatMessage{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ChatMessage{}, fmt.Errorf("ollama: status %d: %s", resp.StatusCode, gjson.GetBytes(body, "error").String())
	}

	content := gjson.GetBytes(body, "message.content")
	if !content.Exists() {
		return domain.ChatMessage{}, fmt.Errorf("ollama: response has no message")
	}
	role := gjson.GetBytes(body, "message.role").String()
	if role == "" {
		role = "assistant"
	}
	return domain.ChatMessage{Role: role, Content: strings.TrimSpace(content.String())}, nil
}
