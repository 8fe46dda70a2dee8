// Package notify sends transactional email through the Resend API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"example.com/habitkick/internal/httputil"
)

// ErrDisabled is returned by Send when no API key is configured.
var ErrDisabled = errors.New("email delivery disabled")

// Email is one outbound message.
type Email struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendClient posts emails to Resend.
type ResendClient struct {
	baseURL string
	apiKey  string
	from    string
	http    *httputil.Client
}

// NewResendClient constructs a client. An empty apiKey yields a client whose Send returns ErrDisabled.
func NewResendClient(baseURL, apiKey, from string, timeout time.Duration) *ResendClient {
	return &ResendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		http:    httputil.NewClient("resend", timeout, httputil.DefaultRetryConfig()),
	}
}

// Enabled reports whether an API key is configured.
func (c *ResendClient) Enabled() bool { return c.apiKey != "" }

// Send delivers email and returns the provider message id.
func (c *ResendClient) Send(ctx context.Context, email Email) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	if len(email.To) == 0 {
		return "", errors.New("email has no recipients")
	}

	body, err := json.Marshal(struct {
		From string `json:"from"`
		Email
	}{From: c.from, Email: email})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("resend: status %d: %s", resp.StatusCode, gjson.GetBytes(data, "message").String())
	}
	return gjson.GetBytes(data, "id").String(), nil
}
