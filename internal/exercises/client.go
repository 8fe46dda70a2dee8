// Package exercises looks up exercises from the provider API with a built-in catalog fallback.
package exercises

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/httputil"
)

// Client queries an API Ninjas compatible exercises endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *httputil.Client
}

// NewClient constructs a Client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httputil.NewClient("exercises", timeout, httputil.DefaultRetryConfig()),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" && c.baseURL != "" }

// SearchExercises implements domain.ExerciseSearcher.
func (c *Client) SearchExercises(ctx context.Context, query string, limit int) ([]domain.Exercise, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: exercise provider is not configured", domain.ErrUpstreamUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?name="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: exercises returned %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	results := make([]domain.Exercise, 0, limit)
	gjson.ParseBytes(body).ForEach(func(_, item gjson.Result) bool {
		if len(results) >= limit {
			return false
		}
		name := item.Get("name").String()
		if name == "" {
			return true
		}
		ex := domain.Exercise{
			Name:         name,
			Type:         item.Get("type").String(),
			Muscle:       item.Get("muscle").String(),
			Equipment:    item.Get("equipment").String(),
			Difficulty:   item.Get("difficulty").String(),
			Instructions: item.Get("instructions").String(),
		}
		if ex.Muscle != "" {
			ex.Targets = []string{ex.Muscle}
		}
		results = append(results, ex)
		return true
	})
	return results, nil
}
