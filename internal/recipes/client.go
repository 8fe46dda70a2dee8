// Package recipes searches the Edamam recipe API.
package recipes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/httputil"
)

// Client queries the recipe provider.
type Client struct {
	baseURL string
	appID   string
	appKey  string
	http    *httputil.Client
}

// NewClient constructs a Client for the Edamam v2 search endpoint.
func NewClient(baseURL, appID, appKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		appID:   appID,
		appKey:  appKey,
		http:    httputil.NewClient("recipes", timeout, httputil.DefaultRetryConfig()),
	}
}

// Search implements domain.RecipeSearcher.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.RecipeHit, error) {
	if c.appID == "" || c.appKey == "" {
		return nil, fmt.Errorf("%w: recipe provider is not configured", domain.ErrUpstreamUnavailable)
	}

	params := url.Values{}
	params.Set("type", "public")
	params.Set("q", query)
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: recipes returned %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}
	return parseHits(body, limit), nil
}

// parseHits extracts the fields HabitKick shows from an Edamam search response.
func parseHits(body []byte, limit int) []domain.RecipeHit {
	hits := make([]domain.RecipeHit, 0, limit)
	gjson.GetBytes(body, "hits.#.recipe").ForEach(func(_, recipe gjson.Result) bool {
		if len(hits) >= limit {
			return false
		}
		hit := domain.RecipeHit{
			ExternalID: externalID(recipe.Get("uri").String()),
			Title:      recipe.Get("label").String(),
			ImageURL:   recipe.Get("image").String(),
			SourceURL:  recipe.Get("url").String(),
			Calories:   round(recipe.Get("calories").Float()),
			Servings:   recipe.Get("yield").Float(),
		}
		for _, label := range recipe.Get("dietLabels").Array() {
			hit.DietLabels = append(hit.DietLabels, label.String())
		}
		if hit.ExternalID != "" && hit.Title != "" {
			hits = append(hits, hit)
		}
		return true
	})
	return hits
}

// externalID takes the fragment of an Edamam recipe uri, e.g. ...owl#recipe_abc -> abc.
func externalID(uri string) string {
	if i := strings.LastIndex(uri, "#recipe_"); i >= 0 {
		return uri[i+len("#recipe_"):]
	}
	return uri
}

func round(v float64) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return rounded
}
