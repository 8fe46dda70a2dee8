package recipes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/habitkick/internal/cache"
	"example.com/habitkick/internal/domain"
)

const edamamResponse = `{
  "from": 1, "to": 3, "count": 3,
  "hits": [
    {"recipe": {"uri": "http://www.edamam.com/ontologies/edamam.owl#recipe_aaa111", "label": "Overnight Oats", "image": "https://img/1.jpg", "url": "https://example.com/oats", "yield": 2, "calories": 612.345, "dietLabels": ["Balanced", "High-Fiber"]}},
    {"recipe": {"uri": "http://www.edamam.com/ontologies/edamam.owl#recipe_bbb222", "label": "Baked Oats", "calories": 410}},
    {"recipe": {"uri": "", "label": "Broken"}}
  ]
}`

func TestClientSearchParsesHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "oats", q.Get("q"))
		require.Equal(t, "public", q.Get("type"))
		require.Equal(t, "id", q.Get("app_id"))
		require.Equal(t, "key", q.Get("app_key"))
		_, _ = w.Write([]byte(edamamResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "id", "key", time.Second)
	hits, err := client.Search(context.Background(), "oats", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, domain.RecipeHit{
		ExternalID: "aaa111",
		Title:      "Overnight Oats",
		ImageURL:   "https://img/1.jpg",
		SourceURL:  "https://example.com/oats",
		Calories:   612.3,
		Servings:   2,
		DietLabels: []string{"Balanced", "High-Fiber"},
	}, hits[0])
	require.Equal(t, "bbb222", hits[1].ExternalID)

	limited := parseHits([]byte(edamamResponse), 1)
	require.Len(t, limited, 1)
}

func TestClientSearchUnconfiguredOrFailing(t *testing.T) {
	_, err := NewClient("http://unused", "", "", time.Second).Search(context.Background(), "oats", 5)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	_, err = NewClient(srv.URL, "id", "key", time.Second).Search(context.Background(), "oats", 5)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestCachedSearcherServesRepeatQueriesFromCache(t *testing.T) {
	next := &countingSearcher{hits: []domain.RecipeHit{{ExternalID: "x", Title: "Salad"}}}
	searcher := NewCachedSearcher(next, cache.NewMemoryCache(), time.Hour, nil)

	for i := 0; i < 3; i++ {
		hits, err := searcher.Search(context.Background(), " Salad ", 5)
		require.NoError(t, err)
		require.Equal(t, next.hits, hits)
	}
	require.Equal(t, 1, next.calls)

	_, err := searcher.Search(context.Background(), "salad", 10)
	require.NoError(t, err)
	require.Equal(t, 2, next.calls, "limit is part of the key")
}

func TestCachedSearcherDoesNotCacheErrors(t *testing.T) {
	next := &countingSearcher{err: errors.New("down")}
	searcher := NewCachedSearcher(next, cache.NewMemoryCache(), time.Hour, nil)

	_, err := searcher.Search(context.Background(), "salad", 5)
	require.Error(t, err)
	_, err = searcher.Search(context.Background(), "salad", 5)
	require.Error(t, err)
	require.Equal(t, 2, next.calls)
}

type countingSearcher struct {
	hits  []domain.RecipeHit
	err   error
	calls int
}

func (s *countingSearcher) Search(context.Context, string, int) ([]domain.RecipeHit, error) {
	s.calls++
	return s.hits, s.err
}
