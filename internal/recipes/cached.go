package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"example.com/habitkick/internal/cache"
	"example.com/habitkick/internal/domain"
)

// CachedSearcher serves repeated searches from a cache. Cache failures fall through to the provider.
type CachedSearcher struct {
	next   domain.RecipeSearcher
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSearcher wraps next.
func NewCachedSearcher(next domain.RecipeSearcher, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{next: next, cache: c, ttl: ttl, logger: logger}
}

// Search implements domain.RecipeSearcher.
func (s *CachedSearcher) Search(ctx context.Context, query string, limit int) ([]domain.RecipeHit, error) {
	key := fmt.Sprintf("recipes:%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("recipe cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var hits []domain.RecipeHit
		if err := json.Unmarshal(raw, &hits); err == nil {
			return hits, nil
		}
		s.logger.Warn("discarding corrupt recipe cache entry", zap.String("key", key))
	}

	hits, err := s.next.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(hits); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.logger.Warn("recipe cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return hits, nil
}
