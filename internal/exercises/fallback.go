package exercises

import (
	"context"

	"go.uber.org/zap"

	"example.com/habitkick/internal/domain"
)

// FallbackSearcher asks the provider first and answers from the catalog when it is unconfigured or failing.
type FallbackSearcher struct {
	client  *Client
	catalog *Catalog
	logger  *zap.Logger
}

// NewFallbackSearcher constructs a FallbackSearcher. client may be nil.
func NewFallbackSearcher(client *Client, catalog *Catalog, logger *zap.Logger) *FallbackSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackSearcher{client: client, catalog: catalog, logger: logger}
}

// SearchExercises implements domain.ExerciseSearcher.
func (s *FallbackSearcher) SearchExercises(ctx context.Context, query string, limit int) ([]domain.Exercise, error) {
	if s.client != nil && s.client.Configured() {
		results, err := s.client.SearchExercises(ctx, query, limit)
		if err == nil && len(results) > 0 {
			return results, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("exercise provider failed, using catalog", zap.String("query", query), zap.Error(err))
		}
	}
	return s.catalog.SearchExercises(ctx, query, limit)
}
