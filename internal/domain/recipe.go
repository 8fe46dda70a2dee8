package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecipeHit is a search result from the recipe provider.
type RecipeHit struct {
	ExternalID string   `json:"external_id"`
	Title      string   `json:"title"`
	ImageURL   string   `json:"image_url,omitempty"`
	SourceURL  string   `json:"source_url,omitempty"`
	Calories   float64  `json:"calories"`
	Servings   float64  `json:"servings,omitempty"`
	DietLabels []string `json:"diet_labels,omitempty"`
}

// Recipe is a hit the user saved.
type Recipe struct {
	ID         string
	UserID     string
	ExternalID string
	Title      string
	ImageURL   string
	SourceURL  string
	Calories   float64
	CreatedAt  time.Time
}

// RecipeSearcher queries a recipe provider.
type RecipeSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]RecipeHit, error)
}

// RecipeRepository captures saved recipe persistence.
type RecipeRepository interface {
	SaveRecipe(ctx context.Context, recipe Recipe) error
	ListRecipes(ctx context.Context, userID string) ([]Recipe, error)
	DeleteRecipe(ctx context.Context, userID, recipeID string) error
}

// RecipeService orchestrates recipe search and the saved list.
type RecipeService struct {
	repo     RecipeRepository
	searcher RecipeSearcher
	now      func() time.Time
}

// NewRecipeService constructs a RecipeService.
func NewRecipeService(repo RecipeRepository, searcher RecipeSearcher) *RecipeService {
	return &RecipeService{repo: repo, searcher: searcher, now: time.Now}
}

// SearchRecipes proxies the provider.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string, limit int) ([]RecipeHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("query is required")
	}
	return s.searcher.Search(ctx, query, clampLimit(limit, 10, 50))
}

// SaveRecipe stores a hit for the user. Saving the same external id twice fails with ErrAlreadyExists.
func (s *RecipeService) SaveRecipe(ctx context.Context, userID string, hit RecipeHit) (*Recipe, error) {
	if strings.TrimSpace(hit.ExternalID) == "" {
		return nil, validationError("external_id is required")
	}
	if strings.TrimSpace(hit.Title) == "" {
		return nil, validationError("title is required")
	}
	if hit.Calories < 0 {
		return nil, validationError("calories must be >= 0")
	}
	recipe := Recipe{
		ID:         uuid.NewString(),
		UserID:     userID,
		ExternalID: strings.TrimSpace(hit.ExternalID),
		Title:      strings.TrimSpace(hit.Title),
		ImageURL:   hit.ImageURL,
		SourceURL:  hit.SourceURL,
		Calories:   hit.Calories,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.SaveRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListSavedRecipes returns the user's saved recipes newest first.
func (s *RecipeService) ListSavedRecipes(ctx context.Context, userID string) ([]Recipe, error) {
	return s.repo.ListRecipes(ctx, userID)
}

// DeleteRecipe removes a saved recipe.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	if strings.TrimSpace(recipeID) == "" {
		return validationError("recipe id is required")
	}
	return s.repo.DeleteRecipe(ctx, userID, recipeID)
}
