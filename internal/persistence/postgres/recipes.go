package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/habitkick/internal/domain"
)

// SaveRecipe stores a saved recipe; saving the same external id twice conflicts.
func (r *Repository) SaveRecipe(ctx context.Context, recipe domain.Recipe) error {
	err := r.withUser(ctx, recipe.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO recipes (id, user_id, external_id, title, image_url, source_url, calories, created_at)
             VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			recipe.ID, recipe.UserID, recipe.ExternalID, recipe.Title, recipe.ImageURL, recipe.SourceURL, recipe.Calories, recipe.CreatedAt,
		)
		return err
	})
	return mapPgError("save recipe", err)
}

// ListRecipes returns saved recipes newest first.
func (r *Repository) ListRecipes(ctx context.Context, userID string) ([]domain.Recipe, error) {
	results := make([]domain.Recipe, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id, user_id, external_id, title, image_url, source_url, calories, created_at
               FROM recipes WHERE user_id=$1 ORDER BY created_at DESC`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rec domain.Recipe
			if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ExternalID, &rec.Title, &rec.ImageURL, &rec.SourceURL, &rec.Calories, &rec.CreatedAt); err != nil {
				return err
			}
			results = append(results, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, mapPgError("list recipes", err)
	}
	return results, nil
}

// DeleteRecipe removes a saved recipe owned by the user.
func (r *Repository) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM recipes WHERE id=$1 AND user_id=$2`, recipeID, userID)
		if err != nil {
			return err
		}
		return requireAffected(tag)
	})
	return mapPgError("delete recipe", err)
}
