package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/habitkick/internal/domain"
)

// CreateList stores a workout list.
func (r *Repository) CreateList(ctx context.Context, list domain.WorkoutList) error {
	err := r.withUser(ctx, list.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO lists (id, user_id, name, created_at) VALUES ($1,$2,$3,$4)`,
			list.ID, list.UserID, list.Name, list.CreatedAt)
		return err
	})
	return mapPgError("create list", err)
}

// GetList returns nil when the list does not exist for the user.
func (r *Repository) GetList(ctx context.Context, userID, listID string) (*domain.WorkoutList, error) {
	var list *domain.WorkoutList
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		var l domain.WorkoutList
		err := tx.QueryRow(ctx, `SELECT id, user_id, name, created_at FROM lists WHERE id=$1 AND user_id=$2`, listID, userID).
			Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		list = &l
		return nil
	})
	if err != nil {
		return nil, mapPgError("get list", err)
	}
	return list, nil
}

// ListLists returns the user's lists oldest first.
func (r *Repository) ListLists(ctx context.Context, userID string) ([]domain.WorkoutList, error) {
	results := make([]domain.WorkoutList, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT id, user_id, name, created_at FROM lists WHERE user_id=$1 ORDER BY created_at`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var l domain.WorkoutList
			if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt); err != nil {
				return err
			}
			results = append(results, l)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, mapPgError("list lists", err)
	}
	return results, nil
}

// RenameList changes a list name.
func (r *Repository) RenameList(ctx context.Context, userID, listID, name string) error {
	return r.execOwned(ctx, "rename list", userID, `UPDATE lists SET name=$3 WHERE id=$1 AND user_id=$2`, listID, userID, name)
}

// DeleteList removes a list; workouts cascade.
func (r *Repository) DeleteList(ctx context.Context, userID, listID string) error {
	return r.execOwned(ctx, "delete list", userID, `DELETE FROM lists WHERE id=$1 AND user_id=$2`, listID, userID)
}

// AddWorkout appends a workout to a list.
func (r *Repository) AddWorkout(ctx context.Context, w domain.Workout) error {
	err := r.withUser(ctx, w.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO workouts (id, list_id, user_id, exercise, sets, reps, weight_kg, created_at)
             VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			w.ID, w.ListID, w.UserID, w.Exercise, w.Sets, w.Reps, w.WeightKg, w.CreatedAt)
		return err
	})
	return mapPgError("add workout", err)
}

// ListWorkouts returns a list's workouts oldest first.
func (r *Repository) ListWorkouts(ctx context.Context, userID, listID string) ([]domain.Workout, error) {
	results := make([]domain.Workout, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id, list_id, user_id, exercise, sets, reps, weight_kg, created_at
               FROM workouts WHERE user_id=$1 AND list_id=$2 ORDER BY created_at`, userID, listID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var w domain.Workout
			if err := rows.Scan(&w.ID, &w.ListID, &w.UserID, &w.Exercise, &w.Sets, &w.Reps, &w.WeightKg, &w.CreatedAt); err != nil {
				return err
			}
			results = append(results, w)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, mapPgError("list workouts", err)
	}
	return results, nil
}

// RemoveWorkout deletes a workout from a list.
func (r *Repository) RemoveWorkout(ctx context.Context, userID, listID, workoutID string) error {
	return r.execOwned(ctx, "remove workout", userID,
		`DELETE FROM workouts WHERE id=$1 AND user_id=$2 AND list_id=$3`, workoutID, userID, listID)
}

// CountWorkoutsSince counts workouts created at or after since.
func (r *Repository) CountWorkoutsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT COUNT(*) FROM workouts WHERE user_id=$1 AND created_at >= $2`, userID, since).Scan(&count)
	})
	if err != nil {
		return 0, mapPgError("count workouts", err)
	}
	return count, nil
}

func (r *Repository) execOwned(ctx context.Context, op, userID, stmt string, args ...interface{}) error {
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, stmt, args...)
		if err != nil {
			return err
		}
		return requireAffected(tag)
	})
	return mapPgError(op, err)
}
