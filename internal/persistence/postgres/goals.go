package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"example.com/habitkick/internal/domain"
)

const goalColumns = `id, user_id, goal_type, target_value, start_value, deadline, status, completed_at, created_at, updated_at`

// CreateGoal stores a goal.
func (r *Repository) CreateGoal(ctx context.Context, goal domain.Goal) error {
	err := r.withUser(ctx, goal.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO profile_goals (`+goalColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			goal.ID, goal.UserID, string(goal.Type), goal.TargetValue, goal.StartValue, goal.Deadline,
			string(goal.Status), goal.CompletedAt, goal.CreatedAt, goal.UpdatedAt,
		)
		return err
	})
	return mapPgError("create goal", err)
}

// GetGoal returns nil when the goal does not exist for the user.
func (r *Repository) GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	var goal *domain.Goal
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		g, err := scanGoal(tx.QueryRow(ctx, `SELECT `+goalColumns+` FROM profile_goals WHERE id=$1 AND user_id=$2`, goalID, userID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		goal = &g
		return nil
	})
	if err != nil {
		return nil, mapPgError("get goal", err)
	}
	return goal, nil
}

// ListGoals returns goals newest first, optionally filtered by status.
func (r *Repository) ListGoals(ctx context.Context, userID string, status domain.GoalStatus) ([]domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM profile_goals WHERE user_id=$1`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	results := make([]domain.Goal, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			goal, err := scanGoal(rows)
			if err != nil {
				return err
			}
			results = append(results, goal)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, mapPgError("list goals", err)
	}
	return results, nil
}

// UpdateGoal persists the goal and any events in one transaction.
func (r *Repository) UpdateGoal(ctx context.Context, goal domain.Goal, events []domain.Event) error {
	err := r.withUser(ctx, goal.UserID, func(tx pgx.Tx) error {
		if err := updateGoal(ctx, tx, goal); err != nil {
			return err
		}
		return r.insertOutboxAll(ctx, tx, events)
	})
	return mapPgError("update goal", err)
}

// DeleteGoal removes a goal owned by the user.
func (r *Repository) DeleteGoal(ctx context.Context, userID, goalID string) error {
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM profile_goals WHERE id=$1 AND user_id=$2`, goalID, userID)
		if err != nil {
			return err
		}
		return requireAffected(tag)
	})
	return mapPgError("delete goal", err)
}

func updateGoal(ctx context.Context, tx pgx.Tx, goal domain.Goal) error {
	tag, err := tx.Exec(ctx,
		`UPDATE profile_goals SET target_value=$3, start_value=$4, deadline=$5, status=$6, completed_at=$7, updated_at=$8
         WHERE id=$1 AND user_id=$2`,
		goal.ID, goal.UserID, goal.TargetValue, goal.StartValue, goal.Deadline, string(goal.Status), goal.CompletedAt, goal.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func scanGoal(row pgx.Row) (domain.Goal, error) {
	var (
		g        domain.Goal
		goalType string
		status   string
	)
	err := row.Scan(&g.ID, &g.UserID, &goalType, &g.TargetValue, &g.StartValue, &g.Deadline, &status, &g.CompletedAt, &g.CreatedAt, &g.UpdatedAt)
	g.Type = domain.GoalType(goalType)
	g.Status = domain.GoalStatus(status)
	return g, err
}
