package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/observability"
)

const weightColumns = `id, user_id, weight_kg, note, recorded_at, created_at`

// CreateWeight stores the entry, completes goals, and records events atomically.
func (r *Repository) CreateWeight(ctx context.Context, entry domain.WeightEntry, goals []domain.Goal, events []domain.Event) error {
	err := r.withUser(ctx, entry.UserID, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO weight_tracker (`+weightColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
			entry.ID, entry.UserID, entry.WeightKg, entry.Note, entry.RecordedAt, entry.CreatedAt,
		); err != nil {
			return err
		}
		for _, goal := range goals {
			if err := updateGoal(ctx, tx, goal); err != nil {
				return err
			}
		}
		return r.insertOutboxAll(ctx, tx, events)
	})
	if err != nil {
		return mapPgError("create weight", err)
	}
	observability.RecordWeightLogged(entry.RecordedAt)
	return nil
}

// ListWeights pages entries most recently logged first using a keyset cursor on (created_at, id).
// The optional range applies to recorded_at.
func (r *Repository) ListWeights(ctx context.Context, userID string, filter domain.WeightFilter) ([]domain.WeightEntry, *domain.Cursor, error) {
	args := []interface{}{userID, filter.Limit}
	query := `SELECT ` + weightColumns + ` FROM weight_tracker WHERE user_id=$1`
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND recorded_at >= $` + itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND recorded_at <= $` + itoa(len(args))
	}
	if filter.Cursor != nil {
		args = append(args, filter.Cursor.At, filter.Cursor.ID)
		query += ` AND (created_at, id) < ($` + itoa(len(args)-1) + `, $` + itoa(len(args)) + `::uuid)`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $2`

	var results []domain.WeightEntry
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		var err error
		results, err = queryWeights(ctx, tx, query, args...)
		return err
	})
	if err != nil {
		return nil, nil, mapPgError("list weights", err)
	}

	var next *domain.Cursor
	if len(results) == filter.Limit {
		last := results[len(results)-1]
		next = &domain.Cursor{At: last.CreatedAt, ID: last.ID}
	}
	return results, next, nil
}

// DeleteWeight removes an entry owned by the user.
func (r *Repository) DeleteWeight(ctx context.Context, userID, entryID string) error {
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM weight_tracker WHERE id=$1 AND user_id=$2`, entryID, userID)
		if err != nil {
			return err
		}
		return requireAffected(tag)
	})
	return mapPgError("delete weight", err)
}

// LatestWeight returns nil when the user has no entries.
func (r *Repository) LatestWeight(ctx context.Context, userID string) (*domain.WeightEntry, error) {
	var entry *domain.WeightEntry
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		e, err := scanWeight(tx.QueryRow(ctx,
			`SELECT `+weightColumns+` FROM weight_tracker WHERE user_id=$1 ORDER BY recorded_at DESC, id DESC LIMIT 1`, userID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, mapPgError("latest weight", err)
	}
	return entry, nil
}

// WeightHistory returns userID's entries oldest first as seen by actorID.
// Other users' rows are visible only when both share a competition.
func (r *Repository) WeightHistory(ctx context.Context, actorID, userID string, from, to time.Time) ([]domain.WeightEntry, error) {
	args := []interface{}{actorID, userID}
	query := `SELECT ` + weightColumns + ` FROM weight_tracker w
        WHERE w.user_id = $2
          AND ($1::uuid = $2::uuid OR EXISTS (
                SELECT 1 FROM competitions_players mine
                  JOIN competitions_players theirs ON theirs.competition_id = mine.competition_id
                 WHERE mine.user_id = $1 AND theirs.user_id = w.user_id))`
	if !from.IsZero() {
		args = append(args, from)
		query += ` AND w.recorded_at >= $` + itoa(len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += ` AND w.recorded_at <= $` + itoa(len(args))
	}
	query += ` ORDER BY w.recorded_at ASC, w.id ASC`

	var results []domain.WeightEntry
	err := r.withUser(ctx, actorID, func(tx pgx.Tx) error {
		var err error
		results, err = queryWeights(ctx, tx, query, args...)
		return err
	})
	if err != nil {
		return nil, mapPgError("weight history", err)
	}
	return results, nil
}

func queryWeights(ctx context.Context, tx pgx.Tx, query string, args ...interface{}) ([]domain.WeightEntry, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.WeightEntry, 0)
	for rows.Next() {
		entry, err := scanWeight(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	return results, rows.Err()
}

func scanWeight(row pgx.Row) (domain.WeightEntry, error) {
	var e domain.WeightEntry
	err := row.Scan(&e.ID, &e.UserID, &e.WeightKg, &e.Note, &e.RecordedAt, &e.CreatedAt)
	return e, err
}
