package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/habitkick/internal/domain"
)

// CreateWater stores a water entry.
func (r *Repository) CreateWater(ctx context.Context, entry domain.WaterEntry) error {
	err := r.withUser(ctx, entry.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO water_intake (id, user_id, amount_ml, consumed_at, created_at) VALUES ($1,$2,$3,$4,$5)`,
			entry.ID, entry.UserID, entry.AmountMl, entry.ConsumedAt, entry.CreatedAt,
		)
		return err
	})
	return mapPgError("create water", err)
}

// ListWater returns entries in [from, to) newest first.
func (r *Repository) ListWater(ctx context.Context, userID string, from, to time.Time) ([]domain.WaterEntry, error) {
	where, args := waterRange(userID, from, to)
	results := make([]domain.WaterEntry, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id, user_id, amount_ml, consumed_at, created_at FROM water_intake WHERE `+where+` ORDER BY consumed_at DESC, id DESC`,
			args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var e domain.WaterEntry
			if err := rows.Scan(&e.ID, &e.UserID, &e.AmountMl, &e.ConsumedAt, &e.CreatedAt); err != nil {
				return err
			}
			results = append(results, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, mapPgError("list water", err)
	}
	return results, nil
}

// SumWater totals amount_ml in [from, to).
func (r *Repository) SumWater(ctx context.Context, userID string, from, to time.Time) (int, error) {
	where, args := waterRange(userID, from, to)
	var total int
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount_ml), 0)::int FROM water_intake WHERE `+where, args...).Scan(&total)
	})
	if err != nil {
		return 0, mapPgError("sum water", err)
	}
	return total, nil
}

// DeleteWater removes an entry owned by the user.
func (r *Repository) DeleteWater(ctx context.Context, userID, entryID string) error {
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM water_intake WHERE id=$1 AND user_id=$2`, entryID, userID)
		if err != nil {
			return err
		}
		return requireAffected(tag)
	})
	return mapPgError("delete water", err)
}

func waterRange(userID string, from, to time.Time) (string, []interface{}) {
	where := `user_id=$1`
	args := []interface{}{userID}
	if !from.IsZero() {
		args = append(args, from)
		where += ` AND consumed_at >= $` + itoa(len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		where += ` AND consumed_at < $` + itoa(len(args))
	}
	return where, args
}

func itoa(n int) string { return strconv.Itoa(n) }
