package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"example.com/habitkick/internal/domain"
)

const challengeColumns = `id, title, description, metric, daily_target, duration_days, COALESCE(created_by::text, ''), created_at`

// CreateChallenge stores a challenge template.
func (r *Repository) CreateChallenge(ctx context.Context, c domain.Challenge) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO challenges (id, title, description, metric, daily_target, duration_days, created_by, created_at)
         VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7, '')::uuid,$8)`,
		c.ID, c.Title, c.Description, string(c.Metric), c.DailyTarget, c.DurationDays, c.CreatedBy, c.CreatedAt,
	)
	return mapPgError("create challenge", err)
}

// GetChallenge returns nil when the challenge does not exist.
func (r *Repository) GetChallenge(ctx context.Context, challengeID string) (*domain.Challenge, error) {
	c, err := scanChallenge(r.pool.QueryRow(ctx, `SELECT `+challengeColumns+` FROM challenges WHERE id=$1`, challengeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError("get challenge", err)
	}
	return &c, nil
}

// ListChallenges returns the newest challenges.
func (r *Repository) ListChallenges(ctx context.Context, limit int) ([]domain.Challenge, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+challengeColumns+` FROM challenges ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, mapPgError("list challenges", err)
	}
	defer rows.Close()

	results := make([]domain.Challenge, 0)
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, mapPgError("list challenges", err)
		}
		results = append(results, c)
	}
	return results, mapPgError("list challenges", rows.Err())
}

// JoinChallenge inserts the participant row.
func (r *Repository) JoinChallenge(ctx context.Context, p domain.Participant) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO challenge_participants (challenge_id, user_id, started_on) VALUES ($1,$2,$3)`,
		p.ChallengeID, p.UserID, p.StartedOn,
	)
	return mapPgError("join challenge", err)
}

// GetParticipant returns nil when the user has not joined.
func (r *Repository) GetParticipant(ctx context.Context, userID, challengeID string) (*domain.Participant, error) {
	var p domain.Participant
	err := r.pool.QueryRow(ctx,
		`SELECT challenge_id, user_id, started_on FROM challenge_participants WHERE challenge_id=$1 AND user_id=$2`,
		challengeID, userID,
	).Scan(&p.ChallengeID, &p.UserID, &p.StartedOn)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError("get participant", err)
	}
	return &p, nil
}

// UpsertProgress writes the day's value; an existing row for the day keeps its id.
func (r *Repository) UpsertProgress(ctx context.Context, p domain.DailyProgress) (*domain.DailyProgress, error) {
	var out domain.DailyProgress
	err := r.withUser(ctx, p.UserID, func(tx pgx.Tx) error {
		return scanProgress(tx.QueryRow(ctx,
			`INSERT INTO daily_progress (id, user_id, challenge_id, day, value, completed, updated_at)
             VALUES ($1,$2,$3,$4,$5,$6,$7)
             ON CONFLICT (user_id, challenge_id, day)
             DO UPDATE SET value=EXCLUDED.value, completed=EXCLUDED.completed, updated_at=EXCLUDED.updated_at
             RETURNING id, user_id, challenge_id, day, value, completed, updated_at`,
			p.ID, p.UserID, p.ChallengeID, p.Day, p.Value, p.Completed, p.UpdatedAt,
		), &out)
	})
	if err != nil {
		return nil, mapPgError("upsert progress", err)
	}
	return &out, nil
}

// ListProgress returns progress rows oldest day first.
func (r *Repository) ListProgress(ctx context.Context, userID, challengeID string) ([]domain.DailyProgress, error) {
	results := make([]domain.DailyProgress, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id, user_id, challenge_id, day, value, completed, updated_at
               FROM daily_progress WHERE user_id=$1 AND challenge_id=$2 ORDER BY day`,
			userID, challengeID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p domain.DailyProgress
			if err := scanProgress(rows, &p); err != nil {
				return err
			}
			results = append(results, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, mapPgError("list progress", err)
	}
	return results, nil
}

func scanChallenge(row pgx.Row) (domain.Challenge, error) {
	var (
		c      domain.Challenge
		metric string
	)
	err := row.Scan(&c.ID, &c.Title, &c.Description, &metric, &c.DailyTarget, &c.DurationDays, &c.CreatedBy, &c.CreatedAt)
	c.Metric = domain.ChallengeMetric(metric)
	return c, err
}

func scanProgress(row pgx.Row, p *domain.DailyProgress) error {
	return row.Scan(&p.ID, &p.UserID, &p.ChallengeID, &p.Day, &p.Value, &p.Completed, &p.UpdatedAt)
}
