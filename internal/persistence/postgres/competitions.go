package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/habitkick/internal/domain"
)

const competitionColumns = `id, name, description, created_by, start_date, end_date, finalized_at, winner_id, created_at`

// CreateCompetition stores the competition and its initial players.
func (r *Repository) CreateCompetition(ctx context.Context, c domain.Competition) error {
	err := r.withUser(ctx, c.CreatedBy, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO competitions (id, name, description, created_by, start_date, end_date, created_at)
             VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			c.ID, c.Name, c.Description, c.CreatedBy, c.StartDate, c.EndDate, c.CreatedAt,
		); err != nil {
			return err
		}
		for _, p := range c.Players {
			if err := insertPlayer(ctx, tx, c.ID, p); err != nil {
				return err
			}
		}
		return nil
	})
	return mapPgError("create competition", err)
}

// GetCompetition returns nil when the competition does not exist.
func (r *Repository) GetCompetition(ctx context.Context, competitionID string) (*domain.Competition, error) {
	c, err := scanCompetition(r.pool.QueryRow(ctx, `SELECT `+competitionColumns+` FROM competitions WHERE id=$1`, competitionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError("get competition", err)
	}
	list := []domain.Competition{c}
	if err := r.loadPlayers(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// ListCompetitionsForUser returns competitions the user plays in, newest start first.
func (r *Repository) ListCompetitionsForUser(ctx context.Context, userID string) ([]domain.Competition, error) {
	return r.listCompetitions(ctx, "list competitions",
		`SELECT `+competitionColumns+` FROM competitions
          WHERE id IN (SELECT competition_id FROM competitions_players WHERE user_id=$1)
          ORDER BY start_date DESC`, userID)
}

// ListEndedUnfinalized returns competitions past their end date awaiting finalization.
func (r *Repository) ListEndedUnfinalized(ctx context.Context, now time.Time, limit int, skip []string) ([]domain.Competition, error) {
	if skip == nil {
		// A NULL array would make the ALL comparison unknown and hide every row.
		skip = []string{}
	}
	return r.listCompetitions(ctx, "list ended competitions",
		`SELECT `+competitionColumns+` FROM competitions
          WHERE finalized_at IS NULL AND end_date <= $1 AND id::text <> ALL($3::text[])
          ORDER BY end_date LIMIT $2`, now, limit, skip)
}

func (r *Repository) listCompetitions(ctx context.Context, op, query string, args ...interface{}) ([]domain.Competition, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(op, err)
	}
	results := make([]domain.Competition, 0)
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			rows.Close()
			return nil, mapPgError(op, err)
		}
		results = append(results, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapPgError(op, err)
	}
	if err := r.loadPlayers(ctx, results); err != nil {
		return nil, err
	}
	return results, nil
}

// loadPlayers fills Players for every competition with one query.
func (r *Repository) loadPlayers(ctx context.Context, competitions []domain.Competition) error {
	if len(competitions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(competitions))
	index := make(map[string]int, len(competitions))
	for i, c := range competitions {
		ids = append(ids, c.ID)
		index[c.ID] = i
		competitions[i].Players = make([]domain.Player, 0)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT cp.competition_id, cp.user_id, COALESCE(p.username, ''), cp.joined_at
           FROM competitions_players cp
           LEFT JOIN profiles p ON p.user_id = cp.user_id
          WHERE cp.competition_id = ANY($1::uuid[])
          ORDER BY cp.joined_at, cp.user_id`, ids)
	if err != nil {
		return mapPgError("load players", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			competitionID string
			player        domain.Player
		)
		if err := rows.Scan(&competitionID, &player.UserID, &player.Username, &player.JoinedAt); err != nil {
			return mapPgError("load players", err)
		}
		i := index[competitionID]
		competitions[i].Players = append(competitions[i].Players, player)
	}
	return mapPgError("load players", rows.Err())
}

// AddPlayer inserts a player and records events atomically.
func (r *Repository) AddPlayer(ctx context.Context, competitionID string, player domain.Player, events []domain.Event) error {
	err := r.withUser(ctx, player.UserID, func(tx pgx.Tx) error {
		if err := insertPlayer(ctx, tx, competitionID, player); err != nil {
			return err
		}
		return r.insertOutboxAll(ctx, tx, events)
	})
	return mapPgError("add player", err)
}

// RemovePlayer deletes the membership row.
func (r *Repository) RemovePlayer(ctx context.Context, competitionID, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM competitions_players WHERE competition_id=$1 AND user_id=$2`, competitionID, userID)
	if err != nil {
		return mapPgError("remove player", err)
	}
	return requireAffected(tag)
}

// DeleteCompetition removes the competition; players cascade.
func (r *Repository) DeleteCompetition(ctx context.Context, competitionID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM competitions WHERE id=$1`, competitionID)
	if err != nil {
		return mapPgError("delete competition", err)
	}
	return requireAffected(tag)
}

// FinalizeCompetition marks the competition finalized once and records events.
func (r *Repository) FinalizeCompetition(ctx context.Context, competitionID, winnerID string, finalizedAt time.Time, events []domain.Event) error {
	err := r.withUser(ctx, "", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE competitions SET finalized_at=$2, winner_id=NULLIF($3, '')::uuid
             WHERE id=$1 AND finalized_at IS NULL`,
			competitionID, finalizedAt, winnerID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM competitions WHERE id=$1)`, competitionID).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return domain.ErrCompetitionFinalized
			}
			return domain.ErrNotFound
		}
		return r.insertOutboxAll(ctx, tx, events)
	})
	return mapPgError("finalize competition", err)
}

func insertPlayer(ctx context.Context, tx pgx.Tx, competitionID string, p domain.Player) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO competitions_players (competition_id, user_id, joined_at) VALUES ($1,$2,$3)`,
		competitionID, p.UserID, p.JoinedAt,
	)
	return err
}

func scanCompetition(row pgx.Row) (domain.Competition, error) {
	var (
		c      domain.Competition
		winner *string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.StartDate, &c.EndDate, &c.FinalizedAt, &winner, &c.CreatedAt); err != nil {
		return domain.Competition{}, err
	}
	if winner != nil {
		c.WinnerID = *winner
	}
	return c, nil
}
