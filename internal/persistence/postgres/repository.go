// Package postgres implements the domain repositories on Postgres with row level security.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/observability"
)

// Postgres SQLSTATE codes translated by mapPgError.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Repository provides Postgres-backed persistence for every aggregate plus the outbox.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// withUser runs fn in a transaction whose row level security context is userID.
// An empty userID runs without a caller, which only sees tables without policies.
func (r *Repository) withUser(ctx context.Context, userID string, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT set_config('app.user_id', $1, true)", userID); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// insertOutbox records event in tx. A repeated dedupe key is ignored so replays do not double publish.
func (r *Repository) insertOutbox(ctx context.Context, tx pgx.Tx, event domain.Event) error {
	body, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	meta, ok := eventCatalog[event.Type]
	if !ok {
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	const stmt = `INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err = tx.Exec(ctx, stmt,
		event.UserID,
		event.AggregateType,
		event.AggregateID,
		event.Type,
		meta.Topic,
		meta.SchemaSubject,
		meta.PartitionKeyFn(event),
		body,
		fmt.Sprintf("%s:%s:%s", event.AggregateID, event.Type, event.UserID),
	)
	if err != nil {
		return err
	}
	observability.RecordEventRecorded(event.Type)
	return nil
}

func (r *Repository) insertOutboxAll(ctx context.Context, tx pgx.Tx, events []domain.Event) error {
	for _, event := range events {
		if err := r.insertOutbox(ctx, tx, event); err != nil {
			return err
		}
	}
	return nil
}

// mapPgError translates driver errors into domain sentinels. op names the failed operation.
func mapPgError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			switch pgErr.ConstraintName {
			case "users_email_key":
				return domain.ErrEmailTaken
			case "profiles_username_key":
				return domain.ErrUsernameTaken
			}
			return fmt.Errorf("%s: %w", op, domain.ErrAlreadyExists)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s violates %s", domain.ErrValidation, op, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireAffected returns ErrNotFound when a write matched no rows.
func requireAffected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic          string
	SchemaSubject  string
	PartitionKeyFn func(domain.Event) string
}

const (
	habitTopic       = "habit_events"
	competitionTopic = "competition_events"
)

var eventCatalog = map[string]EventMetadata{
	domain.EventWeightLogged: {
		Topic:          habitTopic,
		SchemaSubject:  "habit_events-weight_logged-value",
		PartitionKeyFn: func(e domain.Event) string { return e.UserID },
	},
	domain.EventGoalCompleted: {
		Topic:          habitTopic,
		SchemaSubject:  "habit_events-goal_completed-value",
		PartitionKeyFn: func(e domain.Event) string { return e.UserID },
	},
	domain.EventCompetitionPlayerInvited: {
		Topic:          competitionTopic,
		SchemaSubject:  "competition_events-player_invited-value",
		PartitionKeyFn: func(e domain.Event) string { return e.AggregateID },
	},
	domain.EventCompetitionFinalized: {
		Topic:          competitionTopic,
		SchemaSubject:  "competition_events-finalized-value",
		PartitionKeyFn: func(e domain.Event) string { return e.AggregateID },
	},
}

var (
	_ domain.AccountRepository     = (*Repository)(nil)
	_ domain.ProfileRepository     = (*Repository)(nil)
	_ domain.WeightRepository      = (*Repository)(nil)
	_ domain.WaterRepository       = (*Repository)(nil)
	_ domain.GoalRepository        = (*Repository)(nil)
	_ domain.CompetitionRepository = (*Repository)(nil)
	_ domain.ChallengeRepository   = (*Repository)(nil)
	_ domain.RecipeRepository      = (*Repository)(nil)
	_ domain.WorkoutRepository     = (*Repository)(nil)
)
