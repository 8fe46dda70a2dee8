//go:build integration

package consumer

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/habitkick/internal/migrations"
)

func TestEventLogHandlerStoresEventOnce(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	handler := NewEventLogHandler(pool)

	payload := json.RawMessage(`{"entry_id":"abc","user_id":"user-123","weight_kg":81.2}`)
	msg := Message{
		EventType:     "weight.logged",
		UserID:        "user-123",
		SchemaID:      42,
		SchemaSubject: "habit_events-weight_logged-value",
		Topic:         "habit_events",
		Partition:     0,
		Offset:        5,
		Payload:       payload,
		Timestamp:     time.Now().UTC(),
	}

	require.NoError(t, handler.Handle(ctx, msg))
	require.NoError(t, handler.Handle(ctx, msg), "redelivery is a no-op")

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM event_log`).Scan(&count))
	require.Equal(t, 1, count)

	var storedPayload []byte
	var userID string
	require.NoError(t, pool.QueryRow(ctx, `SELECT payload, user_id FROM event_log LIMIT 1`).Scan(&storedPayload, &userID))
	require.JSONEq(t, string(payload), string(storedPayload))
	require.Equal(t, "user-123", userID)
}

func setupPostgres(t *testing.T, ctx context.Context) (*pgxpool.Pool, func()) {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("habitkick"),
		postgrescontainer.WithUsername("habitkick"),
		postgrescontainer.WithPassword("habitkick"),
	)
	require.NoError(t, err)

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, migrations.Apply(ctx, db))
	require.NoError(t, db.Close())

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pg.Terminate(ctx)
	}
	return pool, cleanup
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
