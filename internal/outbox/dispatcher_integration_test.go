//go:build integration

package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/migrations"
)

func TestDispatcherPublishesMessages(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	userID := uuid.NewString()
	require.NotZero(t, seedOutbox(t, ctx, pool, userID, domain.EventWeightLogged))

	producer := &stubProducer{}
	registry := &stubRegistry{id: 42}
	dispatcher := NewDispatcher(pool, producer, registry, 10*time.Millisecond, 5)

	beforeDelivered := testutil.ToFloat64(publishedEvents.WithLabelValues(domain.EventWeightLogged, outcomeDelivered))
	beforeHistogram := histogramSampleCount(t)

	require.NoError(t, dispatcher.processBatch(ctx))

	require.Len(t, producer.writes, 1)
	require.Equal(t, "habit_events", producer.writes[0].topic)
	require.Len(t, producer.writes[0].messages, 1)

	require.InDelta(t, beforeDelivered+1, testutil.ToFloat64(publishedEvents.WithLabelValues(domain.EventWeightLogged, outcomeDelivered)), 0.0001)
	require.Greater(t, histogramSampleCount(t), beforeHistogram)

	var published int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NOT NULL`).Scan(&published))
	require.Equal(t, 1, published)

	// A second pass finds nothing left to claim.
	require.NoError(t, dispatcher.processBatch(ctx))
	require.Len(t, producer.writes, 1)
}

func TestDispatcherLeavesFreshClaimsAlone(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	eventID := seedOutbox(t, ctx, pool, uuid.NewString(), domain.EventWeightLogged)
	_, err := pool.Exec(ctx, `UPDATE outbox SET claimed_at = NOW() WHERE event_id = $1`, eventID)
	require.NoError(t, err)

	producer := &stubProducer{}
	dispatcher := NewDispatcher(pool, producer, &stubRegistry{id: 42}, 10*time.Millisecond, 5,
		WithClaimTimeout(time.Minute))

	require.NoError(t, dispatcher.processBatch(ctx))
	require.Empty(t, producer.writes, "another dispatcher still holds the claim")

	// The holder never published; once the claim is stale it is taken over.
	_, err = pool.Exec(ctx, `UPDATE outbox SET claimed_at = NOW() - interval '5 minutes' WHERE event_id = $1`, eventID)
	require.NoError(t, err)

	require.NoError(t, dispatcher.processBatch(ctx))
	require.Len(t, producer.writes, 1)

	var published int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NOT NULL`).Scan(&published))
	require.Equal(t, 1, published)
}

func TestDispatcherRoutesMessagesToDLQOnFailure(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	userID := uuid.NewString()
	require.NotZero(t, seedOutbox(t, ctx, pool, userID, domain.EventGoalCompleted))

	producer := &stubProducer{err: errors.New("kafka write failed")}
	dispatcher := NewDispatcher(pool, producer, &stubRegistry{id: 7}, 10*time.Millisecond, 5)

	beforeDLQ := testutil.ToFloat64(publishedEvents.WithLabelValues(domain.EventGoalCompleted, outcomeDeadLettered))

	require.NoError(t, dispatcher.processBatch(ctx))

	require.InDelta(t, beforeDLQ+1, testutil.ToFloat64(publishedEvents.WithLabelValues(domain.EventGoalCompleted, outcomeDeadLettered)), 0.0001)

	var dlqCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox_dlq WHERE user_id = $1`, userID).Scan(&dlqCount))
	require.Equal(t, 1, dlqCount)

	var published int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NOT NULL`).Scan(&published))
	require.Equal(t, 1, published)
}

func TestDLQManagerRequeuesThenQuarantines(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	userID := uuid.NewString()
	require.NotZero(t, seedOutbox(t, ctx, pool, userID, domain.EventCompetitionFinalized))

	failing := NewDispatcher(pool, &stubProducer{err: errors.New("broker down")}, &stubRegistry{id: 9}, 10*time.Millisecond, 5)
	require.NoError(t, failing.processBatch(ctx))

	manager := NewDLQManager(pool, nil, 1, time.Second)
	requeued, err := manager.RunOnce(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 1, requeued)

	var pending int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`).Scan(&pending))
	require.Equal(t, 1, pending, "requeued event waits for the dispatcher")

	// Fail again, then exhaust the single allowed retry.
	require.NoError(t, failing.processBatch(ctx))
	_, err = pool.Exec(ctx, `UPDATE outbox_dlq SET retry_count = 1`)
	require.NoError(t, err)

	beforeQuarantined := testutil.ToFloat64(dlqOutcomes.WithLabelValues(domain.EventCompetitionFinalized, outcomeQuarantined))
	processed, err := manager.RunOnce(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 1, processed)
	require.InDelta(t, beforeQuarantined+1, testutil.ToFloat64(dlqOutcomes.WithLabelValues(domain.EventCompetitionFinalized, outcomeQuarantined)), 0.0001)

	var reason string
	require.NoError(t, pool.QueryRow(ctx, `SELECT quarantine_reason FROM outbox_dlq WHERE quarantined_at IS NOT NULL`).Scan(&reason))
	require.Equal(t, "retry limit reached", reason)
	require.Zero(t, testutil.ToFloat64(dlqPending))
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

func histogramSampleCount(t *testing.T) uint64 {
	t.Helper()

	metric := &dto.Metric{}
	require.NoError(t, batchDuration.Write(metric))
	hist := metric.GetHistogram()
	require.NotNil(t, hist)
	return hist.GetSampleCount()
}

var seedRoutes = map[string][2]string{
	domain.EventWeightLogged:         {"habit_events", "habit_events-weight_logged-value"},
	domain.EventGoalCompleted:        {"habit_events", "habit_events-goal_completed-value"},
	domain.EventCompetitionFinalized: {"competition_events", "competition_events-finalized-value"},
}

func seedOutbox(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userID, eventType string) int64 {
	t.Helper()

	aggregateID := uuid.NewString()
	payload, err := json.Marshal(map[string]any{"user_id": userID, "entry_id": aggregateID})
	require.NoError(t, err)

	route := seedRoutes[eventType]
	var eventID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
         RETURNING event_id`,
		userID, "test", aggregateID, eventType, route[0], route[1], userID, payload, aggregateID+":"+eventType,
	).Scan(&eventID)
	require.NoError(t, err)
	return eventID
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
