//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/migrations"
)

func TestRepositoryAccountsAndProfiles(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t, ctx)

	alex := createAccount(t, ctx, repo, "alex@example.com", "Alex")

	err := repo.CreateAccount(ctx,
		domain.User{ID: uuid.NewString(), Email: "alex@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()},
		domain.Profile{UserID: uuid.NewString(), Username: "other", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()},
	)
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	err = repo.CreateAccount(ctx,
		domain.User{ID: uuid.NewString(), Email: "alex2@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()},
		domain.Profile{UserID: uuid.NewString(), Username: "ALEX", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()},
	)
	require.ErrorIs(t, err, domain.ErrUsernameTaken)

	byName, err := repo.GetProfileByUsername(ctx, "alex")
	require.NoError(t, err)
	require.Equal(t, alex, byName.UserID)

	contact, err := repo.GetContact(ctx, alex)
	require.NoError(t, err)
	require.Equal(t, "alex@example.com", contact.Email)
	require.Equal(t, "Alex", contact.Username)

	createAccount(t, ctx, repo, "al_ice@example.com", "al_ice")
	found, err := repo.SearchProfiles(ctx, "al_", 10)
	require.NoError(t, err)
	require.Len(t, found, 1, "underscore is matched literally")
}

func TestRepositoryWeightsRespectOwnershipAndCompetitors(t *testing.T) {
	ctx := context.Background()
	repo, pool := setupRepository(t, ctx)

	alex := createAccount(t, ctx, repo, "alex@example.com", "alex")
	sam := createAccount(t, ctx, repo, "sam@example.com", "sam")
	stranger := createAccount(t, ctx, repo, "kim@example.com", "kim")

	goals := domain.NewGoalService(repo, repo, repo, repo, repo)
	start := 90.0
	_, err := goals.CreateGoal(ctx, domain.CreateGoalInput{UserID: sam, Type: domain.GoalTypeWeight, TargetValue: 85})
	require.NoError(t, err)

	weights := domain.NewWeightService(repo, repo)
	base := time.Now().UTC().Add(-72 * time.Hour).Truncate(time.Second)
	for i, kg := range []float64{start, 87, 84.5} {
		_, _, err := weights.LogWeight(ctx, domain.LogWeightInput{UserID: sam, WeightKg: kg, RecordedAt: base.Add(time.Duration(i) * 24 * time.Hour)})
		require.NoError(t, err)
	}

	page, cursor, err := repo.ListWeights(ctx, sam, domain.WeightFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, 84.5, page[0].WeightKg)
	require.NotNil(t, cursor)
	rest, _, err := repo.ListWeights(ctx, sam, domain.WeightFilter{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, start, rest[0].WeightKg)

	completed, err := repo.ListGoals(ctx, sam, domain.GoalStatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)

	var outboxRows int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE user_id = $1`, sam).Scan(&outboxRows))
	require.Equal(t, 4, outboxRows, "three weight.logged plus one goal.completed")

	hidden, err := repo.WeightHistory(ctx, stranger, sam, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Empty(t, hidden)

	competitions := domain.NewCompetitionService(repo, repo, repo)
	comp, err := competitions.CreateCompetition(ctx, domain.CreateCompetitionInput{
		CreatorID: alex, Name: "Cut", StartDate: base.Add(-time.Hour), EndDate: base.Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	_, err = competitions.InvitePlayer(ctx, alex, comp.ID, "sam")
	require.NoError(t, err)

	visible, err := repo.WeightHistory(ctx, alex, sam, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, visible, 3)

	board, err := competitions.Leaderboard(ctx, alex, comp.ID)
	require.NoError(t, err)
	require.Equal(t, sam, board.Standings[0].UserID)
	require.InDelta(t, -6.11, board.Standings[0].PercentChange, 0.01)

	require.ErrorIs(t, repo.DeleteWeight(ctx, stranger, page[0].ID), domain.ErrNotFound)
}

func TestRepositoryFinalizesOnce(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t, ctx)

	alex := createAccount(t, ctx, repo, "alex@example.com", "alex")
	now := time.Now().UTC().Truncate(time.Second)
	comp := domain.Competition{
		ID: uuid.NewString(), Name: "Past", CreatedBy: alex,
		StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-time.Hour), CreatedAt: now,
		Players: []domain.Player{{UserID: alex, JoinedAt: now}},
	}
	require.NoError(t, repo.CreateCompetition(ctx, comp))

	ended, err := repo.ListEndedUnfinalized(ctx, now, 10, nil)
	require.NoError(t, err)
	require.Len(t, ended, 1)

	skipped, err := repo.ListEndedUnfinalized(ctx, now, 10, []string{comp.ID})
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Len(t, ended[0].Players, 1)
	require.Equal(t, "alex", ended[0].Players[0].Username)

	require.NoError(t, repo.FinalizeCompetition(ctx, comp.ID, "", now, nil))
	require.ErrorIs(t, repo.FinalizeCompetition(ctx, comp.ID, "", now, nil), domain.ErrCompetitionFinalized)
	require.ErrorIs(t, repo.FinalizeCompetition(ctx, uuid.NewString(), "", now, nil), domain.ErrNotFound)

	ended, err = repo.ListEndedUnfinalized(ctx, now, 10, nil)
	require.NoError(t, err)
	require.Empty(t, ended)

	err = repo.AddPlayer(ctx, comp.ID, domain.Player{UserID: alex, JoinedAt: now}, nil)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRepositoryChallengesRecipesWorkouts(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t, ctx)

	alex := createAccount(t, ctx, repo, "alex@example.com", "alex")
	now := time.Now().UTC().Truncate(time.Second)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	challenge := domain.Challenge{ID: uuid.NewString(), Title: "Hydrate", Metric: domain.MetricWaterMl, DailyTarget: 2000, DurationDays: 7, CreatedBy: alex, CreatedAt: now}
	require.NoError(t, repo.CreateChallenge(ctx, challenge))
	require.NoError(t, repo.JoinChallenge(ctx, domain.Participant{ChallengeID: challenge.ID, UserID: alex, StartedOn: day}))
	require.ErrorIs(t, repo.JoinChallenge(ctx, domain.Participant{ChallengeID: challenge.ID, UserID: alex, StartedOn: day}), domain.ErrAlreadyExists)

	first, err := repo.UpsertProgress(ctx, domain.DailyProgress{ID: uuid.NewString(), UserID: alex, ChallengeID: challenge.ID, Day: day, Value: 500, UpdatedAt: now})
	require.NoError(t, err)
	second, err := repo.UpsertProgress(ctx, domain.DailyProgress{ID: uuid.NewString(), UserID: alex, ChallengeID: challenge.ID, Day: day, Value: 2500, Completed: true, UpdatedAt: now})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.True(t, second.Completed)

	recipe := domain.Recipe{ID: uuid.NewString(), UserID: alex, ExternalID: "edamam-1", Title: "Oats", CreatedAt: now}
	require.NoError(t, repo.SaveRecipe(ctx, recipe))
	recipe.ID = uuid.NewString()
	require.ErrorIs(t, repo.SaveRecipe(ctx, recipe), domain.ErrAlreadyExists)

	list := domain.WorkoutList{ID: uuid.NewString(), UserID: alex, Name: "Push", CreatedAt: now}
	require.NoError(t, repo.CreateList(ctx, list))
	require.NoError(t, repo.AddWorkout(ctx, domain.Workout{ID: uuid.NewString(), ListID: list.ID, UserID: alex, Exercise: "Bench", Sets: 3, Reps: 5, CreatedAt: now}))
	count, err := repo.CountWorkoutsSince(ctx, alex, now.Add(-time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, repo.DeleteList(ctx, alex, list.ID))
	workouts, err := repo.ListWorkouts(ctx, alex, list.ID)
	require.NoError(t, err)
	require.Empty(t, workouts, "workouts cascade with their list")
}

func TestMapPgErrorCheckViolation(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t, ctx)
	alex := createAccount(t, ctx, repo, "alex@example.com", "alex")

	err := repo.CreateWater(ctx, domain.WaterEntry{ID: uuid.NewString(), UserID: alex, AmountMl: -1, ConsumedAt: time.Now().UTC(), CreatedAt: time.Now().UTC()})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func setupRepository(t *testing.T, ctx context.Context) (*Repository, *pgxpool.Pool) {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("habitkick"),
		postgrescontainer.WithUsername("habitkick"),
		postgrescontainer.WithPassword("habitkick"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, migrations.Apply(ctx, db))
	require.NoError(t, db.Close())

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return NewRepository(pool), pool
}

func createAccount(t *testing.T, ctx context.Context, repo *Repository, email, username string) string {
	t.Helper()
	now := time.Now().UTC()
	id := uuid.NewString()
	require.NoError(t, repo.CreateAccount(ctx,
		domain.User{ID: id, Email: email, PasswordHash: "hash", CreatedAt: now},
		domain.Profile{UserID: id, Username: username, CreatedAt: now, UpdatedAt: now},
	))
	return id
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
