package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"example.com/habitkick/internal/config"
	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/persistence/memory"
	authlib "example.com/habitkick/pkg/auth"
)

func TestSeedChallengesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := domain.NewChallengeService(memory.NewStore())

	var out bytes.Buffer
	created, skipped, err := seedChallenges(ctx, svc, defaultCatalog, &out)
	require.NoError(t, err)
	require.Equal(t, 4, created)
	require.Zero(t, skipped)
	require.Contains(t, out.String(), "Hydration Hero")

	created, skipped, err = seedChallenges(ctx, svc, defaultCatalog, &out)
	require.NoError(t, err)
	require.Zero(t, created)
	require.Equal(t, 4, skipped)

	all, err := svc.ListChallenges(ctx, 50)
	require.NoError(t, err)
	require.Len(t, all, 4)
}

func TestSeedChallengesRejectsInvalidEntry(t *testing.T) {
	svc := domain.NewChallengeService(memory.NewStore())
	catalog := []byte(`
challenges:
  - title: Good
    metric: steps
    daily_target: 5000
    duration_days: 10
  - title: Bad
    metric: pushups
    daily_target: 10
    duration_days: 10
`)

	created, _, err := seedChallenges(context.Background(), svc, catalog, &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Contains(t, err.Error(), `"Bad"`)
	require.Equal(t, 1, created)
}

func TestSeedChallengesRejectsMalformedYAML(t *testing.T) {
	svc := domain.NewChallengeService(memory.NewStore())
	_, _, err := seedChallenges(context.Background(), svc, []byte("challenges: [oops"), &bytes.Buffer{})
	require.Error(t, err)
}

func TestTokenCommandMintsParseableToken(t *testing.T) {
	cfg = config.Config{JWTSecret: "test-secret", JWTIssuer: "habitkick.test", JWTTokenTTL: time.Hour}
	logger = zap.NewNop()
	tokenUserID = "8a3c9d2e-0000-4000-8000-000000000001"
	tokenEmail = "ana@example.com"
	tokenTTL = 0
	t.Cleanup(func() { tokenUserID, tokenEmail = "", "" })

	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	require.NoError(t, runToken(cmd, nil))
	require.Contains(t, stderr.String(), "expires")

	claims, err := authlib.Parse(strings.TrimSpace(stdout.String()), authlib.Config{Secret: "test-secret", Issuer: "habitkick.test"})
	require.NoError(t, err)
	require.Equal(t, tokenUserID, claims.Subject)
	require.True(t, claims.HasScope("habits:write"))
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}
