package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/persistence/postgres"
)

//go:embed challenges.yaml
var defaultCatalog []byte

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter challenge catalog",
	Long: `Creates every challenge in the catalog whose title does not exist yet.

Without --file the built-in catalog is used.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML challenge catalog")
}

type catalogFile struct {
	Challenges []catalogEntry `yaml:"challenges"`
}

type catalogEntry struct {
	Title        string  `yaml:"title"`
	Description  string  `yaml:"description"`
	Metric       string  `yaml:"metric"`
	DailyTarget  float64 `yaml:"daily_target"`
	DurationDays int     `yaml:"duration_days"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	data := defaultCatalog
	if seedFile != "" {
		b, err := os.ReadFile(seedFile)
		if err != nil {
			return err
		}
		data = b
	}

	pool, err := pgxpool.New(cmd.Context(), cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	svc := domain.NewChallengeService(postgres.NewRepository(pool))
	created, skipped, err := seedChallenges(cmd.Context(), svc, data, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	logger.Info("seed complete", zap.Int("created", created), zap.Int("skipped", skipped))
	return nil
}

// seedChallenges creates catalog entries whose title is not already taken, case-insensitively.
func seedChallenges(ctx context.Context, svc *domain.ChallengeService, data []byte, out io.Writer) (created, skipped int, err error) {
	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return 0, 0, fmt.Errorf("parse catalog: %w", err)
	}

	existing, err := svc.ListChallenges(ctx, 200)
	if err != nil {
		return 0, 0, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		seen[strings.ToLower(c.Title)] = struct{}{}
	}

	for _, entry := range catalog.Challenges {
		key := strings.ToLower(strings.TrimSpace(entry.Title))
		if _, ok := seen[key]; ok {
			skipped++
			continue
		}
		challenge, err := svc.CreateChallenge(ctx, domain.CreateChallengeInput{
			Title:        entry.Title,
			Description:  entry.Description,
			Metric:       domain.ChallengeMetric(entry.Metric),
			DailyTarget:  entry.DailyTarget,
			DurationDays: entry.DurationDays,
		})
		if err != nil {
			return created, skipped, fmt.Errorf("challenge %q: %w", entry.Title, err)
		}
		seen[key] = struct{}{}
		created++
		fmt.Fprintf(out, "created %s  %s\n", challenge.ID, challenge.Title)
	}
	return created, skipped, nil
}
