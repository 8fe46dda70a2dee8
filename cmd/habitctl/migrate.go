package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/habitkick/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	Long: `Applies every embedded SQL migration in name order to POSTGRES_URL.

Migrations are written to be idempotent, so rerunning is safe.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := sql.Open("pgx", cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	if err := migrations.Apply(cmd.Context(), db); err != nil {
		return err
	}
	applied, err := migrations.Load()
	if err != nil {
		return err
	}
	logger.Info("migrations applied", zap.Int("count", len(applied)))
	return nil
}
