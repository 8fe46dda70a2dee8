// Command habitctl performs administrative tasks against a HabitKick deployment.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/habitkick/internal/config"
	"example.com/habitkick/internal/logging"
)

var (
	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "habitctl",
	Short: "HabitKick administration",
	Long: `habitctl manages a HabitKick deployment.

Available subcommands:
  migrate - Apply the embedded database migrations
  seed    - Load the starter challenge catalog
  token   - Mint an access token for a user id`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		l, err := logging.New("habitctl", cfg.LogLevel, "console")
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
