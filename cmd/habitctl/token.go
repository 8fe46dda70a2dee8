package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"example.com/habitkick/internal/auth"
)

var (
	tokenUserID string
	tokenEmail  string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for a user id",
	Long: `Signs a bearer token with JWT_SECRET carrying the default user scopes.

Example:
  habitctl token --user 5f0c... --email dev@example.com --ttl 1h`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "subject user id (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to JWT_TOKEN_TTL)")
	_ = tokenCmd.MarkFlagRequired("user")
}

func runToken(cmd *cobra.Command, args []string) error {
	ttl := tokenTTL
	if ttl <= 0 {
		ttl = cfg.JWTTokenTTL
	}
	issuer := auth.NewIssuer(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, ttl)
	token, expires, err := issuer.IssueToken(tokenUserID, tokenEmail)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
	return nil
}
