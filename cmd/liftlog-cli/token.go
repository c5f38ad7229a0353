package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/claude/liftlog/internal/auth"
	"github.com/claude/liftlog/internal/config"
)

var (
	tokenConfig string
	tokenUser   string
	tokenTTL    time.Duration
)

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenConfig, "config", "config.yaml", "server config file holding auth.jwt_secret")
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id (default: a new random id)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "token lifetime")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token signed with the server's secret",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(tokenConfig)
		if err != nil {
			return err
		}

		userID := uuid.New()
		if tokenUser != "" {
			if userID, err = uuid.Parse(tokenUser); err != nil {
				return fmt.Errorf("--user: %w", err)
			}
		}

		token, err := auth.NewResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer).IssueToken(userID, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "user %s\n", userID)
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
