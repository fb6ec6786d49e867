package main

import (
	"fmt"
	"time"

	"github.com/dangerclosesec/transpiler/internal/auth"
	"github.com/spf13/cobra"
)

func (a *app) tokenCmd() *cobra.Command {
	var (
		subject string
		expiry  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a grammar administration token for the API",
		Long:  `Mint a JWT carrying the grammar:admin scope, signed with JWT_SECRET.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if expiry <= 0 {
				expiry = a.cfg.JWT.ExpiryPeriod
			}
			tm := auth.NewTokenManager(a.cfg.JWT.Secret, expiry)

			token, err := tm.Generate(subject, auth.ScopeGrammarAdmin)
			if err != nil {
				return fmt.Errorf("generating token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "Token subject")
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "Token lifetime (defaults to JWT_EXPIRY)")
	return cmd
}
