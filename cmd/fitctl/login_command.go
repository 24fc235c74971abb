package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"alcyxob/fitness-routines/internal/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const envPassword = "FITCTL_PASSWORD"

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if password == "" {
				password = os.Getenv(envPassword)
			}
			email = strings.TrimSpace(email)
			if email == "" || password == "" {
				return errors.New("--email and --password (or " + envPassword + ") are required")
			}

			api := client.NewClient(cfg.Server, "")
			token, err := api.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			cfg.Token = token
			if err := ctx.saveConfig(cfg); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Logged in as %s\n", color.GreenString("✓"), email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}
