package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martomarzo/shutupandtakemythings/internal/auth"
	"github.com/martomarzo/shutupandtakemythings/internal/config"
	"github.com/martomarzo/shutupandtakemythings/internal/db"
)

func newPasswdCmd(cfg *config.Config) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Set the admin password directly in the database",
		Long: `Set the admin password directly in the database. Use this when the
current password is lost. Existing tokens stay valid until they expire.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.EnsureSchema(database); err != nil {
				return err
			}

			svc := &auth.Service{DB: database}
			if err := svc.ResetPassword(cmd.Context(), username, password); err != nil {
				return fmt.Errorf("resetting password for %s: %w", username, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s.\n", username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", cfg.Admin.Username, "admin username")
	cmd.Flags().StringVar(&password, "password", "", "new password (at least 6 characters)")
	cmd.Flags().StringVarP(&cfg.DBPath, "db", "d", cfg.DBPath, "SQLite database path")
	cmd.MarkFlagRequired("password")
	return cmd
}
