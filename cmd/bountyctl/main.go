// bountyctl is the operator CLI: administrative tasks that must not be
// reachable over the HTTP API, like seeding admin accounts and repairing
// program statistics.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vkazmin/bountyboard/internal/server/config"
	"github.com/vkazmin/bountyboard/internal/server/repositories/repomanager"
	"github.com/vkazmin/bountyboard/internal/server/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:           "bountyctl",
		Short:         "Operator tooling for the bounty board",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&dsn, "dsn", "d", "", "database DSN (defaults to server config)")

	root.AddCommand(newRecalcStatsCmd(&dsn))
	root.AddCommand(newCreateAdminCmd(&dsn))

	return root
}

// openEnv connects to the database and runs migrations so commands work on a
// fresh deployment too.
func openEnv(ctx context.Context, dsn string) (*sql.DB, repomanager.RepositoryManager, *config.Config, error) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	if dsn != "" {
		cfg.DatabaseDSN = dsn
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, m, cfg, nil
}

func newRecalcStatsCmd(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recalc-stats",
		Short: "Rebuild program statistics from the submissions table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, m, _, err := openEnv(ctx, *dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			updated, err := services.NewStatsService(db, m).Recalculate(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "recalculated stats for %d program(s)\n", updated)
			return nil
		},
	}
}

func newCreateAdminCmd(dsn *string) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			password, err := promptPassword()
			if err != nil {
				return err
			}

			db, m, cfg, err := openEnv(ctx, *dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			admin, err := services.NewUserService(db, m, cfg).CreateAdmin(ctx, username, email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q (id %d)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "admin", "admin username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email")
	cmd.MarkFlagRequired("email")

	return cmd
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Repeat password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(password), nil
}
