// Command migrate applies the embedded plan schema migrations.
//
//	migrate up
//	migrate down
//	migrate steps -- -1
//	migrate version
//	migrate force 1
//
// The connection string comes from --dsn, then $WAYFARER_DB_DSN, then the
// [database] table of config.toml.
package main

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/wayfarer/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = config.Prefix + "DB_DSN"

var dsn string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the wayfarer database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres connection string")

	rootCmd.AddCommand(
		migration("up", "Apply every pending migration", cobra.NoArgs, func(m *migrate.Migrate, _ []string) (string, error) {
			return "schema up to date", ignoreNoChange(m.Up())
		}),
		migration("down", "Revert every migration", cobra.NoArgs, func(m *migrate.Migrate, _ []string) (string, error) {
			return "schema reverted", ignoreNoChange(m.Down())
		}),
		migration("steps N", "Apply N migrations, or revert when N is negative", cobra.ExactArgs(1), func(m *migrate.Migrate, args []string) (string, error) {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return "", fmt.Errorf("steps: %w", err)
			}
			return fmt.Sprintf("moved %d steps", n), ignoreNoChange(m.Steps(n))
		}),
		migration("version", "Print the applied version", cobra.NoArgs, func(m *migrate.Migrate, _ []string) (string, error) {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				return "no migrations applied", nil
			}
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("version %d (dirty: %t)", v, dirty), nil
		}),
		migration("force V", "Mark version V as applied without running it", cobra.ExactArgs(1), func(m *migrate.Migrate, args []string) (string, error) {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return "", fmt.Errorf("force: %w", err)
			}
			return fmt.Sprintf("forced version %d", v), m.Force(v)
		}),
	)
}

func migration(use, short string, args cobra.PositionalArgs, fn func(*migrate.Migrate, []string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()

			msg, err := fn(m, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func open() (*migrate.Migrate, error) {
	conn, err := resolveDSN()
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, conn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return m, nil
}

func resolveDSN() (string, error) {
	if dsn != "" {
		return dsn, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Database.Dsn(), nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
