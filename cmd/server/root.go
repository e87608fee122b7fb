package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/ayush/photo-portfolio/backend/internal/config"
	"github.com/ayush/photo-portfolio/backend/internal/logging"
	"github.com/ayush/photo-portfolio/backend/internal/store"
)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Photography portfolio CMS backend",
		Long: `Serves the portfolio API, manages uploaded images and
keeps the PostgreSQL schema current.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewCreateAdminCmd())

	return cmd
}

// loadConfig reads and validates the environment, then builds the logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return cfg, logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat), nil
}

func connectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "ping").Wrap(err)
	}
	return pool, nil
}

// migrate runs goose over a database/sql view of the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) { _ = db.Close() }(db)

	if err := store.Migrate(ctx, db); err != nil {
		return 0, oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	return store.MigrationStatus(ctx, db)
}
