package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/photo-portfolio/backend/internal/assets"
	"github.com/ayush/photo-portfolio/backend/internal/auth"
	"github.com/ayush/photo-portfolio/backend/internal/config"
	"github.com/ayush/photo-portfolio/backend/internal/content"
	"github.com/ayush/photo-portfolio/backend/internal/listings"
	"github.com/ayush/photo-portfolio/backend/internal/metrics"
	"github.com/ayush/photo-portfolio/backend/internal/middleware"
	"github.com/ayush/photo-portfolio/backend/internal/portfolio"
	"github.com/ayush/photo-portfolio/backend/internal/server"
	"github.com/ayush/photo-portfolio/backend/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Migrate the database, then serve the REST API, the uploaded
images and the metrics endpoint until SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// ── PostgreSQL ────────────────────────────────────────────
	pool, err := connectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	version, err := migrate(ctx, pool)
	if err != nil {
		return err
	}
	logger.Info("database ready", "schema_version", version)
	pg := store.NewPostgresStore(pool)

	// ── Redis (optional content cache) ───────────────────────
	var cache content.Cache
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	switch {
	case err != nil:
		logger.Warn("content cache disabled", "error", err)
	case rdb != nil:
		defer func(rdb *redis.Client) { _ = rdb.Close() }(rdb)
		cache = content.NewRedisCache(rdb, cfg.ContentCacheTTL)
	}

	// ── Core services ────────────────────────────────────────
	m := metrics.New()
	files, err := assets.NewManager(cfg.UploadDir, logger, m)
	if err != nil {
		return err
	}
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	creds, err := auth.NewCredentials(pg, auth.NewBcryptHasher(bcrypt.DefaultCost))
	if err != nil {
		return err
	}
	guard := middleware.NewGuard(tokens, pg, m, logger)

	// ── Router ───────────────────────────────────────────────
	handler := server.NewRouter(server.Deps{
		Logger:       logger,
		Metrics:      m,
		Guard:        guard,
		Auth:         auth.NewHandler(creds, tokens, guard, m, logger),
		Portfolio:    portfolio.NewHandler(pg, files, cfg.MaxUploadBytes, logger),
		Content:      content.NewHandler(pg, files, cache, cfg.MaxUploadBytes, logger),
		Services:     listings.NewServiceHandler(pg, logger),
		Testimonials: listings.NewTestimonialHandler(pg, logger),
		Contacts:     listings.NewContactHandler(pg, logger),
		DB:           pg,
		UploadDir:    files.Dir(),
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxUploadBytes,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- oops.Code("SERVER_FAILED").With("addr", srv.Addr).Wrap(err)
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}
	return nil
}
