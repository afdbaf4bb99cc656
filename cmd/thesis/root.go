package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trade-thesis-lab/internal/config"
	"trade-thesis-lab/internal/logger"
	"trade-thesis-lab/internal/observability"
	"trade-thesis-lab/internal/storage/migrations"
	pgstore "trade-thesis-lab/internal/storage/postgres"
)

// Execute builds the command tree and runs it.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "thesis",
		Short:         "Suggest trade theses from a trading journal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	root.AddCommand(
		newSuggestCmd(&configPath),
		newImportCmd(&configPath),
		newMigrateCmd(&configPath),
	)
	return root
}

// env is what every subcommand needs after startup.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *observability.Metrics
}

func setup(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return &env{
		cfg:     cfg,
		log:     log,
		metrics: observability.NewMetrics(cfg.Metrics.Namespace),
	}, nil
}

func (e *env) close() {
	_ = e.log.Sync()
}

// connect opens the trade database and applies migrations when configured.
func (e *env) connect(ctx context.Context) (*pgstore.Pool, error) {
	if e.cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is not set (config [postgres] dsn, %sPOSTGRES_DSN or DATABASE_URL)", config.EnvPrefix)
	}

	pool, err := pgstore.NewPool(ctx, e.cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if e.cfg.Postgres.RunMigrations {
		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if len(applied) > 0 {
			e.log.Info("applied migrations", zap.Strings("files", applied))
		}
	}
	return pool, nil
}

// exportMetrics writes the textfile when a path is configured.
func (e *env) exportMetrics() {
	path := e.cfg.Metrics.Textfile
	if path == "" {
		return
	}
	if err := e.metrics.WriteTextfile(path); err != nil {
		e.log.Warn("write metrics textfile", zap.String("path", path), zap.Error(err))
	}
}

// serveMetrics exposes /metrics on ln until ctx is cancelled.
func (e *env) serveMetrics(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	e.log.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("serve metrics: %w", err)
	}
}
