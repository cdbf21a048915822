package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/metrics"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/repository"
	"clinic-scheduling-server/internal/routes"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "clinic-scheduling-server",
		Short:         "Clinic scheduling API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE:  runMigrate,
	})

	return root
}

// bootstrap loads configuration, builds the logger and opens the database.
func bootstrap(ctx context.Context) (*config.Config, *logger.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.Environment)

	var fetcher config.SecretFetcher
	if cfg.Database.SecretID != "" {
		client, err := config.NewSecretsManagerClient(ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		fetcher = client
	}
	if err := cfg.Database.ResolveCredentials(ctx, fetcher); err != nil {
		return nil, nil, nil, err
	}

	db, err := models.OpenDB(models.DatabaseConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Writer:          log.WithComponent("gorm"),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error connecting to database: %w", err)
	}

	log.WithComponent("main").WithField("driver", cfg.Database.Driver).Info("Database connected")
	return cfg, log, db, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, log, db, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}

	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}
	log.WithComponent("main").Info("Database schema is up to date")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	mainLog := log.WithComponent("main")

	if cfg.Database.AutoMigrate {
		if err := models.Migrate(db); err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	router := routes.NewRouter(routes.Dependencies{
		Store:   repository.NewGormStore(db),
		Cfg:     cfg,
		Log:     log,
		Metrics: m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		mainLog.Infof("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	}

	mainLog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	mainLog.Info("Server stopped")
	return nil
}
