package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terraincognita07/cycletrack/internal/api"
	"github.com/terraincognita07/cycletrack/internal/config"
	"github.com/terraincognita07/cycletrack/internal/db"
	"github.com/terraincognita07/cycletrack/internal/i18n"
	"github.com/terraincognita07/cycletrack/internal/logging"
	"github.com/terraincognita07/cycletrack/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until SIGINT or SIGTERM.

Requests authenticate with HS256 bearer tokens signed with auth.secret; the token
subject is the user id.

Examples:
  CYCLETRACK_AUTH_SECRET=... cycletrack serve
  cycletrack serve --config /etc/cycletrack/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateAuth(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	app, closeDB, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	sigCtx, stopSignals := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("cycletrack listening",
		zap.Int("port", cfg.Server.Port),
		zap.String("db", cfg.Database.Path),
		zap.String("tz", cfg.Location().String()),
	)
	if err := app.Listen(listenAddress(cfg.Server.Port)); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	logger.Info("cycletrack stopped")
	return nil
}

// buildServer wires storage, localization and handlers into a fiber app. The returned
// func closes the database.
func buildServer(cfg *config.Config, logger *zap.Logger) (*fiber.App, func(), error) {
	database, err := db.OpenSQLite(cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	i18nManager, err := i18n.NewDefaultManager(cfg.App.DefaultLanguage)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(database, api.HandlerOptions{
		Secret:   cfg.Auth.Secret,
		Location: cfg.Location(),
		I18n:     i18nManager,
		Logger:   logger,
		Metrics:  metrics.NewMetrics(),
	})
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("handler init failed: %w", err)
	}

	return api.NewApp(handler), closeDB, nil
}

func listenAddress(port int) string {
	return ":" + strconv.Itoa(port)
}
