// Package main is the cycletrack command: the HTTP server plus offline tools that work
// on the local database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terraincognita07/cycletrack/internal/config"
	"github.com/terraincognita07/cycletrack/internal/logging"
)

var (
	configPath       string
	databaseOverride string
	version          = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cycletrack",
	Short: "Menstrual cycle tracker",
	Long: `cycletrack records periods and daily logs, estimates cycle averages and predicts
the next period, ovulation and fertile window.

Configuration is read from an optional YAML file and CYCLETRACK_* environment variables.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CYCLETRACK_CONFIG"), "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&databaseOverride, "db", "", "database path (overrides database.path)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(genSecretCmd)
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if databaseOverride != "" {
		cfg.Database.Path = databaseOverride
	}
	return cfg, nil
}

// newCommandLogger writes to stderr so command output on stdout stays machine readable.
func newCommandLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.NewWithWriter(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	return logger, nil
}
