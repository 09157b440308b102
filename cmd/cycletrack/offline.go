package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terraincognita07/cycletrack/internal/cli"
	"github.com/terraincognita07/cycletrack/internal/logging"
	"github.com/terraincognita07/cycletrack/internal/services"
)

var (
	userID        string
	calendarMonth string
	secretLength  int
	migrateDryRun bool
)

func init() {
	snapshotCmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	_ = snapshotCmd.MarkFlagRequired("user")

	calendarCmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "month as YYYY-MM (defaults to the current month)")
	_ = calendarCmd.MarkFlagRequired("user")

	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "list pending migrations without applying them")

	genSecretCmd.Flags().IntVar(&secretLength, "length", 48, "number of characters")
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print a user's cycle snapshot as JSON",
	Long: `Print the cycle snapshot of one user as of today: periods, active period,
current cycle day and phase, predictions and averages.

Examples:
  cycletrack snapshot --user 3f1c9a2e`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(func(runtime offlineRuntime) error {
			return cli.RunSnapshotCommand(cmd.Context(), cmd.OutOrStdout(), runtime.store, runtime.logger, userID, runtime.today)
		})
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print a user's classified month grid as JSON",
	Long: `Print the Sunday-first month grid of one user with the phase, period, fertility
and prediction flags of every day.

Examples:
  cycletrack calendar --user 3f1c9a2e --month 2025-03`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(func(runtime offlineRuntime) error {
			return cli.RunCalendarCommand(cmd.Context(), cmd.OutOrStdout(), runtime.store, runtime.logger, userID, calendarMonth, runtime.today)
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newCommandLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logging.Sync(logger) }()
		return cli.RunMigrateCommand(cmd.OutOrStdout(), cfg.Database.Path, logger, migrateDryRun)
	},
}

var genSecretCmd = &cobra.Command{
	Use:   "gen-secret",
	Short: "Generate a random value for auth.secret",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cli.RunGenerateSecretCommand(cmd.OutOrStdout(), secretLength)
	},
}

type offlineRuntime struct {
	store  *cli.Store
	logger *zap.Logger
	today  time.Time
}

func withStore(run func(offlineRuntime) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newCommandLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	store, err := cli.OpenStore(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return run(offlineRuntime{
		store:  store,
		logger: logger,
		today:  services.DateInLocation(time.Now(), cfg.Location()),
	})
}
