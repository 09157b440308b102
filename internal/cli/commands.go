// Package cli implements the offline cycletrack commands that work directly on the
// local database.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/terraincognita07/cycletrack/internal/db"
	"github.com/terraincognita07/cycletrack/internal/security"
	"github.com/terraincognita07/cycletrack/internal/services"
)

var errUserRequired = errors.New("user id is required")

// Store is an opened database with its repositories.
type Store struct {
	Database     *gorm.DB
	Repositories *db.Repositories
}

// OpenStore opens the database at dbPath, applying pending migrations.
func OpenStore(dbPath string, logger *zap.Logger) (*Store, error) {
	database, err := db.OpenSQLite(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return &Store{Database: database, Repositories: db.NewRepositories(database, nil)}, nil
}

func (store *Store) Close() error {
	sqlDB, err := store.Database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RunSnapshotCommand prints the cycle snapshot of userID as of now.
func RunSnapshotCommand(ctx context.Context, out io.Writer, store *Store, logger *zap.Logger, userID string, now time.Time) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errUserRequired
	}

	cycles := services.NewCycleService(store.Repositories.Periods, store.Repositories.Settings, logger, nil)
	snapshot, err := cycles.GetCycleSnapshot(ctx, userID, now)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}
	return writeJSON(out, snapshot)
}

// RunCalendarCommand prints the classified month grid of userID. month is YYYY-MM; empty
// means the month of now.
func RunCalendarCommand(ctx context.Context, out io.Writer, store *Store, logger *zap.Logger, userID string, month string, now time.Time) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errUserRequired
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if strings.TrimSpace(month) != "" {
		parsed, err := time.ParseInLocation("2006-01", strings.TrimSpace(month), time.UTC)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
		}
		monthStart = parsed
	}

	cycles := services.NewCycleService(store.Repositories.Periods, store.Repositories.Settings, logger, nil)
	chain, err := cycles.CycleChain(ctx, userID, now)
	if err != nil {
		return fmt.Errorf("load cycles: %w", err)
	}

	from := services.AddDays(monthStart, -7)
	to := services.AddDays(monthStart.AddDate(0, 1, -1), 7)
	logs, err := store.Repositories.DailyLogs.ListDailyLogs(ctx, userID, &from, &to)
	if err != nil {
		return fmt.Errorf("load daily logs: %w", err)
	}

	return writeJSON(out, map[string]any{
		"month": monthStart.Format("2006-01"),
		"days":  services.BuildCalendarMonth(monthStart, chain, logs, now),
	})
}

// RunMigrateCommand applies pending migrations and lists them. With dryRun it only lists
// what would be applied.
func RunMigrateCommand(out io.Writer, dbPath string, logger *zap.Logger, dryRun bool) error {
	database, err := db.Open(dbPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	verb := "Applied"
	var names []string
	if dryRun {
		verb = "Pending"
		names, err = db.PendingMigrations(database)
	} else {
		names, err = db.Migrate(database, logger)
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if len(names) == 0 {
		_, err = fmt.Fprintln(out, "Schema is up to date")
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(out, "%s %s\n", verb, name); err != nil {
			return err
		}
	}
	return nil
}

// RunGenerateSecretCommand prints a fresh value for auth.secret.
func RunGenerateSecretCommand(out io.Writer, length int) error {
	secret, err := security.GenerateSecret(length)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, secret)
	return err
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
