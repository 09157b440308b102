package services

import (
	"context"
	"time"

	"github.com/terraincognita07/cycletrack/internal/models"
)

// PeriodStore is the record store for periods. Implementations report failures using the
// apperr sentinels.
type PeriodStore interface {
	// ListPeriods returns every period of the user, most recent start first.
	ListPeriods(ctx context.Context, userID string) ([]models.Period, error)
	GetActivePeriod(ctx context.Context, userID string) (models.Period, bool, error)
	GetLastPeriod(ctx context.Context, userID string) (models.Period, bool, error)
	GetPeriod(ctx context.Context, periodID string) (models.Period, bool, error)
	InsertPeriod(ctx context.Context, period *models.Period) error
	UpdatePeriod(ctx context.Context, periodID string, update models.PeriodUpdate) (models.Period, error)
	// ReplaceActivePeriod ends activeID on endDate and inserts period atomically, returning
	// the closed period. A failure to close also matches apperr.ErrInvalidState.
	ReplaceActivePeriod(ctx context.Context, activeID string, endDate time.Time, period *models.Period) (models.Period, error)
}

type SettingsStore interface {
	GetUserSettings(ctx context.Context, userID string) (models.UserSettings, bool, error)
	UpsertUserSettings(ctx context.Context, settings *models.UserSettings) error
}

type DailyLogStore interface {
	GetDailyLog(ctx context.Context, userID string, day time.Time) (models.DailyLog, bool, error)
	UpsertDailyLog(ctx context.Context, entry *models.DailyLog) error
	ListDailyLogs(ctx context.Context, userID string, from *time.Time, to *time.Time) ([]models.DailyLog, error)
}
