package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/models"
)

type SettingsResult struct {
	Settings   models.UserSettings `json:"settings"`
	Prediction *Prediction         `json:"prediction,omitempty"`
}

type SettingsService struct {
	settings SettingsStore
	periods  PeriodStore
	logger   *zap.Logger
}

func NewSettingsService(settings SettingsStore, periods PeriodStore, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{settings: settings, periods: periods, logger: logger}
}

// GetSettings returns the stored settings, or the defaults for a user without any.
func (service *SettingsService) GetSettings(ctx context.Context, userID string) (models.UserSettings, error) {
	stored, found, err := service.settings.GetUserSettings(ctx, userID)
	if err != nil {
		return models.UserSettings{}, apperr.Wrap("load settings", userID, time.Time{}, err)
	}
	if !found {
		return models.DefaultUserSettings(userID), nil
	}
	return stored, nil
}

// UpdateSettings stores user-entered lengths as a manual override and returns the
// prediction they imply. The override holds until the next period event.
func (service *SettingsService) UpdateSettings(ctx context.Context, userID string, input CycleSettingsInput, now time.Time) (SettingsResult, error) {
	if err := ValidateCycleSettings(input); err != nil {
		return SettingsResult{}, apperr.Wrap("update settings", userID, time.Time{}, err)
	}

	settings, err := service.GetSettings(ctx, userID)
	if err != nil {
		return SettingsResult{}, err
	}
	settings.CycleLength = input.CycleLength
	settings.PeriodLength = input.PeriodLength
	settings.ManualOverride = true

	if err := service.settings.UpsertUserSettings(ctx, &settings); err != nil {
		return SettingsResult{}, apperr.Wrap("save settings", userID, time.Time{}, err)
	}
	service.logger.Info("cycle settings updated",
		zap.String("user_id", userID),
		zap.Int("cycle_length", settings.CycleLength),
		zap.Int("period_length", settings.PeriodLength),
	)

	result := SettingsResult{Settings: settings}
	last, found, err := service.periods.GetLastPeriod(ctx, userID)
	if err != nil {
		return SettingsResult{}, apperr.Wrap("load last period", userID, time.Time{}, err)
	}
	if found {
		if prediction, ok := PredictNextCycle(last.StartDate, settings.CycleLength, now); ok {
			result.Prediction = &prediction
		}
	}
	return result, nil
}
