package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraincognita07/cycletrack/internal/metrics"
	"github.com/terraincognita07/cycletrack/internal/models"
)

type SettingsRepository struct {
	database *gorm.DB
	metrics  *metrics.Metrics
}

func NewSettingsRepository(database *gorm.DB, m *metrics.Metrics) *SettingsRepository {
	return &SettingsRepository{database: database, metrics: m}
}

func (repo *SettingsRepository) GetUserSettings(ctx context.Context, userID string) (models.UserSettings, bool, error) {
	settings := models.UserSettings{}
	result := repo.database.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&settings)
	if result.Error != nil {
		return models.UserSettings{}, false, translateError(repo.metrics, "load settings", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.UserSettings{}, false, nil
	}
	return settings, true, nil
}

func (repo *SettingsRepository) UpsertUserSettings(ctx context.Context, settings *models.UserSettings) error {
	err := repo.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"cycle_length", "period_length", "manual_override", "updated_at"}),
	}).Create(settings).Error
	if err != nil {
		return translateError(repo.metrics, "save settings", err)
	}
	return nil
}
