package db

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraincognita07/cycletrack/internal/metrics"
	"github.com/terraincognita07/cycletrack/internal/models"
)

type DailyLogRepository struct {
	database *gorm.DB
	metrics  *metrics.Metrics
}

func NewDailyLogRepository(database *gorm.DB, m *metrics.Metrics) *DailyLogRepository {
	return &DailyLogRepository{database: database, metrics: m}
}

func (repo *DailyLogRepository) GetDailyLog(ctx context.Context, userID string, day time.Time) (models.DailyLog, bool, error) {
	dayStart, dayEnd := dayRange(day)
	entry := models.DailyLog{}
	result := repo.database.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Order("date DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.DailyLog{}, false, translateError(repo.metrics, "load daily log", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.DailyLog{}, false, nil
	}
	return entry, true, nil
}

func (repo *DailyLogRepository) UpsertDailyLog(ctx context.Context, entry *models.DailyLog) error {
	entry.Date = normalizeDay(entry.Date)
	query := repo.database.WithContext(ctx)

	var err error
	if entry.ID != 0 {
		err = query.Save(entry).Error
	} else {
		err = query.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"flow", "mood", "pain_level", "symptoms", "notes", "updated_at"}),
		}).Create(entry).Error
	}
	if err != nil {
		return translateError(repo.metrics, "save daily log", err)
	}
	return nil
}

// ListDailyLogs returns entries between the optional inclusive day bounds, oldest first.
func (repo *DailyLogRepository) ListDailyLogs(ctx context.Context, userID string, from *time.Time, to *time.Time) ([]models.DailyLog, error) {
	query := repo.database.WithContext(ctx).Model(&models.DailyLog{}).Where("user_id = ?", userID)
	if from != nil {
		fromStart, _ := dayRange(*from)
		query = query.Where("date >= ?", fromStart)
	}
	if to != nil {
		_, toEnd := dayRange(*to)
		query = query.Where("date < ?", toEnd)
	}

	logs := make([]models.DailyLog, 0)
	if err := query.Order("date ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, translateError(repo.metrics, "list daily logs", err)
	}
	return logs, nil
}

func normalizeDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

func dayRange(value time.Time) (time.Time, time.Time) {
	start := normalizeDay(value)
	return start, start.AddDate(0, 0, 1)
}
