package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/metrics"
	"github.com/terraincognita07/cycletrack/internal/models"
)

type PeriodRepository struct {
	database *gorm.DB
	metrics  *metrics.Metrics
}

func NewPeriodRepository(database *gorm.DB, m *metrics.Metrics) *PeriodRepository {
	return &PeriodRepository{database: database, metrics: m}
}

func (repo *PeriodRepository) ListPeriods(ctx context.Context, userID string) ([]models.Period, error) {
	periods := make([]models.Period, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC, created_at DESC").
		Find(&periods).Error; err != nil {
		return nil, translateError(repo.metrics, "list periods", err)
	}
	return periods, nil
}

func (repo *PeriodRepository) GetActivePeriod(ctx context.Context, userID string) (models.Period, bool, error) {
	return repo.findOne(ctx, "load active period",
		repo.database.WithContext(ctx).Where("user_id = ? AND end_date IS NULL", userID))
}

func (repo *PeriodRepository) GetLastPeriod(ctx context.Context, userID string) (models.Period, bool, error) {
	return repo.findOne(ctx, "load last period",
		repo.database.WithContext(ctx).Where("user_id = ?", userID).Order("start_date DESC, created_at DESC"))
}

func (repo *PeriodRepository) GetPeriod(ctx context.Context, periodID string) (models.Period, bool, error) {
	return repo.findOne(ctx, "load period", repo.database.WithContext(ctx).Where("id = ?", periodID))
}

func (repo *PeriodRepository) findOne(_ context.Context, op string, query *gorm.DB) (models.Period, bool, error) {
	period := models.Period{}
	result := query.Limit(1).Find(&period)
	if result.Error != nil {
		return models.Period{}, false, translateError(repo.metrics, op, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Period{}, false, nil
	}
	return period, true, nil
}

func (repo *PeriodRepository) InsertPeriod(ctx context.Context, period *models.Period) error {
	if err := repo.database.WithContext(ctx).Create(period).Error; err != nil {
		return translateError(repo.metrics, "insert period", err)
	}
	return nil
}

// UpdatePeriod applies update inside one transaction and returns the stored row.
func (repo *PeriodRepository) UpdatePeriod(ctx context.Context, periodID string, update models.PeriodUpdate) (models.Period, error) {
	var period models.Period
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", periodID).First(&period).Error; err != nil {
			return err
		}
		applyPeriodUpdate(&period, update)
		return tx.Save(&period).Error
	})
	if err != nil {
		return models.Period{}, translateError(repo.metrics, "update period", err)
	}
	return period, nil
}

// ReplaceActivePeriod ends activeID on endDate and inserts period in one transaction, so a
// failed insert leaves the active period open. A failed close also reports ErrInvalidState.
func (repo *PeriodRepository) ReplaceActivePeriod(ctx context.Context, activeID string, endDate time.Time, period *models.Period) (models.Period, error) {
	var closed models.Period
	closeFailed := false
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", activeID).First(&closed).Error; err != nil {
			closeFailed = true
			return err
		}
		applyPeriodUpdate(&closed, models.PeriodUpdate{EndDate: &endDate})
		if err := tx.Save(&closed).Error; err != nil {
			closeFailed = true
			return err
		}
		return tx.Create(period).Error
	})
	if err != nil {
		if closeFailed {
			return models.Period{}, errors.Join(apperr.ErrInvalidState, translateError(repo.metrics, "close active period", err))
		}
		return models.Period{}, translateError(repo.metrics, "insert period", err)
	}
	return closed, nil
}

func applyPeriodUpdate(period *models.Period, update models.PeriodUpdate) {
	if update.EndDate != nil {
		end := *update.EndDate
		period.EndDate = &end
	}
	if update.ClearEndDate {
		period.EndDate = nil
	}
	if update.PainLevel != nil {
		pain := *update.PainLevel
		period.PainLevel = &pain
	}
	if update.Mood != nil {
		mood := *update.Mood
		period.Mood = &mood
	}
	if update.Symptoms != nil {
		period.Symptoms = append([]string{}, update.Symptoms...)
	}
	if update.Notes != nil {
		period.Notes = *update.Notes
	}
	period.UpdatedAt = time.Now().UTC()
}
