package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/metrics"
	"github.com/terraincognita07/cycletrack/internal/models"
)

type PeriodStartResult struct {
	Period models.Period `json:"period"`
	// Closed is the previously active period, when starting this one closed it.
	Closed   *models.Period `json:"closed,omitempty"`
	Snapshot *CycleSnapshot `json:"snapshot,omitempty"`
}

type PeriodEndResult struct {
	Period   models.Period  `json:"period"`
	Snapshot *CycleSnapshot `json:"snapshot,omitempty"`
}

// PeriodService owns the period lifecycle. At most one period per user is open.
type PeriodService struct {
	periods PeriodStore
	cycles  *CycleService
	logger  *zap.Logger
	metrics *metrics.Metrics
	newID   func() string
}

func NewPeriodService(periods PeriodStore, cycles *CycleService, logger *zap.Logger, m *metrics.Metrics) *PeriodService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{
		periods: periods,
		cycles:  cycles,
		logger:  logger,
		metrics: m,
		newID:   uuid.NewString,
	}
}

func (service *PeriodService) ListPeriods(ctx context.Context, userID string) ([]models.Period, error) {
	periods, err := service.periods.ListPeriods(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap("list periods", userID, time.Time{}, err)
	}
	return periods, nil
}

// StartPeriod opens a period on date. An open period is closed the day before in the same
// store call as the insert; when that is impossible (date not after its start) nothing is
// written and ErrInvalidState is returned.
func (service *PeriodService) StartPeriod(ctx context.Context, userID string, date time.Time, input PeriodStartInput, now time.Time) (PeriodStartResult, error) {
	day := NormalizeDate(date)
	if err := ValidateLoggableDay(day, now); err != nil {
		return PeriodStartResult{}, apperr.Wrap("start period", userID, day, err)
	}
	normalized, err := NormalizePeriodStartInput(input)
	if err != nil {
		return PeriodStartResult{}, apperr.Wrap("start period", userID, day, err)
	}

	active, hasActive, err := service.periods.GetActivePeriod(ctx, userID)
	if err != nil {
		return PeriodStartResult{}, apperr.Wrap("load active period", userID, day, err)
	}

	period := models.Period{
		ID:        service.newID(),
		UserID:    userID,
		StartDate: day,
		Flow:      normalized.Flow,
		PainLevel: normalized.PainLevel,
		Mood:      normalized.Mood,
		Symptoms:  normalized.Symptoms,
		Notes:     normalized.Notes,
	}

	result := PeriodStartResult{}
	if hasActive {
		closed, err := service.replaceActive(ctx, userID, active, &period)
		if err != nil {
			return PeriodStartResult{}, err
		}
		result.Closed = &closed
	} else if err := service.periods.InsertPeriod(ctx, &period); err != nil {
		return PeriodStartResult{}, apperr.Wrap("insert period", userID, day, err)
	}
	service.metrics.RecordPeriodEvent("start")
	service.logger.Info("period started",
		zap.String("user_id", userID),
		zap.String("period_id", period.ID),
		zap.String("start_date", FormatDay(day)),
	)

	result.Period = period
	result.Snapshot = service.refreshSnapshot(ctx, userID, now)
	return result, nil
}

// replaceActive closes active the day before period starts and inserts period.
func (service *PeriodService) replaceActive(ctx context.Context, userID string, active models.Period, period *models.Period) (models.Period, error) {
	day := period.StartDate
	activeStart := NormalizeDate(active.StartDate)
	if !day.After(activeStart) {
		return models.Period{}, apperr.Wrap("start period", userID, day,
			fmt.Errorf("%w: active period %s started %s", apperr.ErrInvalidState, active.ID, FormatDay(activeStart)))
	}

	endDate := AddDays(day, -1)
	closed, err := service.periods.ReplaceActivePeriod(ctx, active.ID, endDate, period)
	if err != nil {
		return models.Period{}, apperr.Wrap("replace active period", userID, day, err)
	}
	service.metrics.RecordPeriodEvent("auto_close")
	service.logger.Info("active period closed",
		zap.String("user_id", userID),
		zap.String("period_id", active.ID),
		zap.String("end_date", FormatDay(endDate)),
	)
	return closed, nil
}

// EndPeriod closes an open period on date and merges the end-of-period details. A closed
// period reports both ErrNotFound and ErrInvalidState.
func (service *PeriodService) EndPeriod(ctx context.Context, userID string, periodID string, date time.Time, input PeriodEndInput, now time.Time) (PeriodEndResult, error) {
	day := NormalizeDate(date)
	if err := ValidateLoggableDay(day, now); err != nil {
		return PeriodEndResult{}, apperr.Wrap("end period", userID, day, err)
	}
	normalized, err := NormalizePeriodEndInput(input)
	if err != nil {
		return PeriodEndResult{}, apperr.Wrap("end period", userID, day, err)
	}

	period, found, err := service.periods.GetPeriod(ctx, periodID)
	if err != nil {
		return PeriodEndResult{}, apperr.Wrap("load period", userID, day, err)
	}
	if !found || period.UserID != userID {
		return PeriodEndResult{}, apperr.Wrap("end period", userID, day, apperr.ErrNotFound)
	}
	if !period.IsActive() {
		return PeriodEndResult{}, apperr.Wrap("end period", userID, day,
			fmt.Errorf("%w: %w: period %s already ended", apperr.ErrNotFound, apperr.ErrInvalidState, periodID))
	}
	if day.Before(NormalizeDate(period.StartDate)) {
		return PeriodEndResult{}, apperr.Wrap("end period", userID, day, apperr.ErrEndBeforeStart)
	}

	update := models.PeriodUpdate{
		EndDate:   &day,
		PainLevel: normalized.PainLevel,
		Mood:      normalized.Mood,
		Notes:     normalized.Notes,
	}
	if len(normalized.Symptoms) > 0 {
		update.Symptoms = MergeSymptoms(period.Symptoms, normalized.Symptoms)
	}

	ended, err := service.periods.UpdatePeriod(ctx, periodID, update)
	if err != nil {
		return PeriodEndResult{}, apperr.Wrap("end period", userID, day, err)
	}
	service.metrics.RecordPeriodEvent("end")
	service.logger.Info("period ended",
		zap.String("user_id", userID),
		zap.String("period_id", periodID),
		zap.String("end_date", FormatDay(day)),
	)

	return PeriodEndResult{Period: ended, Snapshot: service.refreshSnapshot(ctx, userID, now)}, nil
}

// ReopenPeriod clears the end date of a recently ended period.
func (service *PeriodService) ReopenPeriod(ctx context.Context, userID string, period models.Period) (models.Period, error) {
	if period.UserID != userID {
		return models.Period{}, apperr.Wrap("reopen period", userID, period.StartDate, apperr.ErrNotFound)
	}
	reopened, err := service.periods.UpdatePeriod(ctx, period.ID, models.PeriodUpdate{ClearEndDate: true})
	if err != nil {
		return models.Period{}, apperr.Wrap("reopen period", userID, period.StartDate, err)
	}
	service.metrics.RecordPeriodEvent("reopen")
	service.cycles.ClearManualOverride(ctx, userID)
	return reopened, nil
}

// refreshSnapshot recomputes averages after a committed mutation. The mutation is not
// rolled back when this fails, so failures only drop the snapshot from the result.
func (service *PeriodService) refreshSnapshot(ctx context.Context, userID string, now time.Time) *CycleSnapshot {
	service.cycles.ClearManualOverride(ctx, userID)
	snapshot, err := service.cycles.GetCycleSnapshot(ctx, userID, now)
	if err != nil {
		service.logger.Warn("refresh cycle snapshot failed", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return &snapshot
}
