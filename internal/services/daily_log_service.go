package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/metrics"
	"github.com/terraincognita07/cycletrack/internal/models"
)

const reopenWindowDays = 2

type PeriodChange string

const (
	PeriodChangeNone     PeriodChange = ""
	PeriodChangeStarted  PeriodChange = "started"
	PeriodChangeReopened PeriodChange = "reopened"
	PeriodChangeEnded    PeriodChange = "ended"
)

type DailyLogResult struct {
	Entry        models.DailyLog `json:"entry"`
	PeriodChange PeriodChange    `json:"period_change,omitempty"`
	Period       *models.Period  `json:"period,omitempty"`
}

// DailyLogService stores per-day logs and keeps periods in step with the logged flow.
type DailyLogService struct {
	logs    DailyLogStore
	periods PeriodStore
	period  *PeriodService
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewDailyLogService(logs DailyLogStore, periods PeriodStore, period *PeriodService, logger *zap.Logger, m *metrics.Metrics) *DailyLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyLogService{logs: logs, periods: periods, period: period, logger: logger, metrics: m}
}

// GetDailyLog returns the stored entry, or an empty "none" entry for an unlogged day.
func (service *DailyLogService) GetDailyLog(ctx context.Context, userID string, day time.Time) (models.DailyLog, error) {
	day = NormalizeDate(day)
	entry, found, err := service.logs.GetDailyLog(ctx, userID, day)
	if err != nil {
		return models.DailyLog{}, apperr.Wrap("load daily log", userID, day, err)
	}
	if !found {
		return models.DailyLog{UserID: userID, Date: day, Flow: models.FlowNone, Symptoms: []string{}}, nil
	}
	return entry, nil
}

func (service *DailyLogService) ListDailyLogs(ctx context.Context, userID string, from *time.Time, to *time.Time) ([]models.DailyLog, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperr.ErrInvalidDate
	}
	logs, err := service.logs.ListDailyLogs(ctx, userID, from, to)
	if err != nil {
		return nil, apperr.Wrap("list daily logs", userID, time.Time{}, err)
	}
	return logs, nil
}

func (service *DailyLogService) UpsertDailyLog(ctx context.Context, userID string, date time.Time, input DailyLogInput, now time.Time) (DailyLogResult, error) {
	day := NormalizeDate(date)
	if err := ValidateLoggableDay(day, now); err != nil {
		return DailyLogResult{}, apperr.Wrap("upsert daily log", userID, day, err)
	}
	normalized, err := NormalizeDailyLogInput(input)
	if err != nil {
		return DailyLogResult{}, apperr.Wrap("upsert daily log", userID, day, err)
	}

	existing, found, err := service.logs.GetDailyLog(ctx, userID, day)
	if err != nil {
		return DailyLogResult{}, apperr.Wrap("load daily log", userID, day, err)
	}
	previousFlow := models.FlowNone
	if found {
		previousFlow = existing.Flow
	}

	entry := existing
	if !found {
		entry = models.DailyLog{UserID: userID, Date: day}
	}
	entry.Flow = normalized.Flow
	if entry.Flow == "" {
		entry.Flow = models.FlowNone
	}
	entry.Mood = normalized.Mood
	entry.PainLevel = normalized.PainLevel
	entry.Symptoms = normalized.Symptoms
	entry.Notes = normalized.Notes

	if err := service.logs.UpsertDailyLog(ctx, &entry); err != nil {
		return DailyLogResult{}, apperr.Wrap("save daily log", userID, day, err)
	}

	result := DailyLogResult{Entry: entry}
	wasFlow := previousFlow != "" && previousFlow != models.FlowNone
	switch {
	case !wasFlow && entry.HasFlow():
		result.PeriodChange, result.Period, err = service.detectPeriodStart(ctx, userID, day, entry.Flow, now)
	case wasFlow && !entry.HasFlow():
		result.PeriodChange, result.Period, err = service.detectPeriodEnd(ctx, userID, day, now)
	}
	if err != nil {
		return DailyLogResult{}, err
	}
	if result.PeriodChange != PeriodChangeNone {
		service.metrics.RecordInferredChange(string(result.PeriodChange))
	}
	return result, nil
}

// detectPeriodStart reopens a period that ended shortly before day, or starts a new one.
func (service *DailyLogService) detectPeriodStart(ctx context.Context, userID string, day time.Time, flow string, now time.Time) (PeriodChange, *models.Period, error) {
	_, hasActive, err := service.periods.GetActivePeriod(ctx, userID)
	if err != nil {
		return PeriodChangeNone, nil, apperr.Wrap("load active period", userID, day, err)
	}
	if hasActive {
		return PeriodChangeNone, nil, nil
	}

	last, found, err := service.periods.GetLastPeriod(ctx, userID)
	if err != nil {
		return PeriodChangeNone, nil, apperr.Wrap("load last period", userID, day, err)
	}
	if found && last.EndDate != nil {
		sinceEnd := DaysBetween(*last.EndDate, day)
		if sinceEnd <= 0 && !day.Before(NormalizeDate(last.StartDate)) {
			// Already inside a recorded period.
			return PeriodChangeNone, nil, nil
		}
		if sinceEnd > 0 && sinceEnd <= reopenWindowDays {
			reopened, err := service.period.ReopenPeriod(ctx, userID, last)
			if err != nil {
				return PeriodChangeNone, nil, err
			}
			return PeriodChangeReopened, &reopened, nil
		}
	}

	started, err := service.period.StartPeriod(ctx, userID, day, PeriodStartInput{Flow: flow}, now)
	if err != nil {
		return PeriodChangeNone, nil, err
	}
	return PeriodChangeStarted, &started.Period, nil
}

// detectPeriodEnd ends the open period on the previous day once two consecutive days have
// no flow.
func (service *DailyLogService) detectPeriodEnd(ctx context.Context, userID string, day time.Time, now time.Time) (PeriodChange, *models.Period, error) {
	active, hasActive, err := service.periods.GetActivePeriod(ctx, userID)
	if err != nil {
		return PeriodChangeNone, nil, apperr.Wrap("load active period", userID, day, err)
	}
	if !hasActive {
		return PeriodChangeNone, nil, nil
	}

	yesterday, found, err := service.logs.GetDailyLog(ctx, userID, AddDays(day, -1))
	if err != nil {
		return PeriodChangeNone, nil, apperr.Wrap("load daily log", userID, AddDays(day, -1), err)
	}
	if !found || yesterday.HasFlow() {
		return PeriodChangeNone, nil, nil
	}

	endDate := AddDays(day, -1)
	if start := NormalizeDate(active.StartDate); endDate.Before(start) {
		endDate = start
	}
	ended, err := service.period.EndPeriod(ctx, userID, active.ID, endDate, PeriodEndInput{}, now)
	if err != nil {
		return PeriodChangeNone, nil, err
	}
	return PeriodChangeEnded, &ended.Period, nil
}
